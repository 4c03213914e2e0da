package yang

import (
	"context"
	"fmt"

	"github.com/jacoelho/yang/internal/reactor"
	"github.com/jacoelho/yang/internal/source"
	"github.com/jacoelho/yang/schema"
)

// Compile loads every added source with its dependencies, links them and
// builds the effective model. Phase failures are *errors.Error values with
// code yang-some-modifiers-unresolved.
func (s *SchemaSet) Compile(ctx context.Context) (*schema.Context, error) {
	if s == nil {
		return nil, fmt.Errorf("compile schema set: nil set")
	}
	if len(s.entries) == 0 && len(s.readers) == 0 {
		return nil, invalidArgument("compile schema set: no sources added")
	}
	load, err := s.loadOpts.withDefaults()
	if err != nil {
		return nil, fmt.Errorf("compile schema set: %w", err)
	}
	if load.logger != nil {
		ctx = load.logger.WithContext(ctx)
	}

	inputs, resolver, err := s.prepareInputs(load)
	if err != nil {
		return nil, fmt.Errorf("compile schema set: %w", err)
	}
	sources, err := source.NewLoader(load.loaderConfig(resolver)).Load(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("compile schema set: %w", err)
	}
	result, err := reactor.Compile(ctx, sources, load.reactorConfig())
	if err != nil {
		return nil, fmt.Errorf("compile schema set: %w", err)
	}
	return result, nil
}
