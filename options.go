package yang

import (
	"slices"
	"strings"

	"github.com/jacoelho/yang/internal/parser"
	"github.com/jacoelho/yang/internal/reactor"
	"github.com/jacoelho/yang/internal/source"
)

// DefaultParseConcurrency bounds parallel source parsing when unset.
const DefaultParseConcurrency = 4

// Validate validates load options values.
func (o LoadOptions) Validate() error {
	_, err := o.withDefaults()
	return err
}

func (o LoadOptions) withDefaults() (resolvedLoadOptions, error) {
	if o.parseConcurrency.value < 0 {
		return resolvedLoadOptions{}, invalidArgument("parse concurrency must not be negative: %d", o.parseConcurrency.value)
	}
	if o.maxDepth.value < 0 {
		return resolvedLoadOptions{}, invalidArgument("max depth must not be negative: %d", o.maxDepth.value)
	}
	if o.maxSourceSize.value < 0 {
		return resolvedLoadOptions{}, invalidArgument("max source size must not be negative: %d", o.maxSourceSize.value)
	}
	for namespace := range o.supportedFeatures {
		if strings.TrimSpace(namespace) == "" {
			return resolvedLoadOptions{}, invalidArgument("supported features: empty module namespace")
		}
	}
	for module, deviating := range o.deviatedBy {
		if strings.TrimSpace(module) == "" || slices.Contains(deviating, "") {
			return resolvedLoadOptions{}, invalidArgument("modules deviated by: empty module name")
		}
	}
	return resolvedLoadOptions{
		logger:            o.logger,
		resolver:          o.resolver,
		supportedFeatures: o.supportedFeatures,
		deviatedBy:        o.deviatedBy,
		parseConcurrency:  o.parseConcurrency.resolved(DefaultParseConcurrency),
		maxDepth:          o.maxDepth.resolved(parser.DefaultMaxDepth),
		maxSourceSize:     o.maxSourceSize.resolved(source.DefaultMaxSize),
	}, nil
}

func (o resolvedLoadOptions) loaderConfig(resolver source.Resolver) source.Config {
	return source.Config{
		Resolver:    resolver,
		Concurrency: o.parseConcurrency,
		MaxDepth:    o.maxDepth,
		MaxSize:     o.maxSourceSize,
	}
}

func (o resolvedLoadOptions) reactorConfig() reactor.Config {
	return reactor.Config{
		SupportedFeatures: o.supportedFeatures,
		ModulesDeviatedBy: o.deviatedBy,
	}
}

// cloneList copies a map of lists so options values never share storage.
func cloneList(m map[string][]string) map[string][]string {
	if m == nil {
		return nil
	}
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[k] = slices.Clone(v)
	}
	return out
}
