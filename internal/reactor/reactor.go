// Package reactor turns linked YANG sources into the effective model. It
// runs the STATEMENT_DEFINITION, FULL_DECLARATION and EFFECTIVE_MODEL
// phases over mutable statement contexts.
package reactor

import (
	"context"

	"github.com/rs/zerolog"

	yangerrors "github.com/jacoelho/yang/errors"
	"github.com/jacoelho/yang/internal/linkage"
	"github.com/jacoelho/yang/internal/source"
	"github.com/jacoelho/yang/schema"
)

// Phase names.
const (
	PhaseSourceLinkage       = "SOURCE_LINKAGE"
	PhaseStatementDefinition = "STATEMENT_DEFINITION"
	PhaseFullDeclaration     = "FULL_DECLARATION"
	PhaseEffectiveModel      = "EFFECTIVE_MODEL"
)

// Config controls feature support and deviations.
type Config struct {
	// SupportedFeatures lists supported feature names per module namespace.
	// A nil map supports every feature.
	SupportedFeatures map[string][]string
	// ModulesDeviatedBy lists, per target module name, the modules whose
	// deviations apply to it. A nil map applies every deviation.
	ModulesDeviatedBy map[string][]string
}

type reactor struct {
	cfg     Config
	log     zerolog.Logger
	modules map[*linkage.Unit]*moduleState
	order   []*moduleState
	types   *typeResolver

	// populated by the effective model phase
	nodes map[*stmtCtx]*schema.Node
	augs  map[*stmtCtx]*schema.Augmentation
	built []*schema.Module
}

// Compile links sources in the SOURCE_LINKAGE phase and builds the result.
// Library sources no main source requires are dropped.
func Compile(ctx context.Context, sources []*source.Source, cfg Config) (*schema.Context, error) {
	log := zerolog.Ctx(ctx)
	log.Debug().Str("phase", PhaseSourceLinkage).Int("sources", len(sources)).Msg("phase started")
	linked, err := linkage.Link(sources)
	if err != nil {
		return nil, unresolved(PhaseSourceLinkage, []error{err})
	}
	for _, src := range linked.Pruned {
		log.Debug().Str("source", src.SystemID).Msg("library source not required")
	}
	return Build(ctx, linked, cfg)
}

// Build compiles the linked modules into an immutable context. The logger
// attached to ctx receives phase progress and non-fatal deviation issues.
func Build(ctx context.Context, linked *linkage.Result, cfg Config) (*schema.Context, error) {
	r := &reactor{
		cfg:     cfg,
		log:     *zerolog.Ctx(ctx),
		modules: make(map[*linkage.Unit]*moduleState),
	}
	r.types = newTypeResolver(r)
	for _, u := range linked.Modules {
		mod := newModuleState(u)
		r.modules[u] = mod
		r.order = append(r.order, mod)
	}

	phases := []struct {
		name string
		run  func() []error
	}{
		{PhaseStatementDefinition, r.statementDefinition},
		{PhaseFullDeclaration, r.fullDeclaration},
		{PhaseEffectiveModel, r.effectiveModel},
	}
	for _, p := range phases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r.log.Debug().Str("phase", p.name).Int("modules", len(r.order)).Msg("phase started")
		if errs := p.run(); len(errs) > 0 {
			return nil, unresolved(p.name, errs)
		}
		r.log.Debug().Str("phase", p.name).Msg("phase finished")
	}
	return r.assemble()
}

func unresolved(phase string, errs []error) error {
	src := ""
	for _, e := range yangerrors.Flatten(errs[0]) {
		if e.Ref.Source != "" {
			src = e.Ref.Source
			break
		}
	}
	for _, err := range errs {
		for _, e := range yangerrors.Flatten(err) {
			e.WithPhase(phase)
		}
	}
	return yangerrors.Unresolved(phase, src, errs...)
}

// action is one pending inference step. run returns false while it waits
// for other actions; with final set it must explain why it cannot finish.
type action struct {
	run  func(final bool) (bool, error)
	name string
}

// progress runs actions until all finish or a full pass makes no progress.
func (r *reactor) progress(actions []action) []error {
	var errs []error
	pending := actions
	for len(pending) > 0 {
		var next []action
		for _, a := range pending {
			done, err := a.run(false)
			switch {
			case err != nil:
				errs = append(errs, err)
			case !done:
				next = append(next, a)
			}
		}
		if len(next) == len(pending) {
			for _, a := range next {
				if _, err := a.run(true); err != nil {
					errs = append(errs, err)
				}
			}
			return errs
		}
		pending = next
	}
	return errs
}

// walk visits c and its core descendants in pre-order.
func walk(c *stmtCtx, fn func(*stmtCtx) bool) {
	if !fn(c) {
		return
	}
	for _, ch := range c.children {
		walk(ch, fn)
	}
}

// each visits every statement of every module.
func (r *reactor) each(fn func(*stmtCtx) bool) {
	for _, mod := range r.order {
		walk(mod.root, fn)
	}
}
