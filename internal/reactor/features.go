package reactor

import (
	"errors"
	"slices"
	"strings"

	yangerrors "github.com/jacoelho/yang/errors"
	"github.com/jacoelho/yang/internal/graphcycle"
	"github.com/jacoelho/yang/internal/iffeature"
)

// ifFeature is a parsed if-feature statement with resolved references.
type ifFeature struct {
	expr iffeature.Expr
	refs map[iffeature.Ref]*stmtCtx
}

func (r *reactor) parseIfFeature(c *stmtCtx) (*ifFeature, error) {
	expr, err := iffeature.Parse(c.arg, c.version())
	if err != nil {
		return nil, yangerrors.Wrap(yangerrors.ErrSource, c.ref, err, "Invalid if-feature argument '%s': %v", c.arg, err)
	}
	out := &ifFeature{expr: expr, refs: make(map[iffeature.Ref]*stmtCtx)}
	for _, ref := range iffeature.Refs(expr) {
		f, err := r.lookupGlobal(c, "feature", ref.String())
		if err != nil {
			return nil, err
		}
		out.refs[ref] = f
	}
	return out, nil
}

// resolveFeatures computes the support of every feature. A feature is
// supported when the configuration lists it and its own if-features hold.
func (r *reactor) resolveFeatures() []error {
	var errs []error
	deps := make(map[*stmtCtx][]*stmtCtx)
	conds := make(map[*stmtCtx][]*ifFeature)
	var all []*stmtCtx
	for _, mod := range r.order {
		names := make([]string, 0, len(mod.features))
		for n := range mod.features {
			names = append(names, n)
		}
		slices.Sort(names)
		for _, n := range names {
			f := mod.features[n]
			all = append(all, f)
			for _, c := range f.all("if-feature") {
				iff, err := r.parseIfFeature(c)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				conds[f] = append(conds[f], iff)
				for _, dep := range iff.refs {
					deps[f] = append(deps[f], dep)
				}
			}
		}
	}
	if len(errs) > 0 {
		return errs
	}

	err := graphcycle.Detect(graphcycle.Config[*stmtCtx]{
		Starts: all,
		Next:   func(f *stmtCtx) ([]*stmtCtx, error) { return deps[f], nil },
	})
	var cycle graphcycle.CycleError[*stmtCtx]
	if errors.As(err, &cycle) {
		names := make([]string, len(cycle.Path))
		for i, f := range cycle.Path {
			names[i] = f.arg
		}
		return []error{yangerrors.New(yangerrors.ErrInference, cycle.Key.ref,
			"Feature %s has circular if-feature dependency: %s", cycle.Key.arg, strings.Join(names, " -> "))}
	}

	var eval func(f *stmtCtx) bool
	eval = func(f *stmtCtx) bool {
		mod := f.module
		if v, ok := mod.featureSupport[f]; ok {
			return v
		}
		v := r.featureListed(mod, f.arg)
		for _, iff := range conds[f] {
			v = v && iff.expr.Eval(func(ref iffeature.Ref) bool { return eval(iff.refs[ref]) })
		}
		mod.featureSupport[f] = v
		return v
	}
	for _, f := range all {
		eval(f)
	}
	return nil
}

func (r *reactor) featureListed(mod *moduleState, name string) bool {
	if r.cfg.SupportedFeatures == nil {
		return true
	}
	return slices.Contains(r.cfg.SupportedFeatures[mod.qnameModule().Namespace], name)
}

// applyIfFeatures marks statements whose if-features evaluate to false as
// unsupported. Refine if-features are applied with the refine.
func (r *reactor) applyIfFeatures() []error {
	var errs []error
	r.each(func(c *stmtCtx) bool {
		if c.is("feature") || c.is("refine") || c.is("deviate") {
			return false
		}
		for _, cond := range c.all("if-feature") {
			ok, err := r.evalIfFeature(cond)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if !ok {
				c.unsupported = true
			}
		}
		return true
	})
	return errs
}

func (r *reactor) evalIfFeature(c *stmtCtx) (bool, error) {
	iff, err := r.parseIfFeature(c)
	if err != nil {
		return false, err
	}
	return iff.expr.Eval(func(ref iffeature.Ref) bool {
		f := iff.refs[ref]
		return f.module.featureSupport[f]
	}), nil
}
