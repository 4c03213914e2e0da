package reactor

import (
	"slices"

	yangerrors "github.com/jacoelho/yang/errors"
	"github.com/jacoelho/yang/internal/stmt"
	"github.com/jacoelho/yang/internal/stmtdef"
)

// applyDeviations applies every supported deviation whose deviating module
// is allowed to deviate the target module.
func (r *reactor) applyDeviations() []error {
	var errs []error
	for _, mod := range r.order {
		for _, dev := range mod.root.all("deviation") {
			if dev.unsupported {
				continue
			}
			if err := r.applyDeviation(dev); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errs
}

func (r *reactor) applyDeviation(dev *stmtCtx) error {
	target, err := r.resolveAbsolute(dev, dev.arg)
	if err != nil {
		return err
	}
	if target == nil {
		return yangerrors.New(yangerrors.ErrInference, dev.ref, "Deviation target '%s' not found.", dev.arg)
	}
	if !r.deviates(dev.module, target.module) {
		r.log.Debug().Str("deviation", dev.arg).Str("module", dev.module.name()).
			Str("target", target.module.name()).Msg("deviation not enabled for target module")
		return nil
	}
	// added records the deviated node for the effective deviation.
	dev.added = []*stmtCtx{target}
	if !target.supported() {
		return nil
	}
	for _, dv := range dev.all("deviate") {
		kind, _ := stmtdef.ParseDeviateKind(dv.arg)
		var err error
		switch kind {
		case stmtdef.DeviateNotSupported:
			target.unsupported = true
			r.log.Debug().Str("target", dev.arg).Msg("node deviated as not supported")
			return nil
		case stmtdef.DeviateAdd:
			err = r.deviateAdd(dv, target)
		case stmtdef.DeviateReplace:
			err = r.deviateReplace(dv, target)
		case stmtdef.DeviateDelete:
			err = r.deviateDelete(dv, target)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// deviates reports whether module from may deviate nodes of module target.
func (r *reactor) deviates(from, target *moduleState) bool {
	if r.cfg.ModulesDeviatedBy == nil {
		return true
	}
	return slices.Contains(r.cfg.ModulesDeviatedBy[target.name()], from.name())
}

func checkDeviationTarget(sub, target *stmtCtx) error {
	if sub.isExtension() || stmtdef.DeviationTargetAllowed(sub.keyword.Name, target.keyword.Name) {
		return nil
	}
	return yangerrors.New(yangerrors.ErrSource, sub.ref, "%s is not a valid deviation target for substatement %s.",
		target.path(), stmt.DiagName(sub.keyword.Name))
}

func (r *reactor) deviateAdd(dv, target *stmtCtx) error {
	for _, sub := range dv.children {
		if err := checkDeviationTarget(sub, target); err != nil {
			return err
		}
		if !sub.isExtension() && stmtdef.SingletonOnAdd(sub.keyword.Name, target.keyword.Name) && target.first(sub.keyword.Name) != nil {
			return yangerrors.New(yangerrors.ErrInference, sub.ref,
				"Deviation cannot add substatement %s to target node %s because it is already defined in target and can appear only once.",
				stmt.DiagName(sub.keyword.Name), target.arg)
		}
		target.addChild(sub.copyTo(target, target.module, Original))
	}
	return nil
}

func (r *reactor) deviateReplace(dv, target *stmtCtx) error {
	for _, sub := range dv.children {
		if sub.isExtension() {
			continue
		}
		if err := checkDeviationTarget(sub, target); err != nil {
			return err
		}
		name := sub.keyword.Name
		if name == "default" && target.is("leaf-list") {
			r.log.Warn().Str("target", target.path()).Str("at", sub.ref.String()).
				Msg("deviate replace of a leaf-list default is not supported, skipping")
			continue
		}
		cp := sub.copyTo(target, target.module, Original)
		if old := target.first(name); old != nil {
			target.replaceChild(old, cp)
			continue
		}
		if !slices.Contains(stmtdef.ImplicitOnReplace, name) {
			return yangerrors.New(yangerrors.ErrInference, sub.ref,
				"Deviation cannot replace substatement %s in target node %s because it does not exist in target node.",
				stmt.DiagName(name), target.arg)
		}
		target.addChild(cp)
	}
	return nil
}

func (r *reactor) deviateDelete(dv, target *stmtCtx) error {
	for _, sub := range dv.children {
		if err := checkDeviationTarget(sub, target); err != nil {
			return err
		}
		idx := slices.IndexFunc(target.children, func(c *stmtCtx) bool {
			return c.keyword == sub.keyword && c.arg == sub.arg
		})
		if idx < 0 {
			r.log.Error().Str("target", target.path()).Str("substatement", sub.keyword.String()).Str("argument", sub.arg).
				Msg("deviate delete target substatement not found, skipping")
			continue
		}
		target.removeChild(target.children[idx])
	}
	return nil
}
