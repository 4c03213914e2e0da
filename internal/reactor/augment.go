package reactor

import (
	yangerrors "github.com/jacoelho/yang/errors"
	"github.com/jacoelho/yang/internal/stmt"
	"github.com/jacoelho/yang/internal/stmtdef"
	"github.com/jacoelho/yang/pkg/xpath"
)

func (r *reactor) augmentAction(aug *stmtCtx) action {
	return action{
		name: "augment " + aug.arg,
		run: func(final bool) (bool, error) {
			if !aug.supported() {
				return true, nil
			}
			target, err := r.resolveAbsolute(aug, aug.arg)
			if err != nil {
				return false, err
			}
			switch {
			case target == nil || pendingUses(aug):
				if final {
					return false, yangerrors.New(yangerrors.ErrInference, aug.ref, "Augment target '%s' not found", aug.arg)
				}
				return false, nil
			case !target.supported():
				r.log.Debug().Str("target", aug.arg).Msg("augment target is not supported, skipping")
				return true, nil
			case hasPendingChild(target):
				if final {
					return false, yangerrors.New(yangerrors.ErrInference, aug.ref, "Augment target '%s' could not be completed", aug.arg)
				}
				return false, nil
			}
			if !stmtdef.AugmentTargetAllowed(target.keyword.Name) {
				return false, yangerrors.New(yangerrors.ErrSource, aug.ref, "Augment target '%s' is a %s, which cannot be augmented",
					aug.arg, stmt.DiagName(target.keyword.Name))
			}
			return true, r.applyAugment(aug, target, aug.module, AddedByAugmentation)
		},
	}
}

// hasPendingChild reports whether a direct uses of c waits for expansion.
func hasPendingChild(c *stmtCtx) bool {
	for _, ch := range c.children {
		if ch.is("uses") && !ch.expanded && !ch.unsupported {
			return true
		}
	}
	return false
}

// resolveAbsolute walks an absolute schema node identifier. Prefixes are
// resolved in the source of c. A nil result means the node does not exist
// yet.
func (r *reactor) resolveAbsolute(c *stmtCtx, path string) (*stmtCtx, error) {
	id, err := xpath.ParseSchemaNodeID(path)
	if err != nil {
		return nil, yangerrors.Wrap(yangerrors.ErrSource, c.ref, err, "Invalid schema node identifier '%s': %v", path, err)
	}
	var cur *stmtCtx
	for i, step := range id.Path {
		mod, err := r.moduleFor(c, step.Prefix)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			cur = mod.root
		}
		if cur = cur.schemaChild(mod, step.Name); cur == nil {
			return nil, nil
		}
	}
	return cur, nil
}

// applyAugment copies the schema nodes of aug into target, instantiated in
// mod.
func (r *reactor) applyAugment(aug, target *stmtCtx, mod *moduleState, history CopyHistory) error {
	checkMandatory := history == AddedByAugmentation &&
		!(aug.version() == "1.1" && aug.first("when") != nil) && requiresMandatoryCheck(target, mod)

	var added []*stmtCtx
	for _, ch := range aug.children {
		if !ch.isSchemaNode() || ch.unsupported {
			continue
		}
		if target.schemaChild(mod, ch.nodeName()) != nil {
			return yangerrors.New(yangerrors.ErrSource, ch.ref,
				"An augment cannot add node named '%s' because this name is already used in target", ch.nodeName())
		}
		if checkMandatory && isMandatory(ch) {
			return yangerrors.New(yangerrors.ErrInference, ch.ref,
				"An augment cannot add node '%s' because it is mandatory and in module different than target", ch.nodeName())
		}
		cp := ch.copyTo(target, mod, history)
		if target.is("choice") && !cp.is("case") {
			cp = wrapInCase(cp, target)
		}
		target.addChild(cp)
		added = append(added, cp)
	}
	aug.added = added
	target.augmentations = append(target.augmentations, aug)
	r.log.Debug().Str("target", aug.arg).Str("module", mod.name()).Int("nodes", len(added)).Msg("augment applied")
	return nil
}

// requiresMandatoryCheck walks target and its ancestors up to the module
// root. The check applies once an ancestor belongs to a module other than
// mod. Presence containers and optional choices or lists end the walk
// without a check, as do nodes added by a conditional augment of mod.
func requiresMandatoryCheck(target *stmtCtx, mod *moduleState) bool {
	for cur := target; cur != nil && cur.parent != nil; cur = cur.parent {
		if cur.module != mod {
			return true
		}
		switch {
		case cur.is("container") && cur.first("presence") != nil:
			return false
		case cur.is("choice") && !isMandatory(cur):
			return false
		case cur.is("list") && !isMandatory(cur):
			return false
		}
		if cur.copy.Has(AddedByAugmentation) && cur.original != nil {
			if src := enclosingAugment(cur.original); src != nil && src.first("when") != nil {
				return false
			}
		}
	}
	return false
}

// enclosingAugment returns the augment statement c was declared in.
func enclosingAugment(c *stmtCtx) *stmtCtx {
	for cur := c.parent; cur != nil; cur = cur.parent {
		if cur.is("augment") {
			return cur
		}
	}
	return nil
}

// isMandatory reports whether a schema node requires data to be present.
// Presence containers and optional choices or lists stop the search.
func isMandatory(c *stmtCtx) bool {
	switch c.keyword.Name {
	case "leaf", "choice", "anydata", "anyxml":
		v, _ := c.argOf("mandatory")
		return v == "true"
	case "list", "leaf-list":
		v, _ := c.argOf("min-elements")
		return v != "" && v != "0"
	case "container":
		if c.first("presence") != nil {
			return false
		}
		for _, ch := range c.schemaChildren() {
			if isMandatory(ch) {
				return true
			}
		}
	}
	return false
}
