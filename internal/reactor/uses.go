package reactor

import (
	"slices"

	yangerrors "github.com/jacoelho/yang/errors"
	"github.com/jacoelho/yang/internal/stmt"
	"github.com/jacoelho/yang/internal/stmtdef"
	"github.com/jacoelho/yang/pkg/xpath"
)

// replacedOnRefine lists refine substatements that replace the target's own.
var replacedOnRefine = []string{
	"config", "default", "description", "mandatory", "max-elements",
	"min-elements", "presence", "reference", "units",
}

// pendingUses reports whether a supported uses under c, outside nested
// grouping definitions, still waits for expansion.
func pendingUses(c *stmtCtx) bool {
	pending := false
	for _, ch := range c.children {
		walk(ch, func(x *stmtCtx) bool {
			if pending || x.is("grouping") || x.unsupported || x.isExtension() {
				return false
			}
			if x.is("uses") && !x.expanded {
				pending = true
			}
			return !pending
		})
	}
	return pending
}

func (r *reactor) usesAction(u *stmtCtx) action {
	return action{
		name: "uses " + u.arg,
		run: func(final bool) (bool, error) {
			if u.expanded || !u.supported() {
				return true, nil
			}
			if pendingUses(u.grouping) {
				if final {
					return false, yangerrors.New(yangerrors.ErrInference, u.ref, "Grouping '%s' could not be expanded.", u.arg)
				}
				return false, nil
			}
			if pendingUses(u) {
				// nested uses inside uses-augment bodies
				if final {
					return false, yangerrors.New(yangerrors.ErrInference, u.ref, "Uses '%s' augmentations could not be expanded.", u.arg)
				}
				return false, nil
			}
			return true, r.expandUses(u)
		},
	}
}

// expandUses instantiates the grouping of u under the parent of u, then
// applies its refines and augments.
func (r *reactor) expandUses(u *stmtCtx) error {
	parent := u.parent
	var copies []*stmtCtx
	for _, ch := range u.grouping.children {
		if ch.unsupported {
			continue
		}
		if !ch.isSchemaNode() && !ch.isExtension() && !ch.is("uses") {
			continue
		}
		copies = append(copies, ch.copyTo(parent, parent.module, AddedByUses))
	}

	at := len(parent.children)
	for i, ch := range parent.children {
		if ch == u {
			at = i + 1
			break
		}
	}
	next := make([]*stmtCtx, 0, len(parent.children)+len(copies))
	next = append(next, parent.children[:at]...)
	next = append(next, copies...)
	next = append(next, parent.children[at:]...)
	parent.children = next

	u.usesCopies = copies
	u.expanded = true
	r.log.Debug().Str("uses", u.arg).Str("at", u.ref.String()).Int("nodes", len(copies)).Msg("uses expanded")

	for _, ref := range u.all("refine") {
		if err := r.applyRefine(u, ref); err != nil {
			return err
		}
	}
	for _, aug := range u.all("augment") {
		if aug.unsupported {
			continue
		}
		target := findDescendant(parent, aug.arg)
		if target == nil {
			r.log.Warn().Str("target", aug.arg).Str("at", aug.ref.String()).Msg("uses augment target not found, skipping")
			continue
		}
		if !target.supported() {
			continue
		}
		if err := r.applyAugment(aug, target, parent.module, AddedByUsesAugmentation); err != nil {
			return err
		}
	}
	return nil
}

// findDescendant resolves a descendant schema node identifier from c,
// matching by local name since copies live in the namespace of c.
func findDescendant(c *stmtCtx, path string) *stmtCtx {
	id, err := xpath.ParseSchemaNodeID(path)
	if err != nil {
		return nil
	}
	cur := c
	for _, step := range id.Path {
		if cur = cur.schemaChild(nil, step.Name); cur == nil {
			return nil
		}
	}
	return cur
}

func (r *reactor) applyRefine(u, ref *stmtCtx) error {
	target := findDescendant(u.parent, ref.arg)
	if target == nil || !isUsesCopy(u, target) {
		return yangerrors.New(yangerrors.ErrInference, ref.ref, "Refine target node %s not found.", ref.arg)
	}
	u.refines = append(u.refines, refined{path: ref.arg, target: target})
	if target.unsupported {
		return nil
	}

	replacedDefaults := false
	for _, sub := range ref.children {
		if sub.isExtension() {
			target.addChild(sub.copyTo(target, target.module, Original))
			continue
		}
		name := sub.keyword.Name
		if !stmtdef.RefineTargetAllowed(name, target.keyword.Name) {
			return yangerrors.New(yangerrors.ErrSource, sub.ref, "can not perform refine of '%s' for the target '%s'.",
				stmt.DiagName(name), stmt.DiagName(target.keyword.Name))
		}
		switch {
		case name == "default":
			if !replacedDefaults {
				for _, d := range target.all("default") {
					target.removeChild(d)
				}
				replacedDefaults = true
			}
		case name == "if-feature":
			ok, err := r.evalIfFeature(sub)
			if err != nil {
				return err
			}
			if !ok {
				target.unsupported = true
			}
		case isReplacedOnRefine(name):
			if old := target.first(name); old != nil {
				target.removeChild(old)
			}
		}
		target.addChild(sub.copyTo(target, target.module, Original))
	}
	return nil
}

func isReplacedOnRefine(name string) bool {
	return slices.Contains(replacedOnRefine, name)
}

// isUsesCopy reports whether target lies in the subtree instantiated by u.
func isUsesCopy(u, target *stmtCtx) bool {
	for cur := target; cur != nil; cur = cur.parent {
		for _, c := range u.usesCopies {
			if c == cur {
				return true
			}
		}
	}
	return false
}
