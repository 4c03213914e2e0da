package reactor

import (
	"slices"

	yangerrors "github.com/jacoelho/yang/errors"
	"github.com/jacoelho/yang/internal/stmtdef"
)

// headerKeywords stay with their submodule when its body is merged into the
// module.
var headerKeywords = []string{
	"belongs-to", "contact", "description", "import", "include", "namespace",
	"organization", "prefix", "reference", "revision", "yang-version",
}

// statementDefinition validates every statement, merges submodule bodies
// into their module and populates the definition namespaces.
func (r *reactor) statementDefinition() []error {
	var errs []error
	for _, mod := range r.order {
		unit := mod.unit
		if err := stmtdef.Validate(unit.Source.Root, unit.Info().YangVersion); err != nil {
			errs = append(errs, err)
			continue
		}
		mod.root = newCtx(unit.Source.Root, nil, unit, mod)
		for _, sub := range unit.Submodules {
			if err := stmtdef.Validate(sub.Source.Root, sub.Info().YangVersion); err != nil {
				errs = append(errs, err)
				continue
			}
			subRoot := newCtx(sub.Source.Root, nil, sub, mod)
			mod.subRoots = append(mod.subRoots, subRoot)
			var header []*stmtCtx
			for _, ch := range subRoot.children {
				if !ch.isExtension() && slices.Contains(headerKeywords, ch.keyword.Name) {
					header = append(header, ch)
					continue
				}
				mod.root.addChild(ch)
			}
			subRoot.children = header
		}
		if mod.root == nil {
			continue
		}

		walk(mod.root, func(c *stmtCtx) bool {
			if err := registerScoped(c); err != nil {
				errs = append(errs, err)
			}
			return true
		})
		errs = append(errs, r.registerGlobal(mod, mod.root)...)
	}
	if len(errs) > 0 {
		return errs
	}

	for _, mod := range r.order {
		roots := append([]*stmtCtx{mod.root}, mod.subRoots...)
		for _, root := range roots {
			walk(root, func(c *stmtCtx) bool {
				if c.isExtension() {
					if err := r.bindExtension(c); err != nil {
						errs = append(errs, err)
					}
				}
				return true
			})
		}
	}
	return errs
}

// bindExtension resolves the definition of an extension instance.
func (r *reactor) bindExtension(c *stmtCtx) error {
	mod, err := r.moduleFor(c, c.keyword.Prefix)
	if err != nil {
		return err
	}
	ext, ok := mod.extensions[c.keyword.Name]
	if !ok {
		return yangerrors.New(yangerrors.ErrSource, c.ref, "%s is not a YANG statement or use of extension.", c.keyword)
	}
	c.extension = ext
	if ext.first("argument") != nil && !c.raw.HasArg {
		return yangerrors.New(yangerrors.ErrSource, c.ref, "Statement %s requires an argument", c.keyword)
	}
	return nil
}
