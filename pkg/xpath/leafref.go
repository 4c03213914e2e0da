package xpath

// PathKey is a leafref path predicate: Key = current()/../Steps.
type PathKey struct {
	Key   Identifier
	Steps []Identifier
	Up    int
}

// PathStep is one node of a leafref path with its key predicates.
type PathStep struct {
	Keys []PathKey
	Identifier
}

// LeafrefPath is a parsed leafref path argument.
type LeafrefPath struct {
	// Deref is the argument of a leading deref() call (YANG 1.1).
	Deref *LeafrefPath
	Expression
	Steps    []PathStep
	Up       int
	Absolute bool
}

// ParseLeafrefPath parses the argument of a path statement. deref() is only
// accepted when version is "1.1".
func ParseLeafrefPath(text, version string) (*LeafrefPath, error) {
	expr, err := Parse(text)
	if err != nil {
		return nil, err
	}
	path, ok := expr.Root.(*PathExpr)
	if !ok {
		return nil, xpathErrorf("leafref path %q is not a location path", text)
	}
	out, err := leafrefFromPath(path, text, version)
	if err != nil {
		return nil, err
	}
	out.Expression = expr
	return out, nil
}

func leafrefFromPath(path *PathExpr, text, version string) (*LeafrefPath, error) {
	out := &LeafrefPath{Absolute: path.Absolute}
	if path.Filter != nil {
		call, ok := path.Filter.(*FuncCall)
		if !ok || call.Name != "deref" || call.Prefix != "" || len(call.Args) != 1 {
			return nil, xpathErrorf("leafref path %q has an invalid start", text)
		}
		if version != "1.1" {
			return nil, xpathErrorf("deref() in leafref path %q requires YANG version 1.1", text)
		}
		inner, ok := call.Args[0].(*PathExpr)
		if !ok {
			return nil, xpathErrorf("deref() argument in %q is not a path", text)
		}
		deref, err := leafrefFromPath(inner, text, version)
		if err != nil {
			return nil, err
		}
		out.Deref = deref
	}

	steps := path.Steps
	if !path.Absolute {
		for len(steps) > 0 && isParentStep(steps[0]) {
			out.Up++
			steps = steps[1:]
		}
		if out.Up == 0 && out.Deref == nil {
			return nil, xpathErrorf("relative leafref path %q must start with '..'", text)
		}
	}
	if len(steps) == 0 {
		return nil, xpathErrorf("leafref path %q does not name a node", text)
	}
	for _, s := range steps {
		if s.Axis != AxisChild || s.Test.Kind != TestName || s.Test.Local == "*" {
			return nil, xpathErrorf("leafref path %q contains invalid step %q", text, s.String())
		}
		step := PathStep{Identifier: Identifier{Prefix: s.Test.Prefix, Name: s.Test.Local}}
		for _, pred := range s.Predicates {
			key, err := pathKey(pred, text)
			if err != nil {
				return nil, err
			}
			step.Keys = append(step.Keys, key)
		}
		out.Steps = append(out.Steps, step)
	}
	return out, nil
}

func isParentStep(s Step) bool {
	return s.Axis == AxisParent && s.Test.Kind == TestNode && len(s.Predicates) == 0
}

func pathKey(pred Expr, text string) (PathKey, error) {
	invalid := func() (PathKey, error) {
		return PathKey{}, xpathErrorf("leafref path %q contains invalid predicate %q", text, pred.String())
	}
	eq, ok := pred.(*BinaryExpr)
	if !ok || eq.Op != "=" {
		return invalid()
	}
	left, ok := eq.Left.(*PathExpr)
	if !ok || left.Absolute || left.Filter != nil || len(left.Steps) != 1 ||
		left.Steps[0].Axis != AxisChild || left.Steps[0].Test.Kind != TestName || len(left.Steps[0].Predicates) > 0 {
		return invalid()
	}
	right, ok := eq.Right.(*PathExpr)
	if !ok || right.Filter == nil {
		return invalid()
	}
	if call, ok := right.Filter.(*FuncCall); !ok || call.Name != "current" || call.Prefix != "" || len(call.Args) > 0 {
		return invalid()
	}
	key := PathKey{Key: Identifier{Prefix: left.Steps[0].Test.Prefix, Name: left.Steps[0].Test.Local}}
	steps := right.Steps
	for len(steps) > 0 && isParentStep(steps[0]) {
		key.Up++
		steps = steps[1:]
	}
	if key.Up == 0 || len(steps) == 0 {
		return invalid()
	}
	for _, s := range steps {
		if s.Axis != AxisChild || s.Test.Kind != TestName || len(s.Predicates) > 0 {
			return invalid()
		}
		key.Steps = append(key.Steps, Identifier{Prefix: s.Test.Prefix, Name: s.Test.Local})
	}
	return key, nil
}
