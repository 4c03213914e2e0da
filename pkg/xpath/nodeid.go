package xpath

import "strings"

// Identifier is a node-identifier, an optionally prefixed name.
type Identifier struct {
	Prefix string
	Name   string
}

func (id Identifier) String() string {
	if id.Prefix == "" {
		return id.Name
	}
	return id.Prefix + ":" + id.Name
}

// SchemaNodeID is an absolute or descendant schema node identifier.
type SchemaNodeID struct {
	Path     []Identifier
	Absolute bool
}

func (s SchemaNodeID) String() string {
	parts := make([]string, len(s.Path))
	for i, id := range s.Path {
		parts[i] = id.String()
	}
	out := strings.Join(parts, "/")
	if s.Absolute {
		return "/" + out
	}
	return out
}

// ParseSchemaNodeID parses a schema node identifier such as "/a:b/a:c" or
// "b/c".
func ParseSchemaNodeID(s string) (SchemaNodeID, error) {
	var id SchemaNodeID
	rest := s
	if strings.HasPrefix(rest, "/") {
		id.Absolute = true
		rest = rest[1:]
	}
	if rest == "" {
		return SchemaNodeID{}, xpathErrorf("empty schema node identifier %q", s)
	}
	for seg := range strings.SplitSeq(rest, "/") {
		ident, ok := parseIdentifier(seg)
		if !ok {
			return SchemaNodeID{}, xpathErrorf("invalid node identifier %q in %q", seg, s)
		}
		id.Path = append(id.Path, ident)
	}
	return id, nil
}

func parseIdentifier(s string) (Identifier, bool) {
	prefix, name := splitQName(s)
	if !isNCName(name) || (strings.Contains(s, ":") && !isNCName(prefix)) {
		return Identifier{}, false
	}
	return Identifier{Prefix: prefix, Name: name}, true
}

func isNCName(s string) bool {
	if s == "" || !isNameStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isNameChar(s[i]) {
			return false
		}
	}
	return true
}
