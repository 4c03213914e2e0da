package stmtdef

// Unbounded marks a substatement without upper cardinality.
const Unbounded = -1

// ArgKind classifies statement arguments.
type ArgKind uint8

const (
	ArgNone ArgKind = iota
	ArgString
	ArgIdentifier
	ArgIdentifierRef
	ArgBool
	ArgDate
	ArgUint
	ArgInt
	ArgMaxElements
	ArgFractionDigits
	ArgStatus
	ArgOrderedBy
	ArgVersion
	ArgModifier
	ArgDeviate
	ArgSchemaNodeID
	ArgIfFeature
)

// Sub is the cardinality of one substatement.
type Sub struct {
	Name string
	Min  int
	Max  int
	// Since11 restricts the substatement to YANG 1.1 sources.
	Since11 bool
	// Max10 overrides Max for YANG 1.0 sources when non-zero.
	Max10 int
}

// Definition describes one core statement.
type Definition struct {
	Name string
	Arg  ArgKind
	Subs []Sub
	// SchemaNode marks statements that create schema tree nodes.
	SchemaNode bool
	// DataDef marks data definition statements, including uses.
	DataDef bool
	Since11 bool
}

func opt(name string) Sub  { return Sub{Name: name, Max: 1} }
func many(name string) Sub { return Sub{Name: name, Max: Unbounded} }
func req(name string) Sub  { return Sub{Name: name, Min: 1, Max: 1} }
func reqMany(name string) Sub {
	return Sub{Name: name, Min: 1, Max: Unbounded}
}
func many11(name string) Sub { return Sub{Name: name, Max: Unbounded, Since11: true} }
func opt11(name string) Sub  { return Sub{Name: name, Max: 1, Since11: true} }

// manyIn11 is unbounded in YANG 1.1 and a singleton in YANG 1.0.
func manyIn11(name string) Sub { return Sub{Name: name, Max: Unbounded, Max10: 1} }

func dataDefs() []Sub {
	return []Sub{many11("anydata"), many("anyxml"), many("choice"), many("container"), many("leaf"), many("leaf-list"), many("list"), many("uses")}
}

func with(base []Sub, more ...Sub) []Sub {
	out := make([]Sub, 0, len(base)+len(more))
	out = append(out, base...)
	return append(out, more...)
}

func moduleBody() []Sub {
	return with(dataDefs(),
		many("augment"), opt("contact"), opt("description"), many("deviation"), many("extension"),
		many("feature"), many("grouping"), many("identity"), many("import"), many("include"),
		many("notification"), opt("organization"), opt("reference"), many("revision"), many("rpc"),
		many("typedef"), opt("yang-version"),
	)
}

func operationBody() []Sub {
	return []Sub{opt("description"), many("grouping"), many("if-feature"), opt("input"), opt("output"), opt("reference"), opt("status"), many("typedef")}
}

func ioBody() []Sub {
	return with(dataDefs(), many("grouping"), many11("must"), many("typedef"))
}

func constraintBody() []Sub {
	return []Sub{opt("description"), opt("error-app-tag"), opt("error-message"), opt("reference")}
}

func anyBody() []Sub {
	return []Sub{opt("config"), opt("description"), many("if-feature"), opt("mandatory"), many("must"), opt("reference"), opt("status"), opt("when")}
}

var registry = buildRegistry()

func buildRegistry() map[string]*Definition {
	defs := []*Definition{
		{Name: "module", Arg: ArgIdentifier, Subs: with(moduleBody(), req("namespace"), req("prefix"))},
		{Name: "submodule", Arg: ArgIdentifier, Subs: with(moduleBody(), req("belongs-to"))},
		{Name: "action", Arg: ArgIdentifier, Subs: operationBody(), SchemaNode: true, Since11: true},
		{Name: "anydata", Arg: ArgIdentifier, Subs: anyBody(), SchemaNode: true, DataDef: true, Since11: true},
		{Name: "anyxml", Arg: ArgIdentifier, Subs: anyBody(), SchemaNode: true, DataDef: true},
		{Name: "argument", Arg: ArgIdentifier, Subs: []Sub{opt("yin-element")}},
		{Name: "augment", Arg: ArgSchemaNodeID, Subs: with(dataDefs(),
			many11("action"), many("case"), opt("description"), many("if-feature"), many11("notification"),
			opt("reference"), opt("status"), opt("when"))},
		{Name: "base", Arg: ArgIdentifierRef},
		{Name: "belongs-to", Arg: ArgIdentifier, Subs: []Sub{req("prefix")}},
		{Name: "bit", Arg: ArgIdentifier, Subs: []Sub{opt("description"), many11("if-feature"), opt("position"), opt("reference"), opt("status")}},
		{Name: "case", Arg: ArgIdentifier, SchemaNode: true, Subs: with(dataDefs(),
			opt("description"), many("if-feature"), opt("reference"), opt("status"), opt("when"))},
		{Name: "choice", Arg: ArgIdentifier, SchemaNode: true, DataDef: true, Subs: []Sub{
			many11("anydata"), many("anyxml"), many("case"), many11("choice"), opt("config"), many("container"),
			opt("default"), opt("description"), many("if-feature"), many("leaf"), many("leaf-list"), many("list"),
			opt("mandatory"), opt("reference"), opt("status"), opt("when")}},
		{Name: "config", Arg: ArgBool},
		{Name: "contact", Arg: ArgString},
		{Name: "container", Arg: ArgIdentifier, SchemaNode: true, DataDef: true, Subs: with(dataDefs(),
			many11("action"), opt("config"), opt("description"), many("grouping"), many("if-feature"), many("must"),
			many11("notification"), opt("presence"), opt("reference"), opt("status"), many("typedef"), opt("when"))},
		{Name: "default", Arg: ArgString},
		{Name: "description", Arg: ArgString},
		{Name: "deviate", Arg: ArgDeviate, Subs: []Sub{
			opt("config"), manyIn11("default"), opt("mandatory"), opt("max-elements"), opt("min-elements"),
			many("must"), opt("type"), many("unique"), opt("units")}},
		{Name: "deviation", Arg: ArgSchemaNodeID, Subs: []Sub{opt("description"), reqMany("deviate"), opt("reference")}},
		{Name: "enum", Arg: ArgString, Subs: []Sub{opt("description"), many11("if-feature"), opt("reference"), opt("status"), opt("value")}},
		{Name: "error-app-tag", Arg: ArgString},
		{Name: "error-message", Arg: ArgString},
		{Name: "extension", Arg: ArgIdentifier, Subs: []Sub{opt("argument"), opt("description"), opt("reference"), opt("status")}},
		{Name: "feature", Arg: ArgIdentifier, Subs: []Sub{opt("description"), many("if-feature"), opt("reference"), opt("status")}},
		{Name: "fraction-digits", Arg: ArgFractionDigits},
		{Name: "grouping", Arg: ArgIdentifier, Subs: with(dataDefs(),
			many11("action"), opt("description"), many("grouping"), many11("notification"), opt("reference"),
			opt("status"), many("typedef"))},
		{Name: "identity", Arg: ArgIdentifier, Subs: []Sub{manyIn11("base"), opt("description"), many11("if-feature"), opt("reference"), opt("status")}},
		{Name: "if-feature", Arg: ArgIfFeature},
		{Name: "import", Arg: ArgIdentifier, Subs: []Sub{opt11("description"), req("prefix"), opt11("reference"), opt("revision-date")}},
		{Name: "include", Arg: ArgIdentifier, Subs: []Sub{opt11("description"), opt11("reference"), opt("revision-date")}},
		{Name: "input", Arg: ArgNone, SchemaNode: true, Subs: ioBody()},
		{Name: "key", Arg: ArgString},
		{Name: "leaf", Arg: ArgIdentifier, SchemaNode: true, DataDef: true, Subs: []Sub{
			opt("config"), opt("default"), opt("description"), many("if-feature"), opt("mandatory"), many("must"),
			opt("reference"), opt("status"), req("type"), opt("units"), opt("when")}},
		{Name: "leaf-list", Arg: ArgIdentifier, SchemaNode: true, DataDef: true, Subs: []Sub{
			opt("config"), many11("default"), opt("description"), many("if-feature"), opt("max-elements"),
			opt("min-elements"), many("must"), opt("ordered-by"), opt("reference"), opt("status"), req("type"),
			opt("units"), opt("when")}},
		{Name: "length", Arg: ArgString, Subs: constraintBody()},
		{Name: "list", Arg: ArgIdentifier, SchemaNode: true, DataDef: true, Subs: with(dataDefs(),
			many11("action"), opt("config"), opt("description"), many("grouping"), many("if-feature"), opt("key"),
			opt("max-elements"), opt("min-elements"), many("must"), many11("notification"), opt("ordered-by"),
			opt("reference"), opt("status"), many("typedef"), many("unique"), opt("when"))},
		{Name: "mandatory", Arg: ArgBool},
		{Name: "max-elements", Arg: ArgMaxElements},
		{Name: "min-elements", Arg: ArgUint},
		{Name: "modifier", Arg: ArgModifier, Since11: true},
		{Name: "must", Arg: ArgString, Subs: constraintBody()},
		{Name: "namespace", Arg: ArgString},
		{Name: "notification", Arg: ArgIdentifier, SchemaNode: true, Subs: with(dataDefs(),
			opt("description"), many("grouping"), many("if-feature"), many11("must"), opt("reference"),
			opt("status"), many("typedef"))},
		{Name: "ordered-by", Arg: ArgOrderedBy},
		{Name: "organization", Arg: ArgString},
		{Name: "output", Arg: ArgNone, SchemaNode: true, Subs: ioBody()},
		{Name: "path", Arg: ArgString},
		{Name: "pattern", Arg: ArgString, Subs: with(constraintBody(), opt11("modifier"))},
		{Name: "position", Arg: ArgUint},
		{Name: "prefix", Arg: ArgIdentifier},
		{Name: "presence", Arg: ArgString},
		{Name: "range", Arg: ArgString, Subs: constraintBody()},
		{Name: "reference", Arg: ArgString},
		{Name: "refine", Arg: ArgSchemaNodeID, Subs: []Sub{
			opt("config"), manyIn11("default"), opt("description"), many11("if-feature"), opt("mandatory"),
			opt("max-elements"), opt("min-elements"), many("must"), opt("presence"), opt("reference")}},
		{Name: "require-instance", Arg: ArgBool},
		{Name: "revision", Arg: ArgDate, Subs: []Sub{opt("description"), opt("reference")}},
		{Name: "revision-date", Arg: ArgDate},
		{Name: "rpc", Arg: ArgIdentifier, SchemaNode: true, Subs: operationBody()},
		{Name: "status", Arg: ArgStatus},
		{Name: "type", Arg: ArgIdentifierRef, Subs: []Sub{
			many("base"), many("bit"), many("enum"), opt("fraction-digits"), opt("length"), opt("path"),
			many("pattern"), opt("range"), opt("require-instance"), many("type")}},
		{Name: "typedef", Arg: ArgIdentifier, Subs: []Sub{
			opt("default"), opt("description"), opt("reference"), opt("status"), req("type"), opt("units")}},
		{Name: "unique", Arg: ArgString},
		{Name: "units", Arg: ArgString},
		{Name: "uses", Arg: ArgIdentifierRef, DataDef: true, Subs: []Sub{
			many("augment"), opt("description"), many("if-feature"), many("refine"), opt("reference"),
			opt("status"), opt("when")}},
		{Name: "value", Arg: ArgInt},
		{Name: "when", Arg: ArgString, Subs: []Sub{opt("description"), opt("reference")}},
		{Name: "yang-version", Arg: ArgVersion},
		{Name: "yin-element", Arg: ArgBool},
	}
	out := make(map[string]*Definition, len(defs))
	for _, d := range defs {
		out[d.Name] = d
	}
	return out
}
