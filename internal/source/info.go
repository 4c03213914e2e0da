package source

import (
	"strings"
	"time"

	yangerrors "github.com/jacoelho/yang/errors"
	"github.com/jacoelho/yang/internal/lexer"
	"github.com/jacoelho/yang/internal/stmt"
)

// Kind distinguishes modules from submodules.
type Kind uint8

const (
	KindModule Kind = iota
	KindSubmodule
)

func (k Kind) String() string {
	if k == KindSubmodule {
		return "submodule"
	}
	return "module"
}

// YANG language versions.
const (
	Version1  = "1"
	Version11 = "1.1"
)

// RevisionLayout is the layout of revision dates.
const RevisionLayout = "2006-01-02"

// Import is one import statement of a source header.
type Import struct {
	Module       string
	Prefix       string
	RevisionDate string
	Ref          yangerrors.Reference
}

// Include is one include statement of a source header.
type Include struct {
	Submodule    string
	RevisionDate string
	Ref          yangerrors.Reference
}

// Info is the linkage-relevant header of a source.
type Info struct {
	Kind            Kind
	Name            string
	Revision        string
	YangVersion     string
	Namespace       string
	Prefix          string
	BelongsTo       string
	BelongsToPrefix string
	Imports         []Import
	Includes        []Include
	Ref             yangerrors.Reference
}

// Identifier renders name[@revision].
func (i Info) Identifier() string {
	if i.Revision == "" {
		return i.Name
	}
	return i.Name + "@" + i.Revision
}

// ExtractInfo reads the header statements of a parsed root.
func ExtractInfo(root *stmt.Statement, escapes []lexer.Escape) (Info, error) {
	info := Info{Name: root.Arg, Ref: root.Ref, YangVersion: Version1}
	if root.Keyword.Name == "submodule" {
		info.Kind = KindSubmodule
	}
	if !root.HasArg || root.Arg == "" {
		return Info{}, yangerrors.New(yangerrors.ErrSource, root.Ref, "Statement %s requires an argument", root.Keyword)
	}

	if v, ok := root.FirstArg("yang-version"); ok {
		if v != Version1 && v != Version11 {
			return Info{}, yangerrors.New(yangerrors.ErrSource, root.First("yang-version").Ref, "Unsupported YANG version %s", v)
		}
		info.YangVersion = v
	}
	if info.YangVersion == Version11 && len(escapes) > 0 {
		e := escapes[0]
		return Info{}, yangerrors.New(yangerrors.ErrLexical,
			yangerrors.Reference{Source: root.Ref.Source, Line: e.Line, Column: e.Column},
			"YANG 1.1: illegal character after escape: %s", e.Sequence)
	}

	for _, rev := range root.All("revision") {
		if err := checkDate(rev); err != nil {
			return Info{}, err
		}
		if rev.Arg > info.Revision {
			info.Revision = rev.Arg
		}
	}

	switch info.Kind {
	case KindModule:
		info.Namespace, _ = root.FirstArg("namespace")
		info.Prefix, _ = root.FirstArg("prefix")
		if info.Namespace == "" {
			return Info{}, missing("namespace", root)
		}
		if info.Prefix == "" {
			return Info{}, missing("prefix", root)
		}
	case KindSubmodule:
		bt := root.First("belongs-to")
		if bt == nil {
			return Info{}, missing("belongs-to", root)
		}
		info.BelongsTo = bt.Arg
		info.BelongsToPrefix, _ = bt.FirstArg("prefix")
		if info.BelongsToPrefix == "" {
			return Info{}, missing("prefix", bt)
		}
	}

	for _, imp := range root.All("import") {
		i := Import{Module: imp.Arg, Ref: imp.Ref}
		i.Prefix, _ = imp.FirstArg("prefix")
		if i.Prefix == "" {
			return Info{}, missing("prefix", imp)
		}
		if rd := imp.First("revision-date"); rd != nil {
			if err := checkDate(rd); err != nil {
				return Info{}, err
			}
			i.RevisionDate = rd.Arg
		}
		info.Imports = append(info.Imports, i)
	}
	for _, inc := range root.All("include") {
		i := Include{Submodule: inc.Arg, Ref: inc.Ref}
		if rd := inc.First("revision-date"); rd != nil {
			if err := checkDate(rd); err != nil {
				return Info{}, err
			}
			i.RevisionDate = rd.Arg
		}
		info.Includes = append(info.Includes, i)
	}
	return info, nil
}

// CheckFileName verifies that a name@revision file name agrees with the
// source header.
func CheckFileName(systemID string, info Info) error {
	if !strings.HasSuffix(systemID, ".yang") {
		return nil
	}
	_, rev := SplitFileName(systemID)
	if rev == "" || rev == info.Revision {
		return nil
	}
	return yangerrors.New(yangerrors.ErrSource, info.Ref,
		"Source %s declares revision %s in its file name, but its latest revision is '%s'", systemID, rev, info.Revision)
}

func checkDate(s *stmt.Statement) error {
	if _, err := time.Parse(RevisionLayout, s.Arg); err != nil {
		return yangerrors.New(yangerrors.ErrSource, s.Ref, "Revision value %s is not in required format YYYY-MM-DD", s.Arg)
	}
	return nil
}

func missing(keyword string, parent *stmt.Statement) error {
	return yangerrors.New(yangerrors.ErrSource, parent.Ref, "Missing %s statement in %s.", stmt.DiagName(keyword), stmt.DiagName(parent.Keyword.Name))
}
