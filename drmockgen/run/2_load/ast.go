package load

import (
	"encoding/json"
	"strings"

	cxxutil "github.com/DrCpp/drmock-generator/drmockgen/run/0_util"
	"github.com/DrCpp/drmock-generator/internal/errors"
)

// Node is a node from clang's JSON AST dump. Only the fields drmockgen reads are decoded.
type Node struct {
	Kind  string  `json:"kind"`
	Name  string  `json:"name,omitempty"`
	Loc   Loc     `json:"loc"`
	Range Range   `json:"range"`
	Inner []*Node `json:"inner,omitempty"`

	Type               *QualType `json:"type,omitempty"`
	TagUsed            string    `json:"tagUsed,omitempty"`
	Access             string    `json:"access,omitempty"`
	IsImplicit         bool      `json:"isImplicit,omitempty"`
	CompleteDefinition bool      `json:"completeDefinition,omitempty"`
	Virtual            bool      `json:"virtual,omitempty"`
	Pure               bool      `json:"pure,omitempty"`
	IsParameterPack    bool      `json:"isParameterPack,omitempty"`
}

// QualType is the type of a declaration as clang spells it.
type QualType struct {
	QualType string `json:"qualType"`
}

// Range is the source range of a node.
type Range struct {
	Begin Loc `json:"begin"`
	End   Loc `json:"end"`
}

// Loc is a source location. Locations inside macro expansions carry a spelling and an expansion
// location instead of their own fields.
type Loc struct {
	File         string `json:"file,omitempty"`
	Offset       int    `json:"offset,omitempty"`
	Line         int    `json:"line,omitempty"`
	Col          int    `json:"col,omitempty"`
	TokLen       int    `json:"tokLen,omitempty"`
	SpellingLoc  *Loc   `json:"spellingLoc,omitempty"`
	ExpansionLoc *Loc   `json:"expansionLoc,omitempty"`
}

// Valid reports whether l denotes a location at all. Implicit declarations have empty locations.
func (l Loc) Valid() bool {
	return l.TokLen > 0 || l.SpellingLoc != nil || l.ExpansionLoc != nil
}

// Expansion returns the location where l appears in the file, resolving macro expansions.
func (l Loc) Expansion() Loc {
	if l.ExpansionLoc != nil {
		return *l.ExpansionLoc
	}

	return l
}

// TranslationUnit is a parsed header: the AST and the source text the offsets refer to.
type TranslationUnit struct {
	Root *Node
	// Source is the text clang parsed, after macro hiding.
	Source string
	// File is the name clang gives to the parsed text.
	File string
}

// Decode parses clang's JSON AST dump of the text source, which clang knows as file.
func Decode(data []byte, source, file string) (*TranslationUnit, error) {
	var root Node

	err := json.Unmarshal(data, &root)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decoding the clang AST"), errors.ErrParse)
	}

	resolveFiles(&root)

	return &TranslationUnit{Root: &root, Source: source, File: file}, nil
}

// InFile reports whether n is located in the parsed text itself rather than in an included file.
// Attributes have no location of their own and are located by their range.
func (tu *TranslationUnit) InFile(n *Node) bool {
	l := n.Loc
	if !l.Valid() {
		l = n.Range.Begin
	}

	return l.Valid() && l.Expansion().File == tu.File
}

// Children returns the children of n that are located in the parsed text.
func (tu *TranslationUnit) Children(n *Node) []*Node {
	var children []*Node

	for _, child := range n.Inner {
		if tu.InFile(child) {
			children = append(children, child)
		}
	}

	return children
}

// Text returns the source text covered by the range of n, or "" if the range is not in the parsed text.
func (tu *TranslationUnit) Text(n *Node) string {
	return tu.Between(n.Range.Begin, n.Range.End)
}

// Between returns the source text from the token at begin through the token at end.
func (tu *TranslationUnit) Between(begin, end Loc) string {
	b, e := begin.Expansion(), end.Expansion()
	if !b.Valid() || !e.Valid() || b.File != tu.File || e.File != tu.File {
		return ""
	}

	stop := e.Offset + e.TokLen
	if b.Offset > stop || stop > len(tu.Source) {
		return ""
	}

	return tu.Source[b.Offset:stop]
}

// Tokens returns the C++ tokens of the source text of n.
func (tu *TranslationUnit) Tokens(n *Node) []string {
	return cxxutil.Tokenize(tu.Text(n))
}

// Dump renders n and its descendants in the parsed text as an indented tree, one node per line:
// kind, name and clang's spelling of the type. Implicit nodes are flagged.
func (tu *TranslationUnit) Dump(n *Node) string {
	var b strings.Builder

	tu.dump(&b, n, 0)

	return strings.TrimSuffix(b.String(), "\n")
}

func (tu *TranslationUnit) dump(b *strings.Builder, n *Node, depth int) {
	b.WriteString(strings.Repeat("  ", depth) + n.Kind)

	if n.Name != "" {
		b.WriteString(" " + n.Name)
	}

	if n.Type != nil {
		b.WriteString(" '" + n.Type.QualType + "'")
	}

	if n.IsImplicit {
		b.WriteString(" implicit")
	}

	b.WriteString("\n")

	for _, child := range tu.Children(n) {
		tu.dump(b, child, depth+1)
	}
}

// resolveFiles fills in the file names clang elides. The dump only prints a file name when it differs
// from the previously printed location, in document order: a node's location, its range begin and
// end, then its children.
func resolveFiles(root *Node) {
	last := ""

	var visitLoc func(l *Loc)

	visitLoc = func(l *Loc) {
		if l.SpellingLoc != nil || l.ExpansionLoc != nil {
			if l.SpellingLoc != nil {
				visitLoc(l.SpellingLoc)
			}

			if l.ExpansionLoc != nil {
				visitLoc(l.ExpansionLoc)
			}

			return
		}

		if !l.Valid() {
			return
		}

		if l.File == "" {
			l.File = last
		} else {
			last = l.File
		}
	}

	var visit func(n *Node)

	visit = func(n *Node) {
		visitLoc(&n.Loc)
		visitLoc(&n.Range.Begin)
		visitLoc(&n.Range.End)

		for _, child := range n.Inner {
			visit(child)
		}
	}

	visit(root)
}
