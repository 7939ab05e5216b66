package detect

import (
	"slices"
	"strings"

	cxxutil "github.com/DrCpp/drmock-generator/drmockgen/run/0_util"
	model "github.com/DrCpp/drmock-generator/drmockgen/run/1_model"
	load "github.com/DrCpp/drmock-generator/drmockgen/run/2_load"
	"github.com/DrCpp/drmock-generator/internal/errors"
)

type memberKind int

const (
	memberIgnored memberKind = iota
	memberMethod
	memberAlias
	memberAliasTemplate
	memberAccess
	memberQObject
	memberFinal
)

func classify(n *load.Node) memberKind {
	switch n.Kind {
	case "CXXMethodDecl", "CXXConversionDecl":
		return memberMethod
	case kindAliasDecl:
		return memberAlias
	case "TypeAliasTemplateDecl":
		return memberAliasTemplate
	case "AccessSpecDecl":
		return memberAccess
	case "FieldDecl":
		if n.Name == load.QObjectMarker {
			return memberQObject
		}
	case "FinalAttr":
		return memberFinal
	}

	return memberIgnored
}

func convertClass(tu *load.TranslationUnit, record *load.Node, tmpl *model.TemplateDecl, namespace []string) (*model.Class, error) {
	class := &model.Class{
		Name:      record.Name,
		Namespace: namespace,
		Template:  tmpl,
	}

	access := model.Private
	if record.TagUsed == "struct" {
		access = model.Public
	}

	for _, child := range tu.Children(record) {
		if child.IsImplicit {
			continue
		}

		switch kind := classify(child); kind {
		case memberMethod:
			method, err := convertMethod(tu, child)
			if err != nil {
				return nil, errors.Wrapf(err, "reading %s::%s", record.Name, child.Name)
			}

			method.Access = access
			class.Members = append(class.Members, method)
		case memberAlias:
			alias := convertAlias(tu, child)
			alias.Access = access
			class.Members = append(class.Members, alias)
		case memberAliasTemplate:
			for _, inner := range child.Inner {
				if inner.Kind != kindAliasDecl {
					continue
				}

				alias := convertAlias(tu, inner)
				alias.Template = templateDecl(tu, child)
				alias.Access = access
				class.Members = append(class.Members, alias)
			}
		case memberAccess:
			access = convertAccess(tu, child)
		case memberQObject:
			class.QObject = true
		case memberFinal:
			class.Final = true
		case memberIgnored:
		default:
			panic(errors.AssertionFailedf("unhandled member kind %d", kind))
		}
	}

	return class, nil
}

func convertAccess(tu *load.TranslationUnit, n *load.Node) model.Access {
	tokens := tu.Tokens(n)
	if len(tokens) == 0 || tokens[0] == "signals" || tokens[0] == "Q_SIGNALS" {
		return model.Signals
	}

	switch n.Access {
	case "public":
		return model.Public
	case "protected":
		return model.Protected
	default:
		return model.Private
	}
}

// convertAlias reads the aliased type verbatim from the source text.
func convertAlias(tu *load.TranslationUnit, n *load.Node) model.TypeAlias {
	alias := model.TypeAlias{Name: n.Name}

	if _, aliased, ok := strings.Cut(tu.Text(n), "="); ok {
		alias.Aliased = strings.TrimSpace(aliased)
	} else if n.Type != nil {
		alias.Aliased = n.Type.QualType
	}

	return alias
}

func convertMethod(tu *load.TranslationUnit, n *load.Node) (model.Method, error) {
	method := model.NewMethod(n.Name, model.Type{})
	method.Virtual = n.Virtual || n.Pure || slices.ContainsFunc(n.Inner, isOverrideAttr)
	method.Pure = n.Pure

	for _, child := range n.Inner {
		if child.Kind != kindParam {
			continue
		}

		param, err := convertParam(tu, child)
		if err != nil {
			return model.Method{}, err
		}

		method.Params = append(method.Params, param)
	}

	ret := declarationHead(tu, n)

	tail := cxxutil.Tokenize(tu.Between(n.Loc, n.Range.End))
	open := afterName(tail, n.Name)

	if n.Kind == "CXXConversionDecl" {
		ret = conversionType(n.Name)
		method.Operator = true
	}

	if trailing := readQualifiers(&method, tail[min(open, len(tail)):]); trailing != nil {
		ret = trailing
	}

	if len(ret) == 0 {
		return model.Method{}, errors.Mark(errors.Newf("cannot read the return type of %s", n.Name), errors.ErrParse)
	}

	returnType, err := model.Parse(ret)
	if err != nil {
		return model.Method{}, errors.Wrapf(err, "reading the return type of %s", n.Name)
	}

	method.Return = returnType

	return method, nil
}

func isOverrideAttr(n *load.Node) bool {
	return n.Kind == "OverrideAttr" || n.Kind == "FinalAttr"
}

// declarationHead returns the tokens in front of the method name, without specifiers and attributes.
func declarationHead(tu *load.TranslationUnit, n *load.Node) []string {
	begin, name := n.Range.Begin.Expansion(), n.Loc.Expansion()
	if begin.File != tu.File || name.File != tu.File || begin.Offset > name.Offset || name.Offset > len(tu.Source) {
		return nil
	}

	var head []string

	tokens := cxxutil.Tokenize(tu.Source[begin.Offset:name.Offset])
	for i := 0; i < len(tokens); i++ {
		switch tokens[i] {
		case "virtual", "inline", "constexpr", "consteval", "explicit", "friend", "static":
		case "[":
			i = skipAttribute(tokens, i)
		default:
			head = append(head, tokens[i])
		}
	}

	return head
}

// afterName returns the index of the `(` opening the parameter list.
func afterName(tail []string, name string) int {
	nameTokens := cxxutil.Tokenize(name)
	if len(tail) > len(nameTokens) && slices.Equal(tail[:len(nameTokens)], nameTokens) && tail[len(nameTokens)] == "(" {
		return len(nameTokens)
	}

	open := slices.Index(tail, "(")
	if open < 0 {
		return len(tail)
	}

	return open
}

// conversionType returns the target type of a conversion operator named name.
func conversionType(name string) []string {
	tokens := cxxutil.Tokenize(name)
	if len(tokens) == 0 || tokens[0] != "operator" {
		return nil
	}

	return tokens[1:]
}

// readQualifiers scans the tokens from the `(` of the parameter list through the end of the
// declaration. It sets the qualifiers of method and returns the trailing return type, if any.
func readQualifiers(method *model.Method, tokens []string) []string {
	i := closing(tokens, 0, "(", ")") + 1

	var trailing []string

	for ; i < len(tokens); i++ {
		switch tokens[i] {
		case "const":
			method.Const = true
		case "volatile":
			method.Volatile = true
		case "&":
			method.LValue = true
		case "&&":
			method.RValue = true
		case "override", "final":
			method.Virtual = true
		case "noexcept":
			method.Noexcept = true

			if i+1 < len(tokens) && tokens[i+1] == "(" {
				end := closing(tokens, i+1, "(", ")")
				method.Noexcept = cxxutil.JoinTokens(tokens[i+2:min(end, len(tokens))]) != "false"
				i = end
			}
		case "throw":
			if i+1 < len(tokens) && tokens[i+1] == "(" {
				end := closing(tokens, i+1, "(", ")")
				method.Noexcept = end == i+2
				i = end
			}
		case "[":
			i = skipAttribute(tokens, i)
		case "->":
			end := i + 1
			for end < len(tokens) && !isDeclarationEnd(tokens[end]) && tokens[end] != "override" && tokens[end] != "final" {
				end++
			}

			trailing = tokens[i+1 : end]
			i = end - 1
		default:
			if isDeclarationEnd(tokens[i]) {
				return trailing
			}
		}
	}

	return trailing
}

func isDeclarationEnd(token string) bool {
	return token == "{" || token == "=" || token == ";" || token == "try"
}

// closing returns the index of the token closing the bracket opened at tokens[open], or len(tokens).
func closing(tokens []string, open int, left, right string) int {
	depth := 0

	for i := open; i < len(tokens); i++ {
		switch tokens[i] {
		case left:
			depth++
		case right:
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return len(tokens)
}

// skipAttribute returns the index of the last token of the `[[...]]` starting at tokens[i]. A single
// `[` is not an attribute and is left in place.
func skipAttribute(tokens []string, i int) int {
	if i+1 >= len(tokens) || tokens[i+1] != "[" {
		return i
	}

	return closing(tokens, i, "[", "]")
}

// convertParam reads a parameter type from the declaration text with the default argument and the
// name removed. The top-level cv of the declared type is kept even if a macro hides it from the text.
func convertParam(tu *load.TranslationUnit, n *load.Node) (model.Param, error) {
	tokens := tu.Tokens(n)
	if eq := slices.Index(tokens, "="); eq >= 0 {
		tokens = tokens[:eq]
	}

	if at := lastIndex(tokens, n.Name); n.Name != "" && at >= 0 {
		tokens = slices.Delete(slices.Clone(tokens), at, at+1)
	}

	var declared *model.Type

	if n.Type != nil {
		if t, err := model.Parse(cxxutil.Tokenize(n.Type.QualType)); err == nil {
			declared = &t
		}
	}

	if len(tokens) == 0 {
		if declared == nil {
			return model.Param{}, errors.Mark(errors.Newf("cannot read the type of parameter %q", n.Name), errors.ErrParse)
		}

		return model.Param{Type: *declared, Name: n.Name}, nil
	}

	t, err := model.Parse(tokens)
	if err != nil {
		return model.Param{}, errors.Wrapf(err, "reading parameter %q", n.Name)
	}

	if declared != nil {
		t.Const = t.Const || declared.Const
		t.Volatile = t.Volatile || declared.Volatile
	}

	return model.Param{Type: t, Name: n.Name}, nil
}

func lastIndex(tokens []string, token string) int {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i] == token {
			return i
		}
	}

	return -1
}
