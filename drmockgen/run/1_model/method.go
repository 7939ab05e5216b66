package model

import (
	"strings"

	cxxutil "github.com/DrCpp/drmock-generator/drmockgen/run/0_util"
	"github.com/DrCpp/drmock-generator/internal/errors"
)

// Access is a C++ access specifier. Signals is the Qt signal section.
type Access string

// Access specifiers.
const (
	Public    Access = "public"
	Protected Access = "protected"
	Private   Access = "private"
	Signals   Access = "signals"
)

// Member is anything that can be declared inside a class body.
type Member interface {
	AccessLevel() Access
	String() string
}

// Param is a function parameter: a type and an optional name.
type Param struct {
	Type Type
	Name string
}

// Params wraps unnamed parameters of the given types.
func Params(types ...Type) []Param {
	params := make([]Param, 0, len(types))
	for _, t := range types {
		params = append(params, Param{Type: t})
	}

	return params
}

func (p Param) String() string {
	if p.Name == "" {
		return p.Type.String()
	}

	return p.Type.String() + " " + p.Name
}

// Method is a member function signature, optionally with a body.
type Method struct {
	Name     string
	Params   []Param
	Return   Type
	Template *TemplateDecl
	Const    bool
	Volatile bool
	LValue   bool
	RValue   bool
	Virtual  bool
	Pure     bool
	Override bool
	Noexcept bool
	Operator bool
	Access   Access
	Body     string
}

// NewMethod returns a method named name. Operator names are detected and flagged.
func NewMethod(name string, ret Type, params ...Param) Method {
	return Method{
		Name:     name,
		Params:   params,
		Return:   ret,
		Operator: IsOperatorName(name),
		Access:   Public,
	}
}

// AccessLevel returns the method's access specifier.
func (m Method) AccessLevel() Access {
	return m.Access
}

// ParamTypes returns the parameter types in order.
func (m Method) ParamTypes() []Type {
	types := make([]Type, 0, len(m.Params))
	for _, p := range m.Params {
		types = append(types, p.Type)
	}

	return types
}

// DecayedParamTypes returns the decayed parameter types in order.
func (m Method) DecayedParamTypes() []Type {
	types := make([]Type, 0, len(m.Params))
	for _, p := range m.Params {
		types = append(types, p.Type.Decay())
	}

	return types
}

// Validate panics if the qualifiers of m cannot belong to one C++ function.
func (m Method) Validate() {
	if m.LValue && m.RValue {
		panic(errors.AssertionFailedf("method %s is both lvalue- and rvalue-qualified", m.Name))
	}

	if m.Pure && !m.Virtual {
		panic(errors.AssertionFailedf("method %s is pure but not virtual", m.Name))
	}
}

// MangledName returns the name with every operator symbol replaced by an identifier, so that it can
// be used to form other identifiers: `operator<=` becomes `operatorLesserOrEqual`.
func (m Method) MangledName() string {
	return MangleName(m.Name)
}

func (m Method) String() string {
	var b strings.Builder

	if m.Template != nil {
		b.WriteString(m.Template.String() + "\n")
	}

	if m.Virtual {
		b.WriteString("virtual ")
	}

	b.WriteString(m.Return.String() + " " + m.Name + "(" + joinParams(m.Params) + ")")

	if m.Const {
		b.WriteString(" const")
	}

	if m.Volatile {
		b.WriteString(" volatile")
	}

	if m.LValue {
		b.WriteString("&")
	}

	if m.RValue {
		b.WriteString("&&")
	}

	if m.Noexcept {
		b.WriteString(" noexcept")
	}

	if m.Override {
		b.WriteString(" override")
	}

	if m.Body != "" {
		b.WriteString("\n{\n" + cxxutil.Indent(m.Body) + "\n}")

		return b.String()
	}

	if m.Pure {
		b.WriteString(" = 0")
	}

	b.WriteString(";")

	return b.String()
}

// IsOperatorName reports whether name is `operator` followed by one of the mangled operator symbols.
func IsOperatorName(name string) bool {
	symbol, ok := strings.CutPrefix(name, "operator")
	if !ok {
		return false
	}

	symbol = strings.TrimSpace(symbol)

	for _, entry := range operatorSymbols {
		if entry.symbol == symbol {
			return true
		}
	}

	return false
}

// MangleName replaces operator symbols in name, in table order, by identifier fragments. Whitespace
// is removed only from operator spellings such as `operator co_await` or `operator int`; any other
// name without operator symbols is returned unchanged.
func MangleName(name string) string {
	result := name
	for _, entry := range operatorSymbols {
		result = strings.ReplaceAll(result, entry.symbol, entry.fragment)
	}

	if !strings.HasPrefix(name, "operator") {
		return result
	}

	return strings.Join(strings.Fields(result), "")
}

// OperatorSymbols returns the mangling table in application order.
func OperatorSymbols() [][2]string {
	table := make([][2]string, 0, len(operatorSymbols))
	for _, entry := range operatorSymbols {
		table = append(table, [2]string{entry.symbol, entry.fragment})
	}

	return table
}

type operatorSymbol struct {
	symbol   string
	fragment string
}

// unexported variables.
var (
	// Longer symbols come first: `<=>` must be replaced before `<=`, `<` and `=`.
	//
	//nolint:gochecknoglobals // fixed table
	operatorSymbols = []operatorSymbol{
		{"<=>", "SpaceShip"},
		{"->*", "PointerToMember"},
		{"co_await", "CoAwait"},
		{"==", "Equal"},
		{"!=", "NotEqual"},
		{"<=", "LesserOrEqual"},
		{">=", "GreaterOrEqual"},
		{"<<", "StreamLeft"},
		{">>", "StreamRight"},
		{"&&", "And"},
		{"||", "Or"},
		{"++", "Increment"},
		{"--", "Decrement"},
		{"->", "Arrow"},
		{"()", "Call"},
		{"[]", "Brackets"},
		{"+", "Plus"},
		{"-", "Minus"},
		{"*", "Ast"},
		{"/", "Div"},
		{"%", "Modulo"},
		{"^", "Caret"},
		{"&", "Amp"},
		{"|", "Pipe"},
		{"~", "Tilde"},
		{"!", "Not"},
		{"=", "Assign"},
		{"<", "Lesser"},
		{">", "Greater"},
		{",", "Comma"},
	}
)

func joinParams(params []Param) string {
	rendered := make([]string, 0, len(params))
	for _, p := range params {
		rendered = append(rendered, p.String())
	}

	return strings.Join(rendered, ", ")
}
