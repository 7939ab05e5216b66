package model

import (
	"strings"

	cxxutil "github.com/DrCpp/drmock-generator/drmockgen/run/0_util"
)

// Variable is a data member with a brace initializer.
type Variable struct {
	Name    string
	Type    Type
	Init    []string
	Mutable bool
	Access  Access
}

// AccessLevel returns the variable's access specifier.
func (v Variable) AccessLevel() Access {
	return v.Access
}

func (v Variable) String() string {
	result := ""
	if v.Mutable {
		result += "mutable "
	}

	return result + v.Type.String() + " " + v.Name + "{" + strings.Join(v.Init, ", ") + "};"
}

// Constructor is a constructor definition with an initializer list.
type Constructor struct {
	Name         string
	Params       []Param
	Template     *TemplateDecl
	Initializers []string
	Body         string
	Access       Access
}

// AccessLevel returns the constructor's access specifier.
func (c Constructor) AccessLevel() Access {
	return c.Access
}

func (c Constructor) String() string {
	var b strings.Builder

	if c.Template != nil {
		b.WriteString(c.Template.String() + "\n")
	}

	b.WriteString(c.Name + "(" + joinParams(c.Params) + ")")

	if len(c.Initializers) > 0 {
		b.WriteString(" : " + strings.Join(c.Initializers, ", "))
	}

	b.WriteString("\n{\n" + cxxutil.Indent(c.Body) + "\n}")

	return b.String()
}

// TypeAlias is a `using` declaration, optionally templated.
type TypeAlias struct {
	Name     string
	Aliased  string
	Template *TemplateDecl
	Access   Access
}

// AccessLevel returns the alias' access specifier.
func (a TypeAlias) AccessLevel() Access {
	return a.Access
}

func (a TypeAlias) String() string {
	result := ""
	if a.Template != nil {
		result = a.Template.String() + " "
	}

	return result + "using " + a.Name + " = " + a.Aliased + ";"
}

// Friend is a `friend class` declaration.
type Friend struct {
	Name   string
	Access Access
}

// AccessLevel returns the declaration's access specifier.
func (f Friend) AccessLevel() Access {
	return f.Access
}

func (f Friend) String() string {
	return "friend class " + f.Name + ";"
}
