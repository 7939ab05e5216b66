package model

import (
	"strings"

	cxxutil "github.com/DrCpp/drmock-generator/drmockgen/run/0_util"
)

// TemplateParam is one type parameter of a template declaration.
type TemplateParam struct {
	Name     string
	Variadic bool
}

// TemplateDecl is the `template<...>` line in front of a class, method, alias or constructor.
// Only type parameters are represented.
type TemplateDecl struct {
	Params []TemplateParam
}

// NewTemplateDecl builds a declaration from parameter spellings; a variadic parameter is spelled with a
// leading "... ", e.g. NewTemplateDecl("T", "... Ts").
func NewTemplateDecl(params ...string) *TemplateDecl {
	decl := &TemplateDecl{Params: make([]TemplateParam, 0, len(params))}

	for _, param := range params {
		name, variadic := strings.CutPrefix(param, "...")
		decl.Params = append(decl.Params, TemplateParam{Name: strings.TrimSpace(name), Variadic: variadic})
	}

	return decl
}

// Args returns the arguments that instantiate the template with its own parameters, with variadic
// parameters expanded: "T", "Ts ...".
func (d *TemplateDecl) Args() []string {
	args := make([]string, 0, len(d.Params))

	for _, param := range d.Params {
		if param.Variadic {
			args = append(args, param.Name+" ...")
		} else {
			args = append(args, param.Name)
		}
	}

	return args
}

// ArgList returns Args as a template argument list, e.g. "<T, Ts ...>".
func (d *TemplateDecl) ArgList() string {
	return cxxutil.Template(d.Args()...)
}

func (d *TemplateDecl) String() string {
	params := make([]string, 0, len(d.Params))

	for _, param := range d.Params {
		if param.Variadic {
			params = append(params, "typename ... "+param.Name)
		} else {
			params = append(params, "typename "+param.Name)
		}
	}

	return "template<" + strings.Join(params, ", ") + ">"
}
