package generate

import (
	"bytes"
	"fmt"
	"text/template"
)

// TemplateRegistry holds the parsed text templates of the generated files.
// Create a registry using NewTemplateRegistry() to initialize all templates.
type TemplateRegistry struct {
	headerTmpl *template.Template
	sourceTmpl *template.Template
}

// NewTemplateRegistry creates and initializes a new template registry with all templates parsed.
// Templates are hardcoded constants, so parsing cannot fail at runtime.
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		headerTmpl: parseTemplate("header", tmplHeader),
		sourceTmpl: parseTemplate("source", tmplSource),
	}
}

// WriteHeader writes the mock header.
func (r *TemplateRegistry) WriteHeader(buf *bytes.Buffer, data any) {
	err := r.headerTmpl.Execute(buf, data)
	if err != nil {
		panic(fmt.Sprintf("failed to execute header template: %v", err))
	}
}

// WriteSource writes the mock source file.
func (r *TemplateRegistry) WriteSource(buf *bytes.Buffer, data any) {
	err := r.sourceTmpl.Execute(buf, data)
	if err != nil {
		panic(fmt.Sprintf("failed to execute source template: %v", err))
	}
}

type headerData struct {
	Guard              string
	InputPath          string
	Instantiations     []string
	MockObject         string
	MockImplementation string
}

type sourceData struct {
	Allowed        bool
	HeaderPath     string
	Instantiations []string
}

// unexported constants.
const (
	tmplHeader = `#ifndef {{.Guard}}
#define {{.Guard}}

#define DRMOCK
#include <DrMock/Mock.h>
#include "{{.InputPath}}"

{{range .Instantiations}}extern template class {{.}};
{{end}}{{.MockObject}}

{{.MockImplementation}}

#endif /* {{.Guard}} */`

	tmplSource = `{{if .Allowed}}#include "{{.HeaderPath}}"

{{range $i, $key := .Instantiations}}{{if $i}}
{{end}}template class {{$key}};{{end}}{{else}}// This source file is intentionally left blank{{end}}`
)

// parseTemplate parses a template using template.Must().
// Panics if the template is invalid (programming error, caught at startup).
func parseTemplate(name, content string) *template.Template {
	return template.Must(template.New(name).Parse(content))
}
