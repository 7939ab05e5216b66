// Package generate assembles the mock object and the mock implementation of a class and renders the
// header and source file that declare them.
package generate

import (
	"bytes"
	"path/filepath"
	"strings"
	"sync"

	cxxutil "github.com/DrCpp/drmock-generator/drmockgen/run/0_util"
	model "github.com/DrCpp/drmock-generator/drmockgen/run/1_model"
	overload "github.com/DrCpp/drmock-generator/drmockgen/run/4_overload"
	"github.com/DrCpp/drmock-generator/internal/errors"
)

// Exported constants.
const (
	// GuardPrefix prefixes the name of the mocked class to form the include guard.
	GuardPrefix = "DRMOCK_MOCK_IMPLEMENTATIONS"
	// SourceExtension replaces the extension of the header path to form the source path.
	SourceExtension = ".cpp"
	// BlankSource is the content of the source file if nothing can be instantiated explicitly.
	BlankSource = "// This source file is intentionally left blank"
)

// Options configures the generation of one mock.
type Options struct {
	// Name is the name of the mock implementation.
	Name string
	// Namespace is the namespace option, see Namespace.
	Namespace  string
	Controller string
	// Access selects the mocked methods; empty means public only.
	Access []model.Access
	// InputPath is the path under which the header includes the mocked class.
	InputPath string
	// HeaderPath is the path under which the source includes the generated header.
	HeaderPath string
}

// Files holds the generated header and source text.
type Files struct {
	Header string
	Source string
}

// Generate renders the mock header and source of class.
func Generate(class *model.Class, opts Options) Files {
	overloads := overload.Group(class, opts.Access)
	namespace := Namespace(class, opts.Namespace)

	mockObject := MockObject(class, overloads, namespace, opts.Controller)
	mockImplementation := MockImplementation(opts.Name, class, overloads, namespace)
	instantiations := Instantiations(class, overloads)

	var header, source bytes.Buffer

	templates().WriteHeader(&header, headerData{
		Guard:              GuardPrefix + class.Name,
		InputPath:          opts.InputPath,
		Instantiations:     instantiations,
		MockObject:         mockObject.String(),
		MockImplementation: mockImplementation.String(),
	})

	templates().WriteSource(&source, sourceData{
		Allowed:        class.ExplicitInstantiationAllowed(),
		HeaderPath:     opts.HeaderPath,
		Instantiations: instantiations,
	})

	return Files{Header: header.String(), Source: source.String()}
}

// Instantiations returns the method object types of overloads that may be instantiated explicitly,
// without repetitions. Signatures that decay to the same key are instantiated once. The result is
// empty if class is a template or declares type aliases.
func Instantiations(class *model.Class, overloads []overload.Overload) []string {
	if !class.ExplicitInstantiationAllowed() {
		return nil
	}

	var keys []string
	for _, o := range overloads {
		keys = append(keys, o.MethodTypes()...)
	}

	return cxxutil.FilterDuplicates(keys)
}

// OutputName derives the name of the mock implementation from the name of the mocked class: the
// first group captured by inputPattern replaces the backreference in outputPattern.
func OutputName(inputPattern, outputPattern, className string) (string, error) {
	name, err := cxxutil.Swap(inputPattern, outputPattern, className)
	if err != nil {
		return "", errors.WithHint(
			errors.Wrap(err, "deriving the mock name"),
			"--output-class may only refer to a group captured by --input-class",
		)
	}

	return name, nil
}

// SourcePath returns the path of the source file that belongs to the header at headerPath.
func SourcePath(headerPath string) string {
	return strings.TrimSuffix(headerPath, filepath.Ext(headerPath)) + SourceExtension
}

// unexported variables.
var (
	//nolint:gochecknoglobals // parsed once, read-only afterwards
	templates = sync.OnceValue(NewTemplateRegistry)
)
