// Package detect finds the class to mock in a translation unit and converts it into the model.
package detect

import (
	"regexp"

	model "github.com/DrCpp/drmock-generator/drmockgen/run/1_model"
	load "github.com/DrCpp/drmock-generator/drmockgen/run/2_load"
	"github.com/DrCpp/drmock-generator/internal/errors"
)

// Match is a class found in a translation unit.
type Match struct {
	Class *model.Class
	// Node is the declaration of the class: a CXXRecordDecl, or the ClassTemplateDecl wrapping it.
	Node *load.Node
}

// FindClass returns the first class of tu, in depth-first order through namespaces, whose name
// matches pattern at its start. Only complete definitions in the parsed file are considered.
func FindClass(tu *load.TranslationUnit, pattern string) (*model.Class, error) {
	match, err := Find(tu, pattern)
	if err != nil {
		return nil, err
	}

	return match.Class, nil
}

// Find is FindClass that also returns the declaration the class was read from.
func Find(tu *load.TranslationUnit, pattern string) (Match, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return Match{}, errors.Mark(errors.Wrapf(err, "invalid class pattern %q", pattern), errors.ErrUsage)
	}

	finder := classFinder{tu: tu, pattern: re}

	match, err := finder.find(tu.Root, nil)
	if err != nil {
		return Match{}, err
	}

	if match.Class == nil {
		return Match{}, errors.WithHint(
			errors.Mark(errors.Newf("no class matching '%s' found", pattern), errors.ErrNotFound),
			"check --input-class; only classes defined in the header itself are searched",
		)
	}

	return match, nil
}

type classFinder struct {
	tu      *load.TranslationUnit
	pattern *regexp.Regexp
}

// find returns an empty Match without error if nothing below n matches.
func (f classFinder) find(n *load.Node, namespace []string) (Match, error) {
	for _, child := range f.tu.Children(n) {
		switch child.Kind {
		case kindNamespace:
			nested := namespace
			if child.Name != "" {
				nested = append(append([]string(nil), namespace...), child.Name)
			}

			match, err := f.find(child, nested)
			if match.Class != nil || err != nil {
				return match, err
			}
		case kindLinkageSpec:
			match, err := f.find(child, namespace)
			if match.Class != nil || err != nil {
				return match, err
			}
		case kindRecord:
			if isDefinition(child) && f.pattern.MatchString(child.Name) {
				class, err := convertClass(f.tu, child, nil, namespace)

				return Match{Class: class, Node: child}, err
			}
		case kindClassTemplate:
			if !f.pattern.MatchString(child.Name) {
				continue
			}

			record := templatedRecord(child)
			if record == nil {
				continue
			}

			class, err := convertClass(f.tu, record, templateDecl(f.tu, child), namespace)

			return Match{Class: class, Node: child}, err
		}
	}

	return Match{}, nil
}

// Node kinds of the clang AST.
const (
	kindNamespace     = "NamespaceDecl"
	kindLinkageSpec   = "LinkageSpecDecl"
	kindRecord        = "CXXRecordDecl"
	kindClassTemplate = "ClassTemplateDecl"
	kindTemplateParam = "TemplateTypeParmDecl"
	kindParam         = "ParmVarDecl"
	kindAliasDecl     = "TypeAliasDecl"
)

func isDefinition(n *load.Node) bool {
	return n.CompleteDefinition && !n.IsImplicit && (n.TagUsed == "class" || n.TagUsed == "struct")
}

func templatedRecord(n *load.Node) *load.Node {
	for _, child := range n.Inner {
		if child.Kind == kindRecord && isDefinition(child) {
			return child
		}
	}

	return nil
}

// templateDecl returns the type parameters of a template declaration. Non-type template parameters
// are not represented.
func templateDecl(tu *load.TranslationUnit, n *load.Node) *model.TemplateDecl {
	var params []string

	for _, child := range tu.Children(n) {
		if child.Kind != kindTemplateParam {
			continue
		}

		if child.IsParameterPack {
			params = append(params, "... "+child.Name)
		} else {
			params = append(params, child.Name)
		}
	}

	return model.NewTemplateDecl(params...)
}
