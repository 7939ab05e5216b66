package model

import (
	"strings"

	cxxutil "github.com/DrCpp/drmock-generator/drmockgen/run/0_util"
)

// Class is a class declaration. Members keep their source order, which also decides where access
// specifiers are emitted.
type Class struct {
	Name      string
	Namespace []string
	Members   []Member
	Template  *TemplateDecl
	Parent    string
	Final     bool
	QObject   bool
}

// FullName returns the namespace-qualified name with template arguments, e.g. `outer::Foo<T, Ts ...>`.
func (c Class) FullName() string {
	return QualifiedName(c.Namespace, c.Name, c.Template)
}

// VirtualMethods returns the virtual methods in member order.
func (c Class) VirtualMethods() []Method {
	var methods []Method

	for _, member := range c.Members {
		if m, ok := member.(Method); ok && m.Virtual {
			methods = append(methods, m)
		}
	}

	return methods
}

// TypeAliases returns the type aliases in member order.
func (c Class) TypeAliases() []TypeAlias {
	var aliases []TypeAlias

	for _, member := range c.Members {
		if a, ok := member.(TypeAlias); ok {
			aliases = append(aliases, a)
		}
	}

	return aliases
}

// ExplicitInstantiationAllowed reports whether the mock's method objects may be explicitly
// instantiated, which requires a non-template class without type aliases.
func (c Class) ExplicitInstantiationAllowed() bool {
	return c.Template == nil && len(c.TypeAliases()) == 0
}

func (c Class) String() string {
	var b strings.Builder

	if len(c.Namespace) > 0 {
		openers := make([]string, 0, len(c.Namespace))
		for _, ns := range c.Namespace {
			openers = append(openers, "namespace "+ns+" {")
		}

		b.WriteString(strings.Join(openers, " ") + "\n\n")
	}

	if c.Template != nil {
		b.WriteString(c.Template.String() + "\n")
	}

	b.WriteString("class " + c.Name)

	if c.Final {
		b.WriteString(" final")
	}

	if c.Parent != "" {
		b.WriteString(" : public " + c.Parent)
	}

	b.WriteString("\n{\n")

	if c.QObject {
		b.WriteString("  Q_OBJECT\n\n")
	}

	access := Private

	for _, member := range c.Members {
		if member.AccessLevel() != access {
			access = member.AccessLevel()
			b.WriteString("\n" + string(access) + ":\n")
		}

		b.WriteString(cxxutil.Indent(member.String()) + "\n")
	}

	b.WriteString("};")

	if len(c.Namespace) > 0 {
		b.WriteString("\n\n" + strings.Repeat("}", len(c.Namespace)) + " // namespace " + strings.Join(c.Namespace, "::"))
	}

	return b.String()
}

// QualifiedName joins a namespace path, a name and the arguments of an optional template declaration.
func QualifiedName(namespace []string, name string, template *TemplateDecl) string {
	var b strings.Builder

	for _, ns := range namespace {
		b.WriteString(ns + "::")
	}

	b.WriteString(name)

	if template != nil {
		b.WriteString(template.ArgList())
	}

	return b.String()
}
