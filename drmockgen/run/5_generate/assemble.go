package generate

import (
	"strings"

	model "github.com/DrCpp/drmock-generator/drmockgen/run/1_model"
	overload "github.com/DrCpp/drmock-generator/drmockgen/run/4_overload"
)

// Exported constants.
const (
	// MockObjectPrefix prefixes the name of the mocked class to form the mock object's name.
	MockObjectPrefix = "DRMOCK_OBJECT"
	// ControllerClass is the runtime class that gives collective access to all method objects.
	ControllerClass = "::drmock::Controller"
	// StateObjectType is the type of the state object shared by the method objects.
	StateObjectType = "std::shared_ptr<::drmock::StateObject>"
	// ForwardingPack is the template parameter pack of the mock implementation's constructor.
	ForwardingPack = "DRMOCK_FORWARDING_CTOR_TS"
)

// MockObject assembles the mock object of class: the class holding one method object per mocked
// signature and the getters to access them. namespace is the resolved enclosing namespace.
//
// Members are ordered so that the state object is constructed before the method objects and every
// dispatch method is defined before the getters that deduce their return type from it.
func MockObject(class *model.Class, overloads []overload.Overload, namespace []string, controller string) model.Class {
	result := model.Class{
		Name:      MockObjectName(class),
		Namespace: namespace,
		Template:  class.Template,
	}

	result.Members = append(result.Members, privateAliases(class)...)
	result.Members = append(result.Members,
		model.Friend{Name: class.FullName(), Access: model.Private},
		model.Variable{
			Name:   overload.StateObjectName,
			Type:   model.NewType(StateObjectType),
			Init:   []string{"std::make_shared<::drmock::StateObject>()"},
			Access: model.Private,
		},
	)

	var storageNames []string

	for _, o := range overloads {
		for _, v := range o.Storage() {
			result.Members = append(result.Members, v)
		}

		storageNames = append(storageNames, o.StorageNames()...)
	}

	result.Members = append(result.Members, model.Variable{
		Name:   controller,
		Type:   model.NewType(ControllerClass),
		Init:   []string{"{" + strings.Join(storageNames, ", ") + "}", overload.StateObjectName},
		Access: model.Public,
	})

	for _, o := range overloads {
		for _, m := range o.DispatchMethods() {
			result.Members = append(result.Members, m)
		}
	}

	for _, o := range overloads {
		result.Members = append(result.Members, o.Getter())
	}

	return result
}

// MockImplementation assembles the class named name that derives from class and overrides every
// mocked signature by delegating to a mock object.
func MockImplementation(
	name string,
	class *model.Class,
	overloads []overload.Overload,
	namespace []string,
) model.Class {
	result := model.Class{
		Name:      name,
		Namespace: namespace,
		Template:  class.Template,
		Parent:    class.FullName(),
		QObject:   class.QObject,
	}

	var bindings []string
	for _, o := range overloads {
		bindings = append(bindings, o.SetParent()...)
	}

	result.Members = append(result.Members, privateAliases(class)...)
	result.Members = append(result.Members,
		model.Constructor{
			Name:         name,
			Template:     model.NewTemplateDecl("... " + ForwardingPack),
			Params:       []model.Param{{Type: model.NewType(ForwardingPack + "&&..."), Name: "ts"}},
			Initializers: []string{result.Parent + "{std::forward<" + ForwardingPack + ">(ts)...}"},
			Body:         strings.Join(bindings, "\n"),
			Access:       model.Public,
		},
		model.Variable{
			Name:    overload.MockObjectName,
			Type:    model.NewType(model.QualifiedName(namespace, MockObjectName(class), class.Template)),
			Mutable: true,
			Access:  model.Public,
		},
	)

	for _, o := range overloads {
		for _, m := range o.Overrides() {
			result.Members = append(result.Members, m)
		}
	}

	return result
}

// MockObjectName returns the unqualified name of the mock object of class.
func MockObjectName(class *model.Class) string {
	return MockObjectPrefix + class.Name
}

// Namespace resolves the namespace option against the namespace of class. An empty option keeps the
// class namespace, an option starting with `::` is absolute and any other option is nested into the
// class namespace.
func Namespace(class *model.Class, option string) []string {
	if option == "" {
		return append([]string(nil), class.Namespace...)
	}

	if absolute, ok := strings.CutPrefix(option, "::"); ok {
		if absolute == "" {
			return nil
		}

		return strings.Split(absolute, "::")
	}

	return append(append([]string(nil), class.Namespace...), strings.Split(option, "::")...)
}

func privateAliases(class *model.Class) []model.Member {
	aliases := class.TypeAliases()
	members := make([]model.Member, 0, len(aliases))

	for _, a := range aliases {
		a.Access = model.Private
		members = append(members, a)
	}

	return members
}
