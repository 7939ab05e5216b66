package overload

import (
	"strconv"
	"strings"

	cxxutil "github.com/DrCpp/drmock-generator/drmockgen/run/0_util"
	model "github.com/DrCpp/drmock-generator/drmockgen/run/1_model"
)

// Getter returns the public member of the mock object that gives the user access to the method
// objects of the set. It is a template over the pack PackParam if the set is an overload.
func (o Overload) Getter() model.Method {
	first := o.methods[0]

	var args []string

	if o.UniformParams() {
		args = append(args, renderTypes(first.DecayedParamTypes())...)
	}

	getter := model.Method{
		Name:   o.MangledName(),
		Return: autoRef(),
		Access: model.Public,
	}

	if o.IsOverload() {
		getter.Template = model.NewTemplateDecl(PackParam)
		args = append(args, "DRMOCK_Ts ...")
	}

	if o.sharedQualifiers() {
		args = append(args, markers(first)...)
	}

	getter.Body = "return " + o.dispatchName() + "(" + TypeContainer + cxxutil.Template(args...) + "{});"

	return getter
}

// DispatchMethods returns one private method per signature, overloaded on the signature's type
// container, that returns the signature's method object.
func (o Overload) DispatchMethods() []model.Method {
	methods := make([]model.Method, 0, len(o.methods))

	for i, m := range o.methods {
		key := append(renderTypes(m.DecayedParamTypes()), markers(m)...)

		methods = append(methods, model.Method{
			Name:   o.dispatchName(),
			Params: model.Params(model.NewType(TypeContainer + cxxutil.Template(key...))),
			Return: autoRef(),
			Body:   "return *" + o.storageName(i) + ";",
			Access: model.Private,
		})
	}

	return methods
}

// Storage returns the private shared pointers to the method objects, one per signature.
func (o Overload) Storage() []model.Variable {
	types := o.MethodTypes()
	variables := make([]model.Variable, 0, len(o.methods))

	for i, m := range o.methods {
		variables = append(variables, model.Variable{
			Name: o.storageName(i),
			Type: model.NewType("std::shared_ptr" + cxxutil.Template(types[i])),
			Init: []string{
				"std::make_shared" + cxxutil.Template(types[i]) + "(" + strconv.Quote(m.Name) + ", " + StateObjectName + ")",
			},
			Access: model.Private,
		})
	}

	return variables
}

// Overrides returns the public overrides of the mock implementation. Each forwards its arguments to
// the call of its method object and returns the recorded result.
func (o Overload) Overrides() []model.Method {
	overrides := make([]model.Method, 0, len(o.methods))

	for _, m := range o.methods {
		impl := m
		impl.Virtual = false
		impl.Pure = false
		impl.Override = true
		impl.Access = model.Public
		impl.Params = make([]model.Param, 0, len(m.Params))

		forwards := make([]string, 0, len(m.Params))

		for i, p := range m.Params {
			name := "a" + strconv.Itoa(i)
			impl.Params = append(impl.Params, model.Param{Type: p.Type, Name: name})

			forward := "std::forward<" + p.Type.WithoutPack().String() + ">(" + name + ")"
			if p.Type.Pack {
				forward += "..."
			}

			forwards = append(forwards, forward)
		}

		call := o.access(m) + ".call(" + strings.Join(forwards, ", ") + ")"

		if m.Return.Equal(model.NewType("void")) {
			impl.Body = call + ";"
		} else {
			impl.Body = "auto& result = *" + call + ";\n" +
				"return std::forward<" + m.Return.String() + ">(" + CopyFallback + "(result));"
		}

		overrides = append(overrides, impl)
	}

	return overrides
}

// SetParent returns the statements, one per signature, that register the mock implementation as the
// parent of each method object.
func (o Overload) SetParent() []string {
	lines := make([]string, 0, len(o.methods))
	for _, m := range o.methods {
		lines = append(lines, o.access(m)+".parent(this);")
	}

	return lines
}

// access returns the expression that reaches the method object of m through the getter, supplying
// explicitly whatever the getter does not supply itself.
func (o Overload) access(m model.Method) string {
	if !o.IsOverload() {
		return MockObjectName + "." + o.MangledName() + "()"
	}

	var args []string

	if !o.UniformParams() {
		args = append(args, renderTypes(m.DecayedParamTypes())...)
	}

	if !o.sharedQualifiers() {
		args = append(args, markers(m)...)
	}

	return MockObjectName + ".template " + o.MangledName() + cxxutil.Template(args...) + "()"
}

// sharedQualifiers reports whether the getter can append the qualifier markers itself. Unlike
// UniformQualifiers it also compares volatile, since volatile is part of every dispatch key.
func (o Overload) sharedQualifiers() bool {
	if !o.UniformQualifiers() {
		return false
	}

	for _, m := range o.methods[1:] {
		if m.Volatile != o.methods[0].Volatile {
			return false
		}
	}

	return true
}

func autoRef() model.Type {
	return model.Type{Name: "auto", Ref: model.RefLValue}
}
