// Package overload groups the virtual methods of a class into overload sets and synthesizes, per set,
// the code that lets a mock object record and dispatch calls to each signature.
//
// Every set decides once which of its dimensions (parameter types, qualifiers) are uniform across its
// members. Uniform dimensions are supplied by the getter; the others must be spelled out by whoever
// calls the getter. The getter, the dispatch methods, the storage declarations and the override bodies
// all follow that one decision, so every storage object is reachable from its override.
package overload

import (
	"strconv"

	"bitbucket.org/creachadair/stringset"

	cxxutil "github.com/DrCpp/drmock-generator/drmockgen/run/0_util"
	model "github.com/DrCpp/drmock-generator/drmockgen/run/1_model"
	"github.com/DrCpp/drmock-generator/internal/errors"
)

// Exported constants.
const (
	// MockObjectName is the mock implementation's member that holds the mock object.
	MockObjectName = "mock"
	// StoragePrefix prefixes the per-signature method objects.
	StoragePrefix = "DRMOCK_METHOD_PTR"
	// StateObjectName is the state object shared by all method objects of one mock object.
	StateObjectName = "DRMOCK_STATE_OBJECT_"
	// DispatchPrefix prefixes the private dispatch methods.
	DispatchPrefix = "DRMOCK_DISPATCH"
	// MethodClass is the runtime class recording the calls to one signature.
	MethodClass = "::drmock::Method"
	// TypeContainer is the tag type the dispatch methods are overloaded on.
	TypeContainer = "::drmock::TypeContainer"
	// ConstMarker, VolatileMarker, LValueMarker and RValueMarker encode method qualifiers.
	ConstMarker    = "::drmock::Const"
	VolatileMarker = "::drmock::Volatile"
	LValueMarker   = "::drmock::LValueRef"
	RValueMarker   = "::drmock::RValueRef"
	// PackParam is the getter's template parameter for explicitly supplied arguments.
	PackParam = "... DRMOCK_Ts"
	// CopyFallback moves a result that cannot be copied.
	CopyFallback = "::drmock::move_if_not_copy_constructible"
)

// Overload is a non-empty set of virtual methods sharing one mangled name.
type Overload struct {
	owner   *model.Class
	methods []model.Method
}

// New returns the overload set of methods, which belong to owner. It panics if methods is empty, if
// the methods do not share a mangled name or if a method has inconsistent qualifiers.
func New(owner *model.Class, methods []model.Method) Overload {
	if len(methods) == 0 {
		panic(errors.AssertionFailedf("overload of %s without methods", owner.Name))
	}

	name := methods[0].MangledName()

	for _, m := range methods {
		m.Validate()

		if m.MangledName() != name {
			panic(errors.AssertionFailedf("method %s grouped into overload %s", m.Name, name))
		}
	}

	return Overload{owner: owner, methods: append([]model.Method(nil), methods...)}
}

// Group returns the overload sets of the virtual methods of class whose access is in access, in the
// order the sets first appear. An empty access list means public only.
func Group(class *model.Class, access []model.Access) []Overload {
	allowed := stringset.New()
	for _, a := range access {
		allowed.Add(string(a))
	}

	if allowed.Len() == 0 {
		allowed.Add(string(model.Public))
	}

	var candidates []model.Method

	for _, m := range class.VirtualMethods() {
		if allowed.Contains(string(m.Access)) {
			candidates = append(candidates, m)
		}
	}

	groups := cxxutil.GroupStable(candidates, model.Method.MangledName)
	overloads := make([]Overload, 0, len(groups))

	for _, group := range groups {
		overloads = append(overloads, New(class, group))
	}

	return overloads
}

// Methods returns the members of the set in source order.
func (o Overload) Methods() []model.Method {
	return append([]model.Method(nil), o.methods...)
}

// MangledName returns the name shared by the members.
func (o Overload) MangledName() string {
	return o.methods[0].MangledName()
}

// IsOverload reports whether the set has more than one member.
func (o Overload) IsOverload() bool {
	return len(o.methods) > 1
}

// UniformParams reports whether all members have the same decayed parameter types.
func (o Overload) UniformParams() bool {
	first := o.methods[0].DecayedParamTypes()

	for _, m := range o.methods[1:] {
		if !equalTypes(first, m.DecayedParamTypes()) {
			return false
		}
	}

	return true
}

// UniformQualifiers reports whether all members share const-ness and reference qualification.
// Volatile is not compared.
func (o Overload) UniformQualifiers() bool {
	first := o.methods[0]

	for _, m := range o.methods[1:] {
		if m.Const != first.Const || m.LValue != first.LValue || m.RValue != first.RValue {
			return false
		}
	}

	return true
}

// StorageNames returns the names of the per-signature method objects.
func (o Overload) StorageNames() []string {
	names := make([]string, 0, len(o.methods))
	for i := range o.methods {
		names = append(names, o.storageName(i))
	}

	return names
}

// MethodTypes returns, per signature, the method object type
// `::drmock::Method<Owner, Return, DecayedParams...>`.
func (o Overload) MethodTypes() []string {
	types := make([]string, 0, len(o.methods))
	for _, m := range o.methods {
		types = append(types, MethodType(o.owner.FullName(), m))
	}

	return types
}

// MethodType returns the method object type recording calls to m on owner.
func MethodType(owner string, m model.Method) string {
	args := []string{owner, m.Return.String()}
	args = append(args, renderTypes(m.DecayedParamTypes())...)

	return MethodClass + cxxutil.Template(args...)
}

func (o Overload) dispatchName() string {
	return DispatchPrefix + o.MangledName()
}

func (o Overload) storageName(i int) string {
	return StoragePrefix + o.MangledName() + "_" + strconv.Itoa(i)
}

func equalTypes(a, b []model.Type) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}

	return true
}

// markers returns the qualifier markers of m in container order.
func markers(m model.Method) []string {
	var result []string

	if m.Const {
		result = append(result, ConstMarker)
	}

	if m.Volatile {
		result = append(result, VolatileMarker)
	}

	if m.LValue {
		result = append(result, LValueMarker)
	}

	if m.RValue {
		result = append(result, RValueMarker)
	}

	return result
}

func renderTypes(types []model.Type) []string {
	rendered := make([]string, 0, len(types))
	for _, t := range types {
		rendered = append(rendered, t.String())
	}

	return rendered
}
