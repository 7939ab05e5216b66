// Package model holds the C++ declarations drmockgen reads from a header and emits into mocks:
// layered types, method signatures, template declarations, class members and classes.
//
// All values render themselves as C++ through String.
package model

import (
	"strings"

	cxxutil "github.com/DrCpp/drmock-generator/drmockgen/run/0_util"
	"github.com/DrCpp/drmock-generator/internal/errors"
)

// RefKind is the reference category of a type layer.
type RefKind int

// Reference categories.
const (
	RefNone RefKind = iota
	RefLValue
	RefRValue
)

// Type is one layer of a C++ type expression. The innermost layer carries the terminal spelling in
// Name; every other layer wraps Inner. For example `const T * const &` is
//
//	{Ref: RefLValue, Inner: {Pointer: true, Const: true, Inner: {Const: true, Name: "T"}}}
//
// For references, cv-qualifiers live on the referent layer. Types are values: every operation
// returns a fresh copy and never shares Inner with its receiver.
type Type struct {
	Inner    *Type
	Name     string
	Const    bool
	Volatile bool
	Pointer  bool
	Pack     bool
	Ref      RefKind
}

// NewType returns the terminal type spelled name.
func NewType(name string) Type {
	return Type{Name: name}
}

// Parse builds a Type from the tokens of a type expression. Trailing `const`, `volatile` and `...`
// are read from the right up to the first indirection (`*`, `&`, `&&`), which opens a new layer for
// the remaining tokens. Without an indirection, leading `const` and `volatile` are read from the left
// and the rest is the terminal spelling.
func Parse(tokens []string) (Type, error) {
	if len(tokens) == 0 {
		return Type{}, errors.AssertionFailedf("cannot parse a type from no tokens")
	}

	var result Type

	rest := tokens
	indirect := false

scan:
	for len(rest) > 0 {
		switch rest[len(rest)-1] {
		case "const":
			result.Const = true
		case "volatile":
			result.Volatile = true
		case "...":
			result.Pack = true
		case "*":
			result.Pointer = true
			indirect = true
		case "&":
			result.Ref = RefLValue
			indirect = true
		case "&&":
			result.Ref = RefRValue
			indirect = true
		default:
			break scan
		}

		rest = rest[:len(rest)-1]

		if indirect {
			break
		}
	}

	if indirect {
		inner, err := Parse(rest)
		if err != nil {
			return Type{}, errors.Wrapf(err, "parsing %q", cxxutil.JoinTokens(tokens))
		}

		result.Inner = &inner

		return result.Simplify(), nil
	}

	for len(rest) > 0 && (rest[0] == "const" || rest[0] == "volatile") {
		if rest[0] == "const" {
			result.Const = true
		} else {
			result.Volatile = true
		}

		rest = rest[1:]
	}

	if len(rest) == 0 {
		return Type{}, errors.AssertionFailedf("type %q has no terminal spelling", cxxutil.JoinTokens(tokens))
	}

	result.Name = cxxutil.JoinTokens(rest)

	return result.Simplify(), nil
}

// MustParse parses a spelling whose tokens are separated by whitespace, e.g. "const T &". It panics
// on malformed input and is meant for spellings fixed in code.
func MustParse(spelling string) Type {
	t, err := Parse(strings.Fields(spelling))
	if err != nil {
		panic(err)
	}

	return t
}

// Decay returns the value type of t: reference-ness and surface cv-qualification removed. The cv of a
// reference is taken from its referent.
func (t Type) Decay() Type {
	result := t.Simplify()

	switch {
	case result.Ref != RefNone && result.Inner != nil:
		result.Ref = RefNone
		result.Inner.Const = false
		result.Inner.Volatile = false
	default:
		result.Ref = RefNone
		result.Const = false
		result.Volatile = false
	}

	return result.Simplify()
}

// Simplify returns a copy of t with every naked layer removed. A naked terminal is folded into the
// layer that wraps it, so `T &` is a single layer.
func (t Type) Simplify() Type {
	t.validate()

	layer := &t
	for layer.Inner != nil && layer.naked() {
		layer = layer.Inner
	}

	result := *layer
	result.validate()

	if result.Inner == nil {
		return result
	}

	inner := result.Inner.Simplify()
	if inner.Inner == nil && inner.naked() {
		result.Name = inner.Name
		result.Inner = nil
	} else {
		result.Inner = &inner
	}

	return result
}

// Equal reports whether t and other denote the same type, ignoring naked layers.
func (t Type) Equal(other Type) bool {
	return equalLayers(t.Simplify(), other.Simplify())
}

// WithoutPack returns a copy of t without the outer pack expansion.
func (t Type) WithoutPack() Type {
	result := t.clone()
	result.Pack = false

	return result
}

// String renders t as C++: `T &`, `T * const`, `const volatile T`, `Ts && ...`.
func (t Type) String() string {
	t.validate()

	var result string
	if t.Inner != nil {
		result = t.Inner.String()
	} else {
		result = t.Name
	}

	switch t.Ref {
	case RefLValue:
		result += " &"
	case RefRValue:
		result += " &&"
	case RefNone:
	}

	if t.Pointer {
		result += " *"

		if t.Const {
			result += " const"
		}

		if t.Volatile {
			result += " volatile"
		}
	} else {
		if t.Volatile {
			result = "volatile " + result
		}

		if t.Const {
			result = "const " + result
		}
	}

	if t.Pack {
		result += " ..."
	}

	return result
}

func (t Type) clone() Type {
	result := t
	if t.Inner != nil {
		inner := t.Inner.clone()
		result.Inner = &inner
	}

	return result
}

// validate panics if a layer carries both a terminal spelling and an inner layer.
func (t Type) validate() {
	if t.Inner != nil && t.Name != "" {
		panic(errors.AssertionFailedf("type layer %q wraps an inner type", t.Name))
	}
}

func (t Type) naked() bool {
	return !t.Const && !t.Volatile && !t.Pointer && !t.Pack && t.Ref == RefNone
}

func equalLayers(a, b Type) bool {
	if a.Const != b.Const || a.Volatile != b.Volatile || a.Pointer != b.Pointer || a.Pack != b.Pack ||
		a.Ref != b.Ref {
		return false
	}

	if a.Inner == nil || b.Inner == nil {
		return a.Inner == nil && b.Inner == nil && a.Name == b.Name
	}

	return equalLayers(*a.Inner, *b.Inner)
}
