package dicontainer

import (
	"fmt"
	"reflect"
	"strings"
)

// Type describes a contract or an implementation known to a Configuration. It is
// one of:
//
//   - a plain Go type, created with TypeOf or TypeFor
//   - an open generic definition, created with GenericContract or GenericImplementation
//   - a closed instantiation of an open definition, created with Of
//   - a type parameter placeholder, created with TypeParameter
//   - a request for every implementation of a contract, created with ManyOf
//
// Go cannot instantiate a generic type at runtime, so generic families are described
// by descriptors and built by explicit factories (see WithFactory). Two descriptors
// identify the same type when their keys are equal.
type Type struct {
	goType  reflect.Type
	generic *genericType
	args    []Type
	param   *typeParam
	many    bool
	key     string
}

// genericType is the unbound definition shared by an open descriptor and all of its
// closed instantiations.
type genericType struct {
	name     string
	params   []string
	abstract bool
	contract *genericType
}

type typeParam struct {
	name string
}

// TypeOf returns the descriptor for the Go type T. Interfaces are described by
// their interface type, not by a pointer to it.
func TypeOf[T any]() Type {
	return TypeFor(reflect.TypeOf((*T)(nil)).Elem())
}

// TypeFor returns the descriptor for a Go reflection type.
func TypeFor(t reflect.Type) Type {
	if t == nil {
		panic("dicontainer: TypeFor requires a non-nil reflect.Type")
	}
	return Type{goType: t, key: "go:" + qualifiedName(t)}
}

// GenericContract declares an open generic contract family such as Repository[T].
// The parameter names are what the constructor parameters of implementations refer
// to with TypeParameter.
func GenericContract(name string, params ...string) Type {
	def := newGenericType(name, params)
	def.abstract = true
	return def.open()
}

// GenericImplementation declares an open generic implementation family that
// satisfies the open contract family.
func GenericImplementation(name string, contract Type, params ...string) Type {
	if !contract.IsOpen() || !contract.generic.abstract {
		panic(fmt.Sprintf("dicontainer: %v is not an open generic contract", contract))
	}
	def := newGenericType(name, params)
	def.contract = contract.generic
	return def.open()
}

// TypeParameter returns a placeholder for the named type parameter of a generic
// family. Placeholders appear in the declared parameter lists of generic factories
// and are bound to concrete types when a closed contract is resolved. The name has to
// be one of the parameters of the contract family.
func TypeParameter(name string) Type {
	if name == "" {
		panic("dicontainer: type parameter name must not be empty")
	}
	p := &typeParam{name: name}
	return Type{param: p, key: "param:" + name}
}

// ManyOf returns the descriptor for "every implementation of t", resolved as an
// ordered sequence. Go slice types such as []Plugin are treated the same way.
func ManyOf(t Type) Type {
	if t.IsZero() {
		panic("dicontainer: ManyOf requires a descriptor")
	}
	if t.IsMany() {
		return t
	}
	m := t
	m.many = true
	m.key = "[]" + t.key
	return m
}

func newGenericType(name string, params []string) *genericType {
	if name == "" {
		panic("dicontainer: generic definitions need a name")
	}
	if len(params) == 0 {
		panic(fmt.Sprintf("dicontainer: generic definition %s needs at least one type parameter", name))
	}
	seen := map[string]bool{}
	for _, p := range params {
		if p == "" || seen[p] {
			panic(fmt.Sprintf("dicontainer: generic definition %s has an empty or repeated parameter %q", name, p))
		}
		seen[p] = true
	}
	return &genericType{name: name, params: append([]string(nil), params...)}
}

func (g *genericType) open() Type {
	return Type{generic: g, key: fmt.Sprintf("generic:%s@%p", g.name, g)}
}

// Of closes an open generic definition over the given type arguments.
func (t Type) Of(args ...Type) Type {
	if !t.IsOpen() {
		panic(fmt.Sprintf("dicontainer: %v is not an open generic definition", t))
	}
	if len(args) != len(t.generic.params) {
		panic(fmt.Sprintf("dicontainer: %v takes %d type arguments, got %d", t, len(t.generic.params), len(args)))
	}
	keys := make([]string, len(args))
	for i, a := range args {
		if a.IsZero() || a.IsParameter() || a.IsOpen() || a.IsMany() {
			panic(fmt.Sprintf("dicontainer: %v is not a concrete type argument", a))
		}
		keys[i] = a.key
	}
	closed := t
	closed.args = append([]Type(nil), args...)
	closed.key = t.key + "[" + strings.Join(keys, ",") + "]"
	return closed
}

// Key returns the canonical identity of the descriptor.
func (t Type) Key() string { return t.key }

// Equal reports whether both descriptors identify the same type.
func (t Type) Equal(o Type) bool { return t.key == o.key }

func (t Type) IsZero() bool { return t.key == "" }

// IsGeneric reports whether t is an open definition or a closed instantiation.
func (t Type) IsGeneric() bool { return t.generic != nil && !t.many }

func (t Type) IsOpen() bool { return t.IsGeneric() && t.args == nil }

func (t Type) IsClosed() bool { return t.IsGeneric() && t.args != nil }

func (t Type) IsParameter() bool { return t.param != nil }

// IsMany reports whether t asks for every implementation of a contract.
func (t Type) IsMany() bool {
	return t.many || (t.goType != nil && t.goType.Kind() == reflect.Slice)
}

// Elem returns the contract of a many request.
func (t Type) Elem() Type {
	switch {
	case t.many:
		e := t
		e.many = false
		e.key = strings.TrimPrefix(t.key, "[]")
		return e
	case t.goType != nil && t.goType.Kind() == reflect.Slice:
		return TypeFor(t.goType.Elem())
	}
	return t
}

// Definition returns the open definition of a closed instantiation, or t itself.
func (t Type) Definition() Type {
	if t.IsClosed() {
		return t.generic.open()
	}
	return t
}

// Args returns the bound type arguments of a closed instantiation.
func (t Type) Args() []Type {
	return append([]Type(nil), t.args...)
}

// Reflect returns the Go type behind t, or nil for generic descriptors.
func (t Type) Reflect() reflect.Type { return t.goType }

// abstract reports whether t can only be used as a contract.
func (t Type) abstract() bool {
	switch {
	case t.param != nil:
		return true
	case t.generic != nil:
		return t.generic.abstract
	case t.goType != nil:
		return t.goType.Kind() == reflect.Interface
	}
	return true
}

func (t Type) String() string {
	switch {
	case t.IsZero():
		return "<none>"
	case t.many:
		return "[]" + t.Elem().String()
	case t.param != nil:
		return t.param.name
	case t.generic != nil && t.args == nil:
		return t.generic.name + "[" + strings.Join(t.generic.params, ", ") + "]"
	case t.generic != nil:
		names := make([]string, len(t.args))
		for i, a := range t.args {
			names[i] = a.String()
		}
		return t.generic.name + "[" + strings.Join(names, ", ") + "]"
	}
	return t.goType.String()
}

// qualifiedName names a Go type by import path so that two packages with the same
// name do not collide.
func qualifiedName(t reflect.Type) string {
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	switch t.Kind() {
	case reflect.Pointer:
		return "*" + qualifiedName(t.Elem())
	case reflect.Slice:
		return "[]" + qualifiedName(t.Elem())
	}
	return t.String()
}
