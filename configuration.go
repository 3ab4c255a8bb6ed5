package dicontainer

import (
	"fmt"
	"reflect"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// Builder constructs an instance of impl from its resolved constructor arguments,
// which arrive in the order the parameters were declared. For generic families impl
// is the closed implementation, so one Builder serves every instantiation.
type Builder func(impl Type, args []any) (any, error)

// Implementation is one concrete type registered against a contract.
type Implementation struct {
	Type     Type
	Lifetime Lifetime

	// Params are the declared constructor parameter types, in order. Open generic
	// families may use TypeParameter placeholders here.
	Params []Type

	constructor reflect.Value
	hasError    bool
	builder     Builder
}

// Binding associates a contract with its implementations in registration order.
type Binding struct {
	Contract        Type
	Implementations []*Implementation
}

// Configuration is the registry of bindings. Bindings are expected to be complete
// before the first resolution; the provider reads them but does not lock them.
type Configuration struct {
	bindings []*Binding
	index    map[string]*Binding
	closed   map[reflect.Type]Type
	logger   zerolog.Logger
}

// ConfigurationOption is a functional option for configuring a Configuration.
type ConfigurationOption func(*Configuration)

// WithConfigurationLogger sets the logger used to report registrations.
func WithConfigurationLogger(logger zerolog.Logger) ConfigurationOption {
	return func(c *Configuration) {
		c.logger = logger
	}
}

// NewConfiguration returns an empty registry.
func NewConfiguration(opts ...ConfigurationOption) *Configuration {
	c := &Configuration{
		index:  map[string]*Binding{},
		closed: map[reflect.Type]Type{},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RegistrationOption tells the registry how an implementation is built.
type RegistrationOption func(*registration)

type registration struct {
	sources []constructorSource
}

type constructorSource struct {
	constructor any
	params      []Type
	builder     Builder
}

// WithConstructor builds the implementation by calling fn, which must return the
// implementation type, optionally followed by an error. The parameters of fn are
// discovered by reflection and resolved from the container.
//
// Only one way of building an implementation is used. When several constructors or
// factories are supplied the first one wins.
func WithConstructor(fn any) RegistrationOption {
	return func(r *registration) {
		r.sources = append(r.sources, constructorSource{constructor: fn})
	}
}

// WithFactory builds the implementation by calling build with the resolved values of
// params. This is the only way to build generic families.
func WithFactory(params []Type, build Builder) RegistrationOption {
	return func(r *registration) {
		r.sources = append(r.sources, constructorSource{
			params:  append([]Type(nil), params...),
			builder: build,
		})
	}
}

// RegisterTransient registers I as an implementation of C that is built anew for every
// resolution.
func RegisterTransient[C, I any](c *Configuration, opts ...RegistrationOption) error {
	return c.Register(TypeOf[C](), TypeOf[I](), Transient, opts...)
}

// RegisterSingleton registers I as an implementation of C that is built once and
// shared afterwards.
func RegisterSingleton[C, I any](c *Configuration, opts ...RegistrationOption) error {
	return c.Register(TypeOf[C](), TypeOf[I](), Singleton, opts...)
}

// BindClosed links the Go type C, typically an instantiated generic interface, to a
// closed generic contract descriptor. Resolving C then falls back to the bindings of
// the descriptor when C itself has none.
func BindClosed[C any](c *Configuration, closed Type) error {
	goType := TypeOf[C]().Reflect()
	if !closed.IsClosed() || !closed.generic.abstract {
		return &DependencyError{
			Kind:           ErrInvalidRegistration,
			Message:        fmt.Sprintf("%v is not a closed generic contract", closed),
			ReferencedType: TypeFor(goType),
		}
	}
	c.closed[goType] = closed
	return nil
}

// Register validates impl against contract and adds it to the contract's binding.
// Registering the same implementation twice for a contract is a no-op. A failed
// registration leaves the registry untouched.
func (c *Configuration) Register(contract, impl Type, lifetime Lifetime, opts ...RegistrationOption) error {
	if !lifetime.valid() {
		return c.invalid(impl, fmt.Sprintf("unknown lifetime %v", lifetime))
	}
	if err := c.checkAssignable(contract, impl); err != nil {
		return err
	}

	r := &registration{}
	for _, opt := range opts {
		opt(r)
	}
	implementation, err := c.buildImplementation(impl, lifetime, r)
	if err != nil {
		return err
	}

	binding, found := c.index[contract.Key()]
	if !found {
		binding = &Binding{Contract: contract}
		c.bindings = append(c.bindings, binding)
		c.index[contract.Key()] = binding
	} else if lo.ContainsBy(binding.Implementations, func(i *Implementation) bool { return i.Type.Equal(impl) }) {
		c.logger.Debug().
			Stringer("contract", contract).
			Stringer("implementation", impl).
			Msg("implementation already registered")
		return nil
	}
	binding.Implementations = append(binding.Implementations, implementation)

	c.logger.Debug().
		Stringer("contract", contract).
		Stringer("implementation", impl).
		Stringer("lifetime", lifetime).
		Int("implementations", len(binding.Implementations)).
		Msg("binding registered")
	return nil
}

// checkAssignable verifies that impl is a concrete type satisfying contract.
func (c *Configuration) checkAssignable(contract, impl Type) error {
	switch {
	case contract.IsZero() || impl.IsZero():
		return c.invalid(impl, "contract and implementation are both required")
	case contract.IsMany() || impl.IsMany():
		return c.invalid(contract, "slice types are reserved for resolving every implementation")
	case contract.IsParameter() || impl.IsParameter():
		return c.invalid(impl, "type parameters cannot be registered")
	}

	if contract.goType != nil || impl.goType != nil {
		if contract.goType == nil || impl.goType == nil || !canAssign(impl.goType, contract.goType) {
			return c.invalid(impl, fmt.Sprintf("type is not assignable to %v", contract))
		}
		if impl.abstract() {
			return c.invalid(impl, "implementation cannot be an interface")
		}
		return nil
	}

	if impl.generic.contract != contract.generic || len(impl.generic.params) != len(contract.generic.params) {
		return c.invalid(impl, fmt.Sprintf("generic family does not implement %v", contract.Definition()))
	}
	if impl.IsOpen() != contract.IsOpen() {
		return c.invalid(impl, fmt.Sprintf("open and closed generics cannot be mixed with %v", contract))
	}
	if impl.IsClosed() {
		for i, arg := range impl.args {
			if !arg.Equal(contract.args[i]) {
				return c.invalid(impl, fmt.Sprintf("type arguments do not match %v", contract))
			}
		}
	}
	if impl.abstract() {
		return c.invalid(impl, "implementation cannot be a generic contract")
	}
	return nil
}

// buildImplementation decides how impl will be instantiated.
func (c *Configuration) buildImplementation(impl Type, lifetime Lifetime, r *registration) (*Implementation, error) {
	implementation := &Implementation{Type: impl, Lifetime: lifetime}

	if len(r.sources) == 0 {
		if impl.IsGeneric() {
			return nil, c.invalid(impl, "generic implementations need a factory")
		}
		return implementation, nil
	}
	if len(r.sources) > 1 {
		c.logger.Warn().
			Stringer("implementation", impl).
			Int("constructors", len(r.sources)).
			Msg("several constructors supplied, using the first")
	}

	source := r.sources[0]
	if source.builder != nil {
		for _, p := range source.params {
			if p.IsZero() {
				return nil, c.invalid(impl, "factory parameters must be described")
			}
			if p.IsParameter() && !impl.IsOpen() {
				return nil, c.invalid(impl, fmt.Sprintf("type parameter %v used outside an open generic implementation", p))
			}
		}
		implementation.Params = source.params
		implementation.builder = source.builder
		return implementation, nil
	}

	if source.constructor == nil {
		return nil, c.invalid(impl, "constructor must not be nil")
	}
	if impl.IsGeneric() {
		return nil, c.invalid(impl, "generic implementations need a factory, not a constructor")
	}
	fn := reflect.ValueOf(source.constructor)
	if fn.Kind() != reflect.Func {
		return nil, c.invalid(impl, fmt.Sprintf("constructor must be a function, got %v", fn.Type()))
	}
	info := getConstructorInfo(fn.Type())
	if !info.valid || info.variadic {
		return nil, c.invalid(impl, fmt.Sprintf("constructor %s must return the implementation and optionally an error", formatConstructorDebug(fn.Type())))
	}
	if info.result != impl.goType {
		return nil, c.invalid(impl, fmt.Sprintf("constructor returns %v", info.result))
	}

	implementation.Params = lo.Map(info.params, func(t reflect.Type, _ int) Type { return TypeFor(t) })
	implementation.constructor = fn
	implementation.hasError = info.hasError
	return implementation, nil
}

func (c *Configuration) invalid(t Type, message string) error {
	return &DependencyError{
		Kind:           ErrInvalidRegistration,
		Message:        message,
		ReferencedType: t,
	}
}

// Lookup returns the binding registered for exactly this contract.
func (c *Configuration) Lookup(contract Type) (*Binding, bool) {
	b, ok := c.index[contract.Key()]
	return b, ok
}

// Bindings returns the bindings in registration order.
func (c *Configuration) Bindings() []*Binding {
	return append([]*Binding(nil), c.bindings...)
}

// LifetimeOf finds the lifetime an implementation was registered with. For generic
// families pass the open implementation.
func (c *Configuration) LifetimeOf(impl Type) (Lifetime, error) {
	for _, b := range c.bindings {
		if found, ok := lo.Find(b.Implementations, func(i *Implementation) bool { return i.Type.Equal(impl) }); ok {
			return found.Lifetime, nil
		}
	}
	return 0, &DependencyError{
		Kind:           ErrUnregisteredDependency,
		Message:        "implementation was not registered",
		ReferencedType: impl,
	}
}

// closedFor returns the closed generic contract linked to a Go type with BindClosed.
func (c *Configuration) closedFor(t Type) (Type, bool) {
	if t.goType == nil {
		return Type{}, false
	}
	closed, ok := c.closed[t.goType]
	return closed, ok
}
