package dicontainer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// TimingMode selects what a provider records with go-timing.
type TimingMode int

const (
	// TimingDisable does not record any timing.
	TimingDisable TimingMode = iota

	// TimingConstructors starts a go-timing context for every constructor that is called.
	// Pass a context created with timing.Root to ResolveContext to see where the time of
	// building a graph is spent, nested the same way the graph is.
	TimingConstructors
)

// ProviderOption is a functional option for configuring a DependencyProvider.
type ProviderOption func(*DependencyProvider)

// WithLogger sets the logger the provider reports constructions on.
func WithLogger(logger zerolog.Logger) ProviderOption {
	return func(p *DependencyProvider) {
		p.logger = logger
	}
}

// WithTiming sets the timing mode of the provider.
func WithTiming(mode TimingMode) ProviderOption {
	return func(p *DependencyProvider) {
		p.timing = mode
	}
}

// WithStrictBindings makes resolving a single instance of a contract with more than one
// implementation fail with ErrAmbiguousBinding. By default the implementation that was
// registered first is used. Resolving every implementation is unaffected.
func WithStrictBindings() ProviderOption {
	return func(p *DependencyProvider) {
		p.strict = true
	}
}

// Resolve builds an instance of the contract C.
func Resolve[C any](p *DependencyProvider) (C, error) {
	return ResolveAs[C](p, TypeOf[C]())
}

// ResolveContext behaves like Resolve, passing ctx to the timing of the constructors.
func ResolveContext[C any](ctx context.Context, p *DependencyProvider) (C, error) {
	var zero C
	v, err := p.ResolveContext(ctx, TypeOf[C]())
	if err != nil {
		return zero, err
	}
	return convert[C](v, TypeOf[C]())
}

// MustResolve behaves like Resolve except it panics if the contract cannot be built.
func MustResolve[C any](p *DependencyProvider) C {
	v, err := Resolve[C](p)
	if err != nil {
		panic(err)
	}
	return v
}

// ResolveAll builds every implementation of the contract C in registration order.
func ResolveAll[C any](p *DependencyProvider) ([]C, error) {
	return Resolve[[]C](p)
}

// ResolveAs resolves the descriptor t and returns the result as a C. It is how generic
// families are resolved, for example
//
//	repo, err := ResolveAs[Repository[Order]](p, repositoryOf.Of(TypeOf[Order]()))
//
// Requests for every implementation of a descriptor built with ManyOf produce []any.
func ResolveAs[C any](p *DependencyProvider, t Type) (C, error) {
	var zero C
	v, err := p.ResolveType(t)
	if err != nil {
		return zero, err
	}
	return convert[C](v, t)
}

func convert[C any](v any, t Type) (C, error) {
	var zero C
	if v == nil {
		return zero, nil
	}
	c, ok := v.(C)
	if !ok {
		return zero, &DependencyError{
			Kind:           ErrConstructionFailed,
			Message:        "resolved value has the wrong type",
			ReferencedType: t,
			SourceError:    fmt.Errorf("%T is not a %v", v, TypeOf[C]()),
		}
	}
	return c, nil
}
