// Package dobridge exposes contracts of a dicontainer provider as samber/do services, so
// code built around a do injector can consume them.
package dobridge

import (
	"github.com/gburgyan/go-dicontainer"
	"github.com/samber/do/v2"
)

// Provide registers C in the injector, resolved from p on demand. Contracts whose first
// implementation is transient are registered as do transients; everything else is a
// lazy do singleton.
func Provide[C any](i do.Injector, p *dicontainer.DependencyProvider) {
	provider := func(do.Injector) (C, error) {
		return dicontainer.Resolve[C](p)
	}
	if transient(p, dicontainer.TypeOf[C]()) {
		do.ProvideTransient(i, provider)
		return
	}
	do.Provide(i, provider)
}

// ProvideAll registers []C, every implementation of C, in the injector.
func ProvideAll[C any](i do.Injector, p *dicontainer.DependencyProvider) {
	do.ProvideTransient(i, func(do.Injector) ([]C, error) {
		return dicontainer.ResolveAll[C](p)
	})
}

// ProvideNamed registers the descriptor t under name, for contracts such as closed
// generics that have no Go type of their own in the container.
func ProvideNamed[C any](i do.Injector, name string, p *dicontainer.DependencyProvider, t dicontainer.Type) {
	provider := func(do.Injector) (C, error) {
		return dicontainer.ResolveAs[C](p, t)
	}
	if transient(p, t) {
		do.ProvideNamedTransient(i, name, provider)
		return
	}
	do.ProvideNamed(i, name, provider)
}

func transient(p *dicontainer.DependencyProvider, t dicontainer.Type) bool {
	cfg := p.Configuration()
	b, ok := cfg.Lookup(t)
	if !ok && t.IsClosed() {
		b, ok = cfg.Lookup(t.Definition())
	}
	return ok && len(b.Implementations) > 0 && b.Implementations[0].Lifetime == dicontainer.Transient
}
