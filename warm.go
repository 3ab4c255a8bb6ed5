package dicontainer

import (
	"context"
	"errors"
)

// Warm builds every singleton whose contract is not an open generic definition, so the
// cost of building them is not paid by the first request. Failures are collected and
// returned together; the singletons that could be built stay cached.
func (p *DependencyProvider) Warm(ctx context.Context) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	var errs []error
	for _, b := range p.config.bindings {
		if b.Contract.IsOpen() {
			continue
		}
		for _, impl := range b.Implementations {
			// the first registration of an implementation decides its lifetime
			if lifetime, err := p.config.LifetimeOf(impl.Type); err != nil || lifetime != Singleton {
				continue
			}
			if err := p.warm(ctx, b.Contract, impl); err != nil {
				p.logger.Warn().
					Err(err).
					Stringer("implementation", impl.Type).
					Msg("singleton could not be built ahead of time")
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (p *DependencyProvider) warm(ctx context.Context, contract Type, impl *Implementation) error {
	checker := newCycleChecker()
	unlock, err := p.enterContract(checker, contract)
	if err != nil {
		return err
	}
	defer unlock()
	_, err = p.construct(ctx, impl, contract, false, checker)
	return err
}
