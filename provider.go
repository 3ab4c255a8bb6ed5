package dicontainer

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/gburgyan/go-timing"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DependencyProvider builds object graphs from the bindings of a Configuration.
//
// A request for a contract finds the contract's binding, or the binding of the open
// generic definition when a closed generic contract has none of its own. Every
// implementation of the binding is then built in registration order, resolving each
// of its constructor parameters from the provider in turn, and the first one is
// returned. A request for a slice of a contract, or for a descriptor made with ManyOf,
// returns all of them. A failure building any implementation fails the request.
//
// Transient implementations are built on every request. Singleton implementations are
// built once per implementation type and the same instance is returned afterwards,
// whichever contract it was requested through. The dependencies of a cached singleton
// are not resolved again.
//
// Top-level resolutions are serialized by a provider-wide lock. Constructors must not
// call back into the provider that is building them.
type DependencyProvider struct {
	id     uuid.UUID
	config *Configuration
	ledger *instanceLedger
	lock   sync.Mutex
	logger zerolog.Logger
	timing TimingMode
	strict bool
}

// NewDependencyProvider returns a provider for the bindings in cfg. The bindings should
// be complete before the first resolution.
func NewDependencyProvider(cfg *Configuration, opts ...ProviderOption) *DependencyProvider {
	p := &DependencyProvider{
		id:     uuid.New(),
		config: cfg,
		ledger: newInstanceLedger(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With().Str("provider_id", p.id.String()).Logger()
	return p
}

// ID identifies the provider in logs.
func (p *DependencyProvider) ID() uuid.UUID {
	return p.id
}

// Configuration returns the registry the provider resolves from.
func (p *DependencyProvider) Configuration() *Configuration {
	return p.config
}

// ResolveType builds the type described by t.
func (p *DependencyProvider) ResolveType(t Type) (any, error) {
	return p.ResolveContext(context.Background(), t)
}

// ResolveContext builds the type described by t. The context is only used for timing.
func (p *DependencyProvider) ResolveContext(ctx context.Context, t Type) (any, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.resolve(ctx, t, newCycleChecker())
}

// Records returns a copy of everything the provider has built, in construction order.
func (p *DependencyProvider) Records() []CreatedRecord {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.ledger.snapshot()
}

func (p *DependencyProvider) resolve(ctx context.Context, requested Type, checker *cycleChecker) (any, error) {
	if requested.IsZero() {
		return nil, &DependencyError{
			Kind:    ErrUnregisteredDependency,
			Message: "no type was requested",
		}
	}

	many := requested.IsMany()
	contract := requested
	if many {
		contract = requested.Elem()
	}
	if contract.IsOpen() || contract.IsParameter() {
		return nil, &DependencyError{
			Kind:           ErrGenericParameterMismatch,
			Message:        "open generic types cannot be resolved, close them with Of",
			ReferencedType: contract,
		}
	}

	binding, contract, open, err := p.findBinding(contract)
	if err != nil {
		return nil, err
	}

	unlock, err := p.enterContract(checker, contract)
	if err != nil {
		return nil, err
	}
	defer unlock()

	implementations := binding.Implementations
	if !many && p.strict && len(implementations) > 1 {
		return nil, &DependencyError{
			Kind:           ErrAmbiguousBinding,
			Message:        fmt.Sprintf("%d implementations registered, resolve all of them instead", len(implementations)),
			ReferencedType: contract,
		}
	}

	// Every implementation is built, in registration order, even when only the first
	// is returned.
	instances := make([]any, 0, len(implementations))
	for _, impl := range implementations {
		instance, err := p.construct(ctx, impl, contract, open, checker)
		if err != nil {
			return nil, err
		}
		instances = append(instances, instance)
	}

	if !many {
		return instances[0], nil
	}
	return sequenceOf(requested, contract, instances)
}

// findBinding looks for the binding of contract, then the binding of the closed
// generic contract linked to it with BindClosed, then the binding of its open
// definition. It returns the contract the binding was found through and whether the
// open definition matched.
func (p *DependencyProvider) findBinding(contract Type) (*Binding, Type, bool, error) {
	if b, ok := p.config.Lookup(contract); ok {
		return b, contract, false, nil
	}
	if closed, ok := p.config.closedFor(contract); ok {
		contract = closed
		if b, ok := p.config.Lookup(contract); ok {
			return b, contract, false, nil
		}
	}
	if contract.IsClosed() {
		if b, ok := p.config.Lookup(contract.Definition()); ok {
			return b, contract, true, nil
		}
	}
	return nil, contract, false, &DependencyError{
		Kind:           ErrUnregisteredDependency,
		Message:        "dependency not found",
		ReferencedType: contract,
		Status:         p.config.Status(),
	}
}

// construct returns an instance of impl for contract, reusing a cached singleton when
// there is one.
func (p *DependencyProvider) construct(ctx context.Context, impl *Implementation, contract Type, open bool, checker *cycleChecker) (any, error) {
	closed := impl.Type
	if open {
		closed = impl.Type.Of(contract.Args()...)
	}

	lifetime, err := p.config.LifetimeOf(impl.Type)
	if err != nil {
		return nil, err
	}
	switch lifetime {
	case Singleton:
		if instance, ok := p.ledger.singleton(closed); ok {
			p.logger.Debug().
				Stringer("contract", contract).
				Stringer("implementation", closed).
				Msg("singleton reused")
			return instance, nil
		}
	case Transient:
	default:
		return nil, &DependencyError{
			Kind:           ErrUnsupportedLifetime,
			Message:        fmt.Sprintf("cannot build %v instances", lifetime),
			ReferencedType: closed,
		}
	}

	if p.timing == TimingConstructors {
		timingCtx, complete := timing.Start(ctx, closed.String())
		defer complete()
		ctx = timingCtx
	}

	params := impl.Params
	if open {
		if params, err = bindParameters(contract, params); err != nil {
			return nil, err
		}
	}

	args := make([]any, len(params))
	for i, param := range params {
		if args[i], err = p.resolve(ctx, param, checker); err != nil {
			return nil, err
		}
	}

	instance, err := impl.instantiate(closed, args)
	if err != nil {
		return nil, err
	}
	p.ledger.record(closed, contract, lifetime, instance)

	p.logger.Debug().
		Stringer("contract", contract).
		Stringer("implementation", closed).
		Stringer("lifetime", lifetime).
		Msg("instance constructed")
	return instance, nil
}

// sequenceOf collects the instances built for a request of every implementation. Go
// slice requests get a slice of their own type, descriptor requests get []any.
func sequenceOf(requested, contract Type, instances []any) (any, error) {
	if requested.goType == nil || requested.goType.Kind() != reflect.Slice {
		return instances, nil
	}
	elem := requested.goType.Elem()
	result := reflect.MakeSlice(requested.goType, 0, len(instances))
	for _, instance := range instances {
		if instance == nil {
			result = reflect.Append(result, reflect.Zero(elem))
			continue
		}
		v := reflect.ValueOf(instance)
		if !v.Type().AssignableTo(elem) {
			return nil, &DependencyError{
				Kind:           ErrConstructionFailed,
				Message:        fmt.Sprintf("built %v, which cannot be used as %v", v.Type(), elem),
				ReferencedType: contract,
			}
		}
		result = reflect.Append(result, v)
	}
	return result.Interface(), nil
}
