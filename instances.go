package dicontainer

import "github.com/samber/mo"

// CreatedRecord is appended every time the provider builds an instance. Instance is
// only present for singletons, which keep their instance for the life of the provider.
type CreatedRecord struct {
	Implementation Type
	Contract       Type
	Instance       mo.Option[any]
}

// instanceLedger holds everything a provider has built. Singletons are indexed by
// implementation key so a lookup does not scan the records.
type instanceLedger struct {
	records    []CreatedRecord
	singletons map[string]any
}

func newInstanceLedger() *instanceLedger {
	return &instanceLedger{singletons: map[string]any{}}
}

// singleton returns the cached instance of impl, if one was built.
func (l *instanceLedger) singleton(impl Type) (any, bool) {
	instance, ok := l.singletons[impl.Key()]
	return instance, ok
}

func (l *instanceLedger) record(impl, contract Type, lifetime Lifetime, instance any) {
	r := CreatedRecord{
		Implementation: impl,
		Contract:       contract,
		Instance:       mo.None[any](),
	}
	if lifetime == Singleton {
		r.Instance = mo.Some(instance)
		l.singletons[impl.Key()] = instance
	}
	l.records = append(l.records, r)
}

func (l *instanceLedger) snapshot() []CreatedRecord {
	return append([]CreatedRecord(nil), l.records...)
}
