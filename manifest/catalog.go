package manifest

import (
	"fmt"

	"github.com/gburgyan/go-dicontainer"
)

// Catalog maps the names used in a manifest to the types they stand for.
type Catalog struct {
	contracts       map[string]dicontainer.Type
	implementations map[string]catalogEntry
}

type catalogEntry struct {
	t    dicontainer.Type
	opts []dicontainer.RegistrationOption
}

func NewCatalog() *Catalog {
	return &Catalog{
		contracts:       map[string]dicontainer.Type{},
		implementations: map[string]catalogEntry{},
	}
}

// Contract names a contract descriptor.
func (c *Catalog) Contract(name string, t dicontainer.Type) *Catalog {
	c.contracts[name] = t
	return c
}

// Implementation names an implementation descriptor along with the options that tell
// the registry how to build it.
func (c *Catalog) Implementation(name string, t dicontainer.Type, opts ...dicontainer.RegistrationOption) *Catalog {
	c.implementations[name] = catalogEntry{t: t, opts: opts}
	return c
}

// Contract names the Go type C.
func Contract[C any](c *Catalog, name string) *Catalog {
	return c.Contract(name, dicontainer.TypeOf[C]())
}

// Implementation names the Go type I.
func Implementation[I any](c *Catalog, name string, opts ...dicontainer.RegistrationOption) *Catalog {
	return c.Implementation(name, dicontainer.TypeOf[I](), opts...)
}

// Apply registers every binding of the manifest in cfg, in the order they are declared.
// Names missing from the catalog are reported together before anything is registered.
// The bindings are registered in a scratch configuration first, so a pair that cannot
// be registered leaves cfg unchanged.
func Apply(m *Manifest, cfg *dicontainer.Configuration, catalog *Catalog) error {
	ve := &ValidationError{}
	for _, b := range m.Bindings {
		if _, ok := catalog.contracts[b.Contract]; !ok {
			ve.Addf("contract %q is not in the catalog", b.Contract)
		}
		for _, impl := range b.Implementations {
			if _, ok := catalog.implementations[impl.Type]; !ok {
				ve.Addf("implementation %q is not in the catalog", impl.Type)
			}
		}
	}
	if err := ve.ToError(); err != nil {
		return err
	}

	if err := register(m, dicontainer.NewConfiguration(), catalog); err != nil {
		return err
	}
	return register(m, cfg, catalog)
}

func register(m *Manifest, cfg *dicontainer.Configuration, catalog *Catalog) error {
	for _, b := range m.Bindings {
		contract := catalog.contracts[b.Contract]
		for _, impl := range b.Implementations {
			entry := catalog.implementations[impl.Type]
			if err := cfg.Register(contract, entry.t, impl.Lifetime, entry.opts...); err != nil {
				return fmt.Errorf("registering %s for %s: %w", impl.Type, b.Contract, err)
			}
		}
	}
	return nil
}
