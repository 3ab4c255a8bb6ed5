package manifest

import (
	"errors"
	"testing"

	"github.com/gburgyan/go-dicontainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock interface{ Now() int }

type fixedClock struct{ val int }

func (c *fixedClock) Now() int { return c.val }

type store interface{ Clock() clock }

type memStore struct{ clock clock }

func (s *memStore) Clock() clock { return s.clock }

type plugin interface{ ID() string }

type pluginA struct{ id string }

func (p *pluginA) ID() string { return "a" }

type pluginB struct{ id string }

func (p *pluginB) ID() string { return "b" }

type pluginHost struct {
	plugins []plugin
	store   store
}

func testCatalog() *Catalog {
	c := NewCatalog()
	Contract[clock](c, "clock")
	Contract[store](c, "store")
	Contract[plugin](c, "plugin")
	Contract[*pluginHost](c, "host")
	Implementation[*fixedClock](c, "fixedClock", dicontainer.WithConstructor(func() *fixedClock {
		return &fixedClock{val: 3}
	}))
	Implementation[*memStore](c, "memStore", dicontainer.WithConstructor(func(cl clock) *memStore {
		return &memStore{clock: cl}
	}))
	Implementation[*pluginA](c, "pluginA")
	Implementation[*pluginB](c, "pluginB")
	Implementation[*pluginHost](c, "pluginHost", dicontainer.WithConstructor(func(plugins []plugin, s store) *pluginHost {
		return &pluginHost{plugins: plugins, store: s}
	}))
	return c
}

func TestApply(t *testing.T) {
	t.Parallel()

	cfg := dicontainer.NewConfiguration()
	require.NoError(t, Apply(loadTestYAML(t), cfg, testCatalog()))
	require.NoError(t, cfg.Verify())

	p := dicontainer.NewDependencyProvider(cfg)
	host, err := dicontainer.Resolve[*pluginHost](p)
	require.NoError(t, err)

	require.Len(t, host.plugins, 2)
	assert.Equal(t, "a", host.plugins[0].ID())
	assert.Equal(t, "b", host.plugins[1].ID())
	assert.Equal(t, 3, host.store.Clock().Now())

	c, err := dicontainer.Resolve[clock](p)
	require.NoError(t, err)
	assert.Same(t, c, host.store.Clock())
}

func TestApply_UnknownNames(t *testing.T) {
	t.Parallel()

	m := &Manifest{Bindings: []BindingSpec{
		{Contract: "clock", Implementations: []ImplementationSpec{{Type: "atomicClock"}}},
		{Contract: "queue", Implementations: []ImplementationSpec{{Type: "fixedClock"}}},
	}}
	cfg := dicontainer.NewConfiguration()

	err := Apply(m, cfg, testCatalog())
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{
		`implementation "atomicClock" is not in the catalog`,
		`contract "queue" is not in the catalog`,
	}, ve.Errors)
	assert.Empty(t, cfg.Bindings())
}

func TestApply_RegistrationError(t *testing.T) {
	t.Parallel()

	m := &Manifest{Bindings: []BindingSpec{
		{Contract: "clock", Implementations: []ImplementationSpec{{Type: "fixedClock", Lifetime: dicontainer.Singleton}}},
		{Contract: "store", Implementations: []ImplementationSpec{{Type: "fixedClock"}}},
	}}
	cfg := dicontainer.NewConfiguration()

	err := Apply(m, cfg, testCatalog())
	assert.ErrorIs(t, err, dicontainer.ErrInvalidRegistration)
	assert.Contains(t, err.Error(), "registering fixedClock for store")

	// the valid clock binding before the failure is not registered either
	assert.Empty(t, cfg.Bindings())
}

func TestCatalog_Descriptors(t *testing.T) {
	t.Parallel()

	repositoryOf := dicontainer.GenericContract("Repository", "T")
	memRepositoryOf := dicontainer.GenericImplementation("memRepository", repositoryOf, "T")
	c := NewCatalog().
		Contract("repository", repositoryOf).
		Implementation("memRepository", memRepositoryOf, dicontainer.WithFactory(nil, func(impl dicontainer.Type, _ []any) (any, error) {
			return impl.String(), nil
		}))

	m := &Manifest{Bindings: []BindingSpec{
		{Contract: "repository", Implementations: []ImplementationSpec{{Type: "memRepository", Lifetime: dicontainer.Singleton}}},
	}}
	cfg := dicontainer.NewConfiguration()
	require.NoError(t, Apply(m, cfg, c))

	p := dicontainer.NewDependencyProvider(cfg)
	name, err := dicontainer.ResolveAs[string](p, repositoryOf.Of(dicontainer.TypeOf[int]()))
	require.NoError(t, err)
	assert.Equal(t, "memRepository[int]", name)
}
