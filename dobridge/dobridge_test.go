package dobridge

import (
	"testing"

	"github.com/gburgyan/go-dicontainer"
	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock interface{ Now() int }

type fixedClock struct{ val int }

func (c *fixedClock) Now() int { return c.val }

type store interface{ Clock() clock }

type memStore struct{ clock clock }

func (s *memStore) Clock() clock { return s.clock }

func newProvider(t *testing.T) *dicontainer.DependencyProvider {
	t.Helper()
	cfg := dicontainer.NewConfiguration()
	require.NoError(t, dicontainer.RegisterSingleton[clock, *fixedClock](cfg, dicontainer.WithConstructor(func() *fixedClock {
		return &fixedClock{val: 11}
	})))
	require.NoError(t, dicontainer.RegisterTransient[store, *memStore](cfg, dicontainer.WithConstructor(func(c clock) *memStore {
		return &memStore{clock: c}
	})))
	return dicontainer.NewDependencyProvider(cfg)
}

func TestProvide(t *testing.T) {
	t.Parallel()

	p := newProvider(t)
	injector := do.New()
	Provide[clock](injector, p)
	Provide[store](injector, p)

	c, err := do.Invoke[clock](injector)
	require.NoError(t, err)
	assert.Equal(t, 11, c.Now())
	assert.Same(t, dicontainer.MustResolve[clock](p), c)

	first := do.MustInvoke[store](injector)
	second := do.MustInvoke[store](injector)
	assert.NotSame(t, first, second)
	assert.Same(t, c, first.Clock())
}

func TestProvide_Unregistered(t *testing.T) {
	t.Parallel()

	injector := do.New()
	Provide[store](injector, dicontainer.NewDependencyProvider(dicontainer.NewConfiguration()))

	_, err := do.Invoke[store](injector)
	assert.ErrorIs(t, err, dicontainer.ErrUnregisteredDependency)
}

func TestProvideAll(t *testing.T) {
	t.Parallel()

	cfg := dicontainer.NewConfiguration()
	require.NoError(t, dicontainer.RegisterSingleton[clock, *fixedClock](cfg))
	require.NoError(t, dicontainer.RegisterTransient[store, *memStore](cfg))
	type otherClock struct{ fixedClock }
	require.NoError(t, dicontainer.RegisterSingleton[clock, *otherClock](cfg))

	injector := do.New()
	ProvideAll[clock](injector, dicontainer.NewDependencyProvider(cfg))

	clocks, err := do.Invoke[[]clock](injector)
	require.NoError(t, err)
	require.Len(t, clocks, 2)
	assert.IsType(t, &fixedClock{}, clocks[0])
	assert.IsType(t, &otherClock{}, clocks[1])
}

func TestProvideNamed(t *testing.T) {
	t.Parallel()

	repositoryOf := dicontainer.GenericContract("Repository", "T")
	memRepositoryOf := dicontainer.GenericImplementation("memRepository", repositoryOf, "T")
	cfg := dicontainer.NewConfiguration()
	require.NoError(t, cfg.Register(repositoryOf, memRepositoryOf, dicontainer.Transient,
		dicontainer.WithFactory(nil, func(impl dicontainer.Type, _ []any) (any, error) {
			return impl.String(), nil
		})))

	injector := do.New()
	ProvideNamed[string](injector, "orders", dicontainer.NewDependencyProvider(cfg), repositoryOf.Of(dicontainer.TypeOf[int]()))

	name, err := do.InvokeNamed[string](injector, "orders")
	require.NoError(t, err)
	assert.Equal(t, "memRepository[int]", name)
}
