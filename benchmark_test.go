package dicontainer

import (
	"testing"
)

func benchmarkConfiguration(b *testing.B) *Configuration {
	cfg := NewConfiguration()
	if err := RegisterSingleton[testClock, *fixedClock](cfg); err != nil {
		b.Fatal(err)
	}
	if err := RegisterTransient[testStore, *memStore](cfg, WithConstructor(newMemStore)); err != nil {
		b.Fatal(err)
	}
	if err := RegisterTransient[testService, *serviceImpl](cfg, WithConstructor(newServiceImpl)); err != nil {
		b.Fatal(err)
	}
	return cfg
}

func BenchmarkResolveSingleton(b *testing.B) {
	p := NewDependencyProvider(benchmarkConfiguration(b))

	for i := 0; i < b.N; i++ {
		_ = MustResolve[testClock](p)
	}
}

func BenchmarkResolveGraph(b *testing.B) {
	p := NewDependencyProvider(benchmarkConfiguration(b))

	for i := 0; i < b.N; i++ {
		_ = MustResolve[testService](p)
	}
}

func BenchmarkResolveOpenGeneric(b *testing.B) {
	cfg := NewConfiguration()
	_ = RegisterSingleton[testClock, *fixedClock](cfg)
	_ = RegisterSingleton[*order, *order](cfg)
	_ = cfg.Register(repositoryOf, memRepositoryOf, Transient,
		WithFactory([]Type{TypeOf[testClock](), TypeParameter("T")}, buildMemRepository))
	p := NewDependencyProvider(cfg)
	orders := repositoryOf.Of(TypeOf[*order]())

	for i := 0; i < b.N; i++ {
		_, _ = p.ResolveType(orders)
	}
}
