package dicontainer

import (
	"reflect"
	"sync"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// constructorInfo caches expensive reflection operations for a constructor type
type constructorInfo struct {
	params   []reflect.Type
	result   reflect.Type
	hasError bool
	variadic bool
	// valid is false when the function does not return (T) or (T, error)
	valid bool
}

// Global type cache to avoid repeated reflection operations. The entries are a pure
// function of the Go type, so sharing them between containers is safe.
var globalConstructorCache sync.Map // map[reflect.Type]*constructorInfo

// getConstructorInfo returns cached constructor information, computing it if necessary
func getConstructorInfo(t reflect.Type) *constructorInfo {
	if cached, ok := globalConstructorCache.Load(t); ok {
		return cached.(*constructorInfo)
	}

	info := &constructorInfo{
		variadic: t.IsVariadic(),
	}

	info.params = make([]reflect.Type, t.NumIn())
	for i := 0; i < t.NumIn(); i++ {
		info.params[i] = t.In(i)
	}

	switch t.NumOut() {
	case 1:
		info.result = t.Out(0)
		info.valid = !info.result.AssignableTo(errorType)
	case 2:
		info.result = t.Out(0)
		info.hasError = t.Out(1) == errorType
		info.valid = info.hasError
	}

	// Store in cache
	actual, _ := globalConstructorCache.LoadOrStore(t, info)
	return actual.(*constructorInfo)
}

// assignCache caches which concrete types can be assigned to which contract types
type assignCache struct {
	mu    sync.RWMutex
	cache map[assignCacheKey]bool
}

type assignCacheKey struct {
	concrete reflect.Type
	contract reflect.Type
}

var globalAssignCache = &assignCache{
	cache: make(map[assignCacheKey]bool),
}

// canAssign checks if concrete type can be assigned to the contract type, with caching
func canAssign(concrete, contract reflect.Type) bool {
	if concrete == contract {
		return true
	}

	key := assignCacheKey{concrete: concrete, contract: contract}

	// Fast path: check cache
	globalAssignCache.mu.RLock()
	if result, ok := globalAssignCache.cache[key]; ok {
		globalAssignCache.mu.RUnlock()
		return result
	}
	globalAssignCache.mu.RUnlock()

	// Slow path: compute and cache
	result := concrete.AssignableTo(contract)

	globalAssignCache.mu.Lock()
	globalAssignCache.cache[key] = result
	globalAssignCache.mu.Unlock()

	return result
}
