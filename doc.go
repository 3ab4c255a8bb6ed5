// Package dicontainer provides a runtime dependency injection container. Contracts,
// usually interfaces, are bound to one or more concrete implementations in a
// Configuration, each with a Transient or Singleton lifetime. A DependencyProvider then
// builds whole object graphs on request, finding each implementation's constructor
// parameters in the Configuration and building them first.
//
// Asking for a slice of a contract builds every implementation of it, in the order they
// were registered. Generic families that Go cannot instantiate at runtime are described
// with GenericContract and GenericImplementation and built by explicit factories; one
// open registration then serves every closed instantiation of the contract.
//
// The DependencyProvider object has comprehensive documentation about how it works.
//
// There are also generic helper functions, such as Resolve and RegisterSingleton, that
// make using this more concise.
package dicontainer
