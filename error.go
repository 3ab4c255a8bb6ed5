package dicontainer

import (
	"errors"
	"fmt"
)

// Error kinds. A *DependencyError matches its kind with errors.Is.
var (
	ErrInvalidRegistration      = errors.New("invalid registration")
	ErrUnregisteredDependency   = errors.New("dependency was not registered")
	ErrGenericParameterMismatch = errors.New("generic parameter mismatch")
	ErrUnsupportedLifetime      = errors.New("unsupported lifetime")
	ErrCyclicDependency         = errors.New("cyclic dependency")
	ErrAmbiguousBinding         = errors.New("ambiguous binding")
	ErrConstructionFailed       = errors.New("construction failed")
)

// DependencyError is returned for every registration and resolution failure. Status
// holds a dump of the registry or provider when it helps explain the failure.
type DependencyError struct {
	Kind           error
	Message        string
	ReferencedType Type
	Status         string
	SourceError    error
}

func (e *DependencyError) Error() string {
	if e.SourceError == nil {
		return fmt.Sprintf("%s: %v", e.Message, e.ReferencedType)
	} else {
		return fmt.Sprintf("%s: %v (%v)", e.Message, e.ReferencedType, e.Unwrap().Error())
	}
}

func (e *DependencyError) Unwrap() error {
	return e.SourceError
}

func (e *DependencyError) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}
