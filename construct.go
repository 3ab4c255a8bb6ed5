package dicontainer

import (
	"fmt"
	"reflect"
)

// instantiate builds one instance of impl. For generic families closed is the
// implementation closed over the requested contract's arguments; otherwise it is
// impl.Type. Errors returned and panics raised by constructors are both reported as
// ErrConstructionFailed.
func (impl *Implementation) instantiate(closed Type, args []any) (instance any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &DependencyError{
				Kind:           ErrConstructionFailed,
				Message:        "constructor panicked",
				ReferencedType: closed,
				SourceError:    fmt.Errorf("%v", r),
			}
		}
	}()

	switch {
	case impl.builder != nil:
		instance, err = impl.builder(closed, args)
	case impl.constructor.IsValid():
		instance, err = impl.invokeConstructor(args)
	default:
		instance = defaultInstance(closed.goType)
	}

	if err != nil {
		return nil, &DependencyError{
			Kind:           ErrConstructionFailed,
			Message:        "error running constructor",
			ReferencedType: closed,
			SourceError:    err,
		}
	}
	return instance, nil
}

// invokeConstructor calls the reflective constructor with the resolved arguments.
func (impl *Implementation) invokeConstructor(args []any) (any, error) {
	fnType := impl.constructor.Type()
	params := make([]reflect.Value, len(args))
	for i, arg := range args {
		if arg == nil {
			params[i] = reflect.Zero(fnType.In(i))
		} else {
			params[i] = reflect.ValueOf(arg)
		}
	}

	results := impl.constructor.Call(params)
	return results[0].Interface(), getConstructorError(results)
}

// getConstructorError finds the error result of a constructor call, if it has one.
func getConstructorError(results []reflect.Value) error {
	if len(results) < 2 || results[1].IsNil() {
		return nil
	}
	return results[1].Interface().(error)
}

// defaultInstance builds an implementation that was registered without a
// constructor: a new zero struct for pointer-to-struct types, the zero value otherwise.
func defaultInstance(t reflect.Type) any {
	if t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct {
		return reflect.New(t.Elem()).Interface()
	}
	return reflect.Zero(t).Interface()
}
