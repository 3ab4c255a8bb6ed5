package dicontainer

import (
	"fmt"

	"github.com/samber/lo"
)

// bindParameter turns a declared parameter of an open generic implementation into a
// concrete type for the closed contract being resolved. The placeholder is looked up
// by name among the parameters of the contract's definition and replaced with the
// argument at the same position. A name the definition does not declare is an error.
// Concrete parameters are returned unchanged.
func bindParameter(contract, param Type) (Type, error) {
	if param.many && param.param != nil {
		elem, err := bindParameter(contract, param.Elem())
		if err != nil {
			return Type{}, err
		}
		return ManyOf(elem), nil
	}
	if !param.IsParameter() {
		return param, nil
	}

	if idx := lo.IndexOf(contract.generic.params, param.param.name); idx >= 0 && idx < len(contract.args) {
		return contract.args[idx], nil
	}
	return Type{}, &DependencyError{
		Kind:           ErrGenericParameterMismatch,
		Message:        fmt.Sprintf("type parameter %s is not declared by %v", param.param.name, contract.Definition()),
		ReferencedType: contract,
	}
}

// bindParameters binds every declared parameter of impl against contract.
func bindParameters(contract Type, params []Type) ([]Type, error) {
	bound := make([]Type, len(params))
	for i, p := range params {
		b, err := bindParameter(contract, p)
		if err != nil {
			return nil, err
		}
		bound[i] = b
	}
	return bound, nil
}
