package dicontainer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindParameter(t *testing.T) {
	pairOf := GenericContract("Pair", "K", "V")
	pair := pairOf.Of(TypeOf[*order](), TypeOf[*customer]())

	bound, err := bindParameter(pair, TypeParameter("V"))
	require.NoError(t, err)
	assert.True(t, bound.Equal(TypeOf[*customer]()))

	bound, err = bindParameter(pair, TypeParameter("K"))
	require.NoError(t, err)
	assert.True(t, bound.Equal(TypeOf[*order]()))

	// concrete parameters pass through
	bound, err = bindParameter(pair, TypeOf[testClock]())
	require.NoError(t, err)
	assert.True(t, bound.Equal(TypeOf[testClock]()))

	bound, err = bindParameter(pair, ManyOf(TypeParameter("V")))
	require.NoError(t, err)
	assert.True(t, bound.Equal(ManyOf(TypeOf[*customer]())))
}

func TestBindParameter_UndeclaredName(t *testing.T) {
	pair := GenericContract("Pair", "K", "V").Of(TypeOf[*order](), TypeOf[*customer]())

	_, err := bindParameter(pair, TypeParameter("Key"))
	assert.ErrorIs(t, err, ErrGenericParameterMismatch)

	bound, err := bindParameter(pair, ManyOf(TypeParameter("X")))
	assert.ErrorIs(t, err, ErrGenericParameterMismatch)
	assert.True(t, bound.IsZero())
}

func TestBindParameter_Mismatch(t *testing.T) {
	pair := GenericContract("Pair", "K", "V").Of(TypeOf[*order](), TypeOf[*customer]())

	_, err := bindParameter(pair, TypeParameter("X"))
	assert.ErrorIs(t, err, ErrGenericParameterMismatch)
	assert.Contains(t, err.Error(), "type parameter X is not declared by Pair[K, V]")

	_, err = bindParameters(pair, []Type{TypeParameter("K"), TypeParameter("X")})
	assert.ErrorIs(t, err, ErrGenericParameterMismatch)

	params, err := bindParameters(pair, []Type{TypeParameter("V"), TypeParameter("K")})
	require.NoError(t, err)
	assert.Equal(t, []Type{TypeOf[*customer](), TypeOf[*order]()}, params)
}
