package dicontainer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCycleChecker(t *testing.T) {
	p := NewDependencyProvider(NewConfiguration())
	checker := newCycleChecker()

	leaveClock, err := p.enterContract(checker, TypeOf[testClock]())
	require.NoError(t, err)
	leaveStore, err := p.enterContract(checker, TypeOf[testStore]())
	require.NoError(t, err)

	_, err = p.enterContract(checker, TypeOf[testClock]())
	require.ErrorIs(t, err, ErrCyclicDependency)
	assert.Contains(t, err.Error(), "dicontainer.testClock -> dicontainer.testStore -> dicontainer.testClock")

	leaveStore()
	leaveClock()
	assert.Empty(t, checker.path)

	leave, err := p.enterContract(checker, TypeOf[testClock]())
	require.NoError(t, err)
	leave()
}

func TestCycleChecker_Describe(t *testing.T) {
	checker := newCycleChecker()
	checker.path = []Type{TypeOf[testService](), TypeOf[testStore](), TypeOf[testClock]()}

	assert.Equal(t, "dicontainer.testStore -> dicontainer.testClock -> dicontainer.testStore", checker.describe(TypeOf[testStore]()))
}
