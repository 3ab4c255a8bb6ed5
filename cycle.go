package dicontainer

import (
	"strings"
)

type unlocker func()

// cycleChecker tracks the contracts that are being built by one top-level resolution.
// The provider lock is held for the whole resolution so the checker needs none.
type cycleChecker struct {
	inProcess map[string]bool
	path      []Type
}

func newCycleChecker() *cycleChecker {
	return &cycleChecker{inProcess: map[string]bool{}}
}

func (p *DependencyProvider) enterContract(checker *cycleChecker, contract Type) (unlocker, error) {
	key := contract.Key()
	if checker.inProcess[key] {
		return func() {}, &DependencyError{
			Kind:           ErrCyclicDependency,
			Message:        "cyclic dependency " + checker.describe(contract),
			ReferencedType: contract,
			Status:         p.status(),
		}
	}
	checker.inProcess[key] = true
	checker.path = append(checker.path, contract)

	return func() {
		delete(checker.inProcess, key)
		checker.path = checker.path[:len(checker.path)-1]
	}, nil
}

// describe renders the path from the first occurrence of contract back to itself.
func (c *cycleChecker) describe(contract Type) string {
	start := 0
	for i, t := range c.path {
		if t.Equal(contract) {
			start = i
			break
		}
	}
	b := strings.Builder{}
	for _, t := range c.path[start:] {
		b.WriteString(t.String())
		b.WriteString(" -> ")
	}
	b.WriteString(contract.String())
	return b.String()
}
