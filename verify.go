package dicontainer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// VerificationError lists every problem Verify found in a registry.
type VerificationError struct {
	Problems []string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("configuration has %d problem(s):\n  - %s", len(e.Problems), strings.Join(e.Problems, "\n  - "))
}

// Verify walks every binding without building anything. Each declared constructor
// parameter has to be resolvable from the registry, type parameters of generic
// families have to be declared by their contract, and no contract may depend on
// itself. Everything found is returned in a single *VerificationError.
func (c *Configuration) Verify() error {
	var problems []string
	graph := map[string][]string{}
	names := map[string]Type{}

	for _, b := range c.bindings {
		from := b.Contract.Key()
		names[from] = b.Contract
		for _, impl := range b.Implementations {
			for _, param := range impl.Params {
				dep, problem := c.verifyParameter(b.Contract, impl, param)
				if problem != "" {
					problems = append(problems, problem)
					continue
				}
				if dep.IsZero() {
					continue
				}
				graph[from] = append(graph[from], dep.Key())
				names[dep.Key()] = dep
			}
		}
	}

	problems = append(problems, findCycles(graph, names)...)
	if len(problems) == 0 {
		return nil
	}
	problems = lo.Uniq(problems)
	sort.Strings(problems)
	return &VerificationError{Problems: problems}
}

// verifyParameter returns the contract of the binding param resolves through. The
// result is zero when param is a type parameter that only gets its type at
// resolution time.
func (c *Configuration) verifyParameter(contract Type, impl *Implementation, param Type) (Type, string) {
	if param.IsParameter() {
		name := param.param.name
		if contract.generic != nil && lo.Contains(contract.generic.params, name) {
			return Type{}, ""
		}
		return Type{}, fmt.Sprintf("%v needs type parameter %s, which %v does not declare", impl.Type, name, contract)
	}
	if param.IsMany() {
		param = param.Elem()
	}

	if b, ok := c.index[param.Key()]; ok {
		return b.Contract, ""
	}
	if closed, ok := c.closed[param.goType]; ok && param.goType != nil {
		if b, ok := c.index[closed.Key()]; ok {
			return b.Contract, ""
		}
		param = closed
	}
	if param.IsClosed() {
		if b, ok := c.index[param.Definition().Key()]; ok {
			return b.Contract, ""
		}
	}
	return Type{}, fmt.Sprintf("%v needs %v, which is not registered", impl.Type, param)
}

// findCycles reports every cycle among the bindings, each listed once per starting
// point found by a walk in key order.
func findCycles(graph map[string][]string, names map[string]Type) []string {
	const (
		unvisited = iota
		visiting
		done
	)
	state := map[string]int{}
	var stack []string
	var cycles []string

	var visit func(key string)
	visit = func(key string) {
		state[key] = visiting
		stack = append(stack, key)
		for _, dep := range graph[key] {
			switch state[dep] {
			case visiting:
				loop := append(append([]string(nil), stack[lo.IndexOf(stack, dep):]...), dep)
				cycles = append(cycles, "cyclic dependency: "+strings.Join(lo.Map(loop, func(k string, _ int) string {
					return names[k].String()
				}), " -> "))
			case unvisited:
				visit(dep)
			}
		}
		stack = stack[:len(stack)-1]
		state[key] = done
	}

	keys := lo.Keys(graph)
	sort.Strings(keys)
	for _, key := range keys {
		if state[key] == unvisited {
			visit(key)
		}
	}
	return cycles
}
