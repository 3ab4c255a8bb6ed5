package manifest

import (
	"fmt"
	"strings"

	"github.com/gburgyan/go-dicontainer"
	"github.com/samber/lo"
)

// Lint checks a manifest on its own, without a catalog. It reports missing names,
// implementations declared twice for a contract, needs that no binding declares, and
// contracts that need themselves.
func (m *Manifest) Lint() error {
	ve := &ValidationError{}

	contracts := lo.Map(m.Bindings, func(b BindingSpec, _ int) string { return b.Contract })
	for _, dup := range lo.FindDuplicates(lo.Compact(contracts)) {
		ve.Addf("contract %q is declared more than once", dup)
	}

	for i, b := range m.Bindings {
		if b.Contract == "" {
			ve.Addf("binding %d has no contract", i)
			continue
		}
		if len(b.Implementations) == 0 {
			ve.Addf("contract %q has no implementations", b.Contract)
		}
		types := lo.Map(b.Implementations, func(impl ImplementationSpec, _ int) string { return impl.Type })
		for _, dup := range lo.FindDuplicates(lo.Compact(types)) {
			ve.Addf("implementation %q is declared more than once for %q", dup, b.Contract)
		}
		for j, impl := range b.Implementations {
			if impl.Type == "" {
				ve.Addf("implementation %d of %q has no type", j, b.Contract)
				continue
			}
			for _, need := range impl.Needs {
				name, _ := splitNeed(need)
				if !lo.Contains(contracts, name) {
					ve.Addf("%s needs %q, which no binding declares", impl.Type, name)
				}
			}
		}
	}

	for _, cycle := range m.cycles() {
		ve.Addf("cyclic dependency: %s", strings.Join(cycle, " -> "))
	}

	return ve.ToError()
}

// cycles walks the needs graph in declaration order.
func (m *Manifest) cycles() [][]string {
	const (
		unvisited = iota
		visiting
		done
	)
	state := map[string]int{}
	var stack []string
	var found [][]string

	var visit func(contract string)
	visit = func(contract string) {
		state[contract] = visiting
		stack = append(stack, contract)
		b, _ := m.Binding(contract)
		for _, impl := range b.Implementations {
			for _, need := range impl.Needs {
				name, _ := splitNeed(need)
				if _, ok := m.Binding(name); !ok {
					continue
				}
				switch state[name] {
				case visiting:
					found = append(found, append(append([]string(nil), stack[lo.IndexOf(stack, name):]...), name))
				case unvisited:
					visit(name)
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[contract] = done
	}

	for _, b := range m.Bindings {
		if state[b.Contract] == unvisited {
			visit(b.Contract)
		}
	}
	return found
}

// Step is one construction in a plan.
type Step struct {
	Contract       string
	Implementation string
	Lifetime       dicontainer.Lifetime
}

func (s Step) String() string {
	return fmt.Sprintf("%s <- %s (%v)", s.Contract, s.Implementation, s.Lifetime)
}

// Plan lists, dependencies first, the constructions a provider performs for the first
// request of contract. Every implementation of a contract is built whether one or all
// of them are asked for, so a "[]" prefix plans the same steps. Singletons appear once;
// transients appear every time they are needed.
func (m *Manifest) Plan(contract string) ([]Step, error) {
	planner := &planner{
		manifest:  m,
		built:     map[string]bool{},
		inProcess: map[string]bool{},
	}
	if err := planner.plan(contract); err != nil {
		return nil, err
	}
	return planner.steps, nil
}

type planner struct {
	manifest  *Manifest
	steps     []Step
	built     map[string]bool
	inProcess map[string]bool
}

func (p *planner) plan(need string) error {
	name, _ := splitNeed(need)
	b, ok := p.manifest.Binding(name)
	if !ok || len(b.Implementations) == 0 {
		return fmt.Errorf("contract %q is not declared: %w", name, dicontainer.ErrUnregisteredDependency)
	}
	if p.inProcess[name] {
		return fmt.Errorf("contract %q needs itself: %w", name, dicontainer.ErrCyclicDependency)
	}
	p.inProcess[name] = true
	defer delete(p.inProcess, name)

	for _, impl := range b.Implementations {
		if impl.Lifetime == dicontainer.Singleton && p.built[impl.Type] {
			continue
		}
		for _, dep := range impl.Needs {
			if err := p.plan(dep); err != nil {
				return err
			}
		}
		if impl.Lifetime == dicontainer.Singleton {
			p.built[impl.Type] = true
		}
		p.steps = append(p.steps, Step{Contract: name, Implementation: impl.Type, Lifetime: impl.Lifetime})
	}
	return nil
}
