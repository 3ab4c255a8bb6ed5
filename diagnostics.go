package dicontainer

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Status is a diagnostic tool that returns a string describing the registry. The
// result is one line per registered implementation, sorted by contract, with its
// lifetime and how it is built.
func (c *Configuration) Status() string {
	var lines []string
	for _, b := range c.bindings {
		for i, impl := range b.Implementations {
			lines = append(lines, fmt.Sprintf("%v - %d: %v (%v) - constructor: %s", b.Contract, i, impl.Type, impl.Lifetime, impl.describe()))
		}
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}

// Status returns one line per instance the provider has built, in construction order.
// Singletons that are still cached are marked as such.
func (p *DependencyProvider) Status() string {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.status()
}

func (p *DependencyProvider) status() string {
	result := strings.Builder{}
	for _, r := range p.ledger.records {
		if result.Len() > 0 {
			result.WriteString("\n")
		}
		if r.Instance.IsPresent() {
			result.WriteString(fmt.Sprintf("%v as %v - cached singleton", r.Implementation, r.Contract))
		} else {
			result.WriteString(fmt.Sprintf("%v as %v - transient", r.Implementation, r.Contract))
		}
	}
	return result.String()
}

// describe renders how an implementation is built.
func (impl *Implementation) describe() string {
	switch {
	case impl.builder != nil:
		names := make([]string, len(impl.Params))
		for i, p := range impl.Params {
			names[i] = p.String()
		}
		return "factory(" + strings.Join(names, ", ") + ")"
	case impl.constructor.IsValid():
		return formatConstructorDebug(impl.constructor.Type())
	}
	return "-"
}

// formatConstructorDebug simply returns a string representation of a constructor. This is
// used instead of the native `%#v` formatter to not return the raw address of the function
// as that's not important for this and simplifies testing.
func formatConstructorDebug(fnType reflect.Type) string {
	if fnType.Kind() != reflect.Func {
		return "non-function!"
	}
	builder := strings.Builder{}
	builder.WriteString("(")
	for i := 0; i < fnType.NumIn(); i++ {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(fnType.In(i).String())
	}
	builder.WriteString(") ")
	for i := 0; i < fnType.NumOut(); i++ {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(fnType.Out(i).String())
	}
	return builder.String()
}
