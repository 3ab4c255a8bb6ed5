package dicontainer

import (
	"fmt"
	"strings"
)

// Lifetime governs how often an implementation is constructed.
type Lifetime int

const (
	// Transient builds a new instance on every resolution.
	Transient Lifetime = iota

	// Singleton builds at most one instance per implementation for the life of the
	// provider and hands the same instance out afterwards.
	Singleton
)

func (l Lifetime) String() string {
	switch l {
	case Transient:
		return "transient"
	case Singleton:
		return "singleton"
	}
	return fmt.Sprintf("lifetime(%d)", int(l))
}

func (l Lifetime) valid() bool {
	return l == Transient || l == Singleton
}

// ParseLifetime converts "transient" or "singleton" (any case) into a Lifetime.
func ParseLifetime(s string) (Lifetime, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "transient":
		return Transient, nil
	case "singleton":
		return Singleton, nil
	}
	return 0, fmt.Errorf("unknown lifetime %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Lifetime) MarshalText() ([]byte, error) {
	if !l.valid() {
		return nil, fmt.Errorf("unknown lifetime %d", int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so manifests can spell
// lifetimes out by name.
func (l *Lifetime) UnmarshalText(text []byte) error {
	parsed, err := ParseLifetime(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
