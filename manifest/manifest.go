// Package manifest declares dicontainer bindings in YAML or TOML files. A manifest names
// contracts and implementations; a Catalog maps those names to the Go types and
// constructors that Apply registers.
package manifest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gburgyan/go-dicontainer"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Manifest is the declared set of bindings, in registration order.
type Manifest struct {
	Bindings []BindingSpec `yaml:"bindings" toml:"bindings"`
}

// BindingSpec binds one contract to its implementations.
type BindingSpec struct {
	Contract        string               `yaml:"contract" toml:"contract"`
	Implementations []ImplementationSpec `yaml:"implementations" toml:"implementations"`
}

// ImplementationSpec is one implementation of a contract. Needs lists the contracts its
// constructor takes; a name prefixed with "[]" asks for every implementation.
type ImplementationSpec struct {
	Type     string               `yaml:"type" toml:"type"`
	Lifetime dicontainer.Lifetime `yaml:"lifetime" toml:"lifetime"`
	Needs    []string             `yaml:"needs,omitempty" toml:"needs,omitempty"`
}

// Format is the encoding of a manifest file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFor picks the format from the file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("unsupported manifest extension %q", filepath.Ext(path))
}

// Load reads and parses a manifest file, choosing the format from its extension.
// Environment variables in the format ${VAR_NAME} are expanded before parsing.
func Load(path string) (m *Manifest, err error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest %s: %w", path, err)
	}

	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close manifest: %w", cerr)
		}
	}()

	return LoadFromReader(file, format)
}

// LoadFromReader reads and parses a manifest in the given format.
// Environment variables in the format ${VAR_NAME} are expanded before parsing.
func LoadFromReader(r io.Reader, format Format) (*Manifest, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	expanded := []byte(os.ExpandEnv(string(content)))

	var m Manifest
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(expanded, &m); err != nil {
			return nil, fmt.Errorf("failed to parse manifest YAML: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(expanded, &m); err != nil {
			return nil, fmt.Errorf("failed to parse manifest TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported manifest format %q", format)
	}

	return &m, nil
}

// Binding returns the binding declared for contract.
func (m *Manifest) Binding(contract string) (BindingSpec, bool) {
	for _, b := range m.Bindings {
		if b.Contract == contract {
			return b, true
		}
	}
	return BindingSpec{}, false
}

// splitNeed separates the "[]" prefix that asks for every implementation.
func splitNeed(need string) (string, bool) {
	if name, ok := strings.CutPrefix(need, "[]"); ok {
		return name, true
	}
	return need, false
}
