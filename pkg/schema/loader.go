package schema

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// document mirrors the YAML layout of a catalogue file.
type document struct {
	Fieldsets []Fieldset `yaml:"fieldsets"`
	Fields    []Field    `yaml:"fields"`
}

// Parse decodes a YAML catalogue document and builds a validated Registry.
func Parse(raw []byte) (*Registry, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("schema: decode catalogue: %w", err)
	}
	return New(doc.Fieldsets, doc.Fields)
}

// Load reads a catalogue from r and builds a Registry.
func Load(r io.Reader) (*Registry, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("schema: read catalogue: %w", err)
	}
	return Parse(raw)
}

// LoadFile reads a catalogue document from disk.
func LoadFile(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read catalogue %q: %w", path, err)
	}
	return Parse(raw)
}

// LoadFS reads a catalogue document from an fs.FS, typically an embedded one.
func LoadFS(fsys fs.FS, path string) (*Registry, error) {
	raw, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("schema: read catalogue %q: %w", path, err)
	}
	return Parse(raw)
}
