package skill

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// file is the on-disk shape of a skills file:
//
//	skills:
//	  - name: sales_analytics
//	    description: one line shown in the system prompt
//	    content: |-
//	      full text returned by load_skill
type file struct {
	Skills []Skill `yaml:"skills"`
}

// Parse decodes a skills YAML document into a Registry. Unknown keys are
// rejected so a typo like "desciption" fails loudly instead of producing an
// empty listing line.
func Parse(data []byte) (*Registry, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f file
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("skill: parse: %w", err)
	}
	for i, s := range f.Skills {
		if s.Description == "" {
			return nil, fmt.Errorf("skill %q (#%d): description is required", s.Name, i+1)
		}
	}
	return NewRegistry(f.Skills...)
}

// LoadFile reads and parses the skills file at path.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("skill: read %q: %w", path, err)
	}
	reg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// Default returns the built-in registry (sales_analytics, inventory_management).
func Default() *Registry {
	reg, err := Parse(defaultsYAML)
	if err != nil {
		panic(fmt.Sprintf("skill: embedded defaults are invalid: %v", err))
	}
	return reg
}

// Load returns the registry from path, or the built-in one when path is empty.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}
