// Package skill holds the skill registry, the system prompt listing built
// from it, and the load_skill tool that returns a skill's full content.
//
// A Registry is immutable once built. It is shared by reference between the
// prompt augmenter and the tool, and read concurrently without locking.
package skill

import (
	"fmt"
	"strings"
)

// Skill is a named reference document the agent can list or load.
type Skill struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Content     string `yaml:"content"`
}

// Registry is an ordered, read-only collection of skills.
type Registry struct {
	skills []Skill
}

// NewRegistry builds a registry in the given order. Names must be non-blank
// and unique; the first offending entry is reported.
func NewRegistry(skills ...Skill) (*Registry, error) {
	seen := make(map[string]int, len(skills))
	for i, s := range skills {
		if strings.TrimSpace(s.Name) == "" {
			return nil, fmt.Errorf("skill #%d: name is required", i+1)
		}
		if prev, dup := seen[s.Name]; dup {
			return nil, fmt.Errorf("skill %q: duplicate name (entries #%d and #%d)", s.Name, prev+1, i+1)
		}
		seen[s.Name] = i
	}

	cp := make([]Skill, len(skills))
	copy(cp, skills)
	return &Registry{skills: cp}, nil
}

// Find returns the skill whose name matches exactly (case-sensitive).
// When several match, the first in registry order wins.
func (r *Registry) Find(name string) (Skill, bool) {
	if r == nil {
		return Skill{}, false
	}
	for _, s := range r.skills {
		if s.Name == name {
			return s, true
		}
	}
	return Skill{}, false
}

// All returns a copy of the skills in registry order.
func (r *Registry) All() []Skill {
	if r == nil {
		return nil
	}
	cp := make([]Skill, len(r.skills))
	copy(cp, r.skills)
	return cp
}

// Names returns the skill names in registry order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, len(r.skills))
	for i, s := range r.skills {
		names[i] = s.Name
	}
	return names
}

// Len reports the number of skills.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.skills)
}
