package domain

import "maps"

// DependencySnapshot mirrors the dependency mappings of the last loaded manifest.
type DependencySnapshot struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// EmptySnapshot returns a snapshot with two empty mappings.
func EmptySnapshot() DependencySnapshot {
	return DependencySnapshot{
		Dependencies:    map[string]string{},
		DevDependencies: map[string]string{},
	}
}

// Equal compares both mappings by key set and value. A nil mapping equals an empty one.
func (s DependencySnapshot) Equal(other DependencySnapshot) bool {
	return maps.Equal(s.Dependencies, other.Dependencies) &&
		maps.Equal(s.DevDependencies, other.DevDependencies)
}

// Clone returns a deep copy with absent mappings defaulted to empty.
func (s DependencySnapshot) Clone() DependencySnapshot {
	return DependencySnapshot{
		Dependencies:    cloneMapping(s.Dependencies),
		DevDependencies: cloneMapping(s.DevDependencies),
	}
}

// Lookup returns the declared version of name and its mapping.
func (s DependencySnapshot) Lookup(name string) (string, DependencyType, bool) {
	if v, ok := s.Dependencies[name]; ok {
		return v, Production, true
	}
	if v, ok := s.DevDependencies[name]; ok {
		return v, Development, true
	}
	return "", Production, false
}
