package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// DependencyType tells which manifest mapping a package belongs to.
type DependencyType uint8

const (
	// Production places the package in "dependencies".
	Production DependencyType = iota
	// Development places the package in "devDependencies".
	Development
)

// String returns the lower-case name of the dependency type.
func (t DependencyType) String() string {
	switch t {
	case Production:
		return "production"
	case Development:
		return "development"
	default:
		return "unknown"
	}
}

// MarshalText encodes the dependency type by name.
func (t DependencyType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a dependency type name.
func (t *DependencyType) UnmarshalText(text []byte) error {
	parsed, err := ParseDependencyType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseDependencyType parses "production"/"prod" or "development"/"dev".
func ParseDependencyType(s string) (DependencyType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "production", "prod":
		return Production, nil
	case "development", "dev":
		return Development, nil
	default:
		return 0, zerr.With(ErrUnknownDependencyType, "type", s)
	}
}

// Package is a resolved (installed) package as reported by the package source.
type Package struct {
	// Name is the unique package name.
	Name string `json:"name"`
	// Version is the resolved version, or the declared range for packages that are only declared.
	Version string `json:"version"`
	// Type is the package's production/development classification.
	Type DependencyType `json:"type"`
}

// IsProductionDependency reports whether the package belongs in "dependencies".
func (p Package) IsProductionDependency() bool {
	return p.Type == Production
}

// PackageUpdate carries the optional fields of a package info update.
// A nil field is left untouched.
type PackageUpdate struct {
	Version        *string
	DependencyType *DependencyType
}

// IsEmpty reports whether the update carries no data.
func (u PackageUpdate) IsEmpty() bool {
	return (u.Version == nil || *u.Version == "") && u.DependencyType == nil
}
