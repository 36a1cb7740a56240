// Package components lists the packages installed in a bower components directory.
package components

import (
	"context"
	"encoding/json"
	"errors"
	iofs "io/fs"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/bowersync/internal/core/domain"
	"go.trai.ch/bowersync/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.PackageSource = (*Source)(nil)

// componentMeta is the subset of a component's .bower.json that is read.
type componentMeta struct {
	Version string `json:"version"`
	Release string `json:"_release"`
}

// Source implements ports.PackageSource by reading component metadata files.
type Source struct {
	fs ports.FileSystem
}

// NewSource creates a Source reading through fs.
func NewSource(fs ports.FileSystem) *Source {
	return &Source{fs: fs}
}

// Resolve returns one package per component directory in dir, sorted by name.
// A missing components directory means nothing is installed.
func (s *Source) Resolve(
	ctx context.Context,
	dir string,
	declared domain.DependencySnapshot,
) ([]domain.Package, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return []domain.Package{}, nil
		}
		return nil, errors.Join(domain.ErrComponentsScanFailed,
			zerr.With(zerr.Wrap(err, "failed to list components"), "dir", dir))
	}

	packages := make([]domain.Package, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		meta, err := s.readMeta(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, errors.Join(domain.ErrComponentsScanFailed,
				zerr.With(err, "component", entry.Name()))
		}

		version := meta.Version
		if version == "" {
			version = meta.Release
		}
		packages = append(packages, domain.Package{
			Name:    entry.Name(),
			Version: version,
			Type:    classify(entry.Name(), declared),
		})
	}

	slices.SortFunc(packages, func(a, b domain.Package) int {
		return strings.Compare(a.Name, b.Name)
	})
	return packages, nil
}

// readMeta reads .bower.json, falling back to bower.json. A component
// without either file is reported with an empty version.
func (s *Source) readMeta(componentDir string) (componentMeta, error) {
	var meta componentMeta
	for _, name := range []string{domain.ComponentManifestFileName, domain.ManifestFileName} {
		data, err := s.fs.ReadFile(filepath.Join(componentDir, name))
		if err != nil {
			if errors.Is(err, iofs.ErrNotExist) {
				continue
			}
			return meta, zerr.Wrap(err, "failed to read component metadata")
		}
		if err := json.Unmarshal(data, &meta); err != nil {
			return meta, zerr.With(zerr.Wrap(err, "failed to parse component metadata"), "file", name)
		}
		return meta, nil
	}
	return meta, nil
}

// classify follows the manifest: packages declared only in devDependencies are
// development dependencies, everything else is production.
func classify(name string, declared domain.DependencySnapshot) domain.DependencyType {
	if _, depType, ok := declared.Lookup(name); ok {
		return depType
	}
	return domain.Production
}
