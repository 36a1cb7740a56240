package manifest

import (
	"context"
	"errors"

	"go.trai.ch/bowersync/internal/core/domain"
	"go.trai.ch/zerr"
)

// UpdatePackageInfo changes the version and/or the dependency type of a
// declared package. It fails with domain.ErrNoUpdateData when update carries
// no data, without touching storage, or when name is not declared.
func (e *Engine) UpdatePackageInfo(ctx context.Context, name string, update domain.PackageUpdate) error {
	if update.IsEmpty() {
		return domain.ErrNoUpdateData
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	content, err := e.readContent(ctx)
	if err != nil {
		return err
	}

	current, currentType, ok := content.Lookup(name)
	if !ok {
		return errors.Join(domain.ErrNoUpdateData,
			zerr.With(zerr.New("package is not declared"), "package", name))
	}

	if update.Version != nil && *update.Version != "" {
		current = *update.Version
		content.Set(currentType, name, current)
	}

	if update.DependencyType != nil {
		target := *update.DependencyType
		if _, ok := content.Mapping(target, false)[name]; !ok {
			content.Set(target, name, current)
			delete(content.Mapping(currentType, false), name)
		}
	}

	return e.persist(ctx, content)
}

// AddDependencyToProduction declares name at version in "dependencies".
func (e *Engine) AddDependencyToProduction(ctx context.Context, name, version string) error {
	return e.addDependency(ctx, domain.Production, name, version)
}

// AddDependencyToDevelopment declares name at version in "devDependencies".
func (e *Engine) AddDependencyToDevelopment(ctx context.Context, name, version string) error {
	return e.addDependency(ctx, domain.Development, name, version)
}

// addDependency overwrites any prior value in the target mapping. An entry
// under the other mapping is left for the caller to remove.
func (e *Engine) addDependency(ctx context.Context, depType domain.DependencyType, name, version string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	content, err := e.readContent(ctx)
	if err != nil {
		return err
	}
	content.Set(depType, name, version)
	return e.persist(ctx, content)
}

// RemoveDependency deletes name from "dependencies", or from "devDependencies"
// when it is not a production dependency. The manifest is saved even when
// name is declared nowhere.
func (e *Engine) RemoveDependency(ctx context.Context, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	content, err := e.readContent(ctx)
	if err != nil {
		return err
	}
	content.Remove(name)
	return e.persist(ctx, content)
}

// SyncDependencies applies diff to the manifest in one read-modify-write
// cycle. It fails with domain.ErrNothingToSync, without touching storage,
// when diff is nil or empty.
func (e *Engine) SyncDependencies(ctx context.Context, diff *domain.SyncDiff) (*domain.SyncResult, error) {
	if diff.IsEmpty() {
		return nil, domain.ErrNothingToSync
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	content, err := e.readContent(ctx)
	if err != nil {
		return nil, err
	}
	e.applyDiff(content, diff)
	if err := e.persist(ctx, content); err != nil {
		return nil, err
	}

	return &domain.SyncResult{
		Removed:   diff.Missing,
		Installed: diff.Untracked,
		Updated:   diff.VersionOutOfSync,
	}, nil
}

// PreviewSync returns the serialized manifest before and after applying diff,
// without saving anything.
func (e *Engine) PreviewSync(ctx context.Context, diff *domain.SyncDiff) (before, after []byte, err error) {
	if diff.IsEmpty() {
		return nil, nil, domain.ErrNothingToSync
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	content, err := e.readContent(ctx)
	if err != nil {
		return nil, nil, err
	}
	if before, err = e.doc.Encode(content); err != nil {
		return nil, nil, err
	}
	e.applyDiff(content, diff)
	if after, err = e.doc.Encode(content); err != nil {
		return nil, nil, err
	}
	return before, after, nil
}

// applyDiff removes missing packages, adds untracked ones to "dependencies"
// unless already declared there, and rewrites out-of-sync versions in the
// mapping matching each package's classification.
func (e *Engine) applyDiff(content *domain.Manifest, diff *domain.SyncDiff) {
	for _, pkg := range diff.Missing {
		content.Remove(pkg.Name)
	}

	deps := content.Mapping(domain.Production, len(diff.Untracked) > 0)
	for _, pkg := range diff.Untracked {
		if _, ok := deps[pkg.Name]; !ok {
			deps[pkg.Name] = domain.DefaultSemverVersion(pkg.Version, e.rangeOperator)
		}
	}

	for _, pkg := range diff.VersionOutOfSync {
		content.Set(pkg.Type, pkg.Name, pkg.Version)
	}
}

// LoadAllDependencies reads the manifest and refreshes the cache when its
// dependencies changed, reporting whether they did. On failure the cache is
// emptied and the error returned.
func (e *Engine) LoadAllDependencies(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	content, err := e.readContent(ctx)
	if err != nil {
		e.cache.Reset()
		return false, err
	}

	changed := e.cache.HasChanged(content)
	if changed {
		e.cache.Refresh(content)
	}
	return changed, nil
}

// OnContentChanged reloads the dependencies after the manifest changed on disk.
func (e *Engine) OnContentChanged(ctx context.Context) (bool, error) {
	return e.LoadAllDependencies(ctx)
}
