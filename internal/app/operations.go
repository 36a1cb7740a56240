package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
	"go.opentelemetry.io/otel/attribute"
	"go.trai.ch/bowersync/internal/core/domain"
	"go.trai.ch/bowersync/internal/engine/reconcile"
	"go.trai.ch/zerr"
)

const diffContext = 3

// InitOptions configures Init.
type InitOptions struct {
	// FromInstalled seeds the manifest with the installed packages.
	FromInstalled bool
	// Force overwrites an existing manifest.
	Force bool
}

// Init creates the manifest.
func (a *App) Init(ctx context.Context, opts Options, initOpts InitOptions) (err error) {
	ctx, done := a.observe(ctx, "init", attribute.Bool("from_installed", initOpts.FromInstalled))
	defer done(&err)

	p, err := a.open(opts)
	if err != nil {
		return err
	}

	exists, err := p.doc.Exists(ctx)
	if err != nil {
		return err
	}
	if exists && !initOpts.Force {
		return errors.Join(domain.ErrManifestExists,
			zerr.With(zerr.New("use --force to overwrite it"), "path", p.doc.Path()))
	}

	var packages []domain.Package
	if initOpts.FromInstalled {
		installed, err := a.source.Resolve(ctx, p.cfg.ComponentsPath(), domain.EmptySnapshot())
		if err != nil {
			return err
		}
		packages = make([]domain.Package, 0, len(installed))
		for _, pkg := range installed {
			pkg.Version = domain.DefaultSemverVersion(pkg.Version, p.cfg.RangeOperator)
			packages = append(packages, pkg)
		}
	}

	if err := p.engine.Create(ctx, packages); err != nil {
		return err
	}

	a.logger.Info(fmt.Sprintf("created %s with %d dependencies", p.doc.Path(), len(packages)))
	return nil
}

// Status loads the manifest and reconciles it against the installed packages.
func (a *App) Status(ctx context.Context, opts Options) (status *domain.Status, err error) {
	ctx, done := a.observe(ctx, "status")
	defer done(&err)

	p, err := a.openExisting(ctx, opts)
	if err != nil {
		return nil, err
	}

	s, err := a.status(ctx, p)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (a *App) status(ctx context.Context, p *project) (domain.Status, error) {
	snapshot := p.engine.GetAllDependencies()
	resolved, err := a.source.Resolve(ctx, p.cfg.ComponentsPath(), snapshot)
	if err != nil {
		return domain.Status{}, err
	}
	return domain.Status{
		Manifest:     p.engine.Path(),
		Dependencies: snapshot,
		Diff:         reconcile.Reconcile(snapshot, resolved),
		UpdatedAt:    a.now(),
	}, nil
}

// SyncOptions configures Sync.
type SyncOptions struct {
	// DryRun computes the change without saving it.
	DryRun bool
}

// SyncReport describes an applied or previewed sync.
type SyncReport struct {
	Result *domain.SyncResult
	// Preview is the unified diff of the manifest. Only set for dry runs.
	Preview string
}

// Sync makes the manifest match the installed packages.
// It fails with domain.ErrNothingToSync when they already match.
func (a *App) Sync(ctx context.Context, opts Options, syncOpts SyncOptions) (report *SyncReport, err error) {
	ctx, done := a.observe(ctx, "sync", attribute.Bool("dry_run", syncOpts.DryRun))
	defer done(&err)

	p, err := a.openExisting(ctx, opts)
	if err != nil {
		return nil, err
	}

	status, err := a.status(ctx, p)
	if err != nil {
		return nil, err
	}
	diff := status.Diff

	if syncOpts.DryRun {
		before, after, err := p.engine.PreviewSync(ctx, &diff)
		if err != nil {
			return nil, err
		}
		preview, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(before)),
			B:        difflib.SplitLines(string(after)),
			FromFile: p.doc.Path(),
			ToFile:   p.doc.Path(),
			Context:  diffContext,
		})
		if err != nil {
			return nil, zerr.Wrap(err, "failed to render sync preview")
		}
		return &SyncReport{
			Result: &domain.SyncResult{
				Removed:   diff.Missing,
				Installed: diff.Untracked,
				Updated:   diff.VersionOutOfSync,
			},
			Preview: preview,
		}, nil
	}

	result, err := p.engine.SyncDependencies(ctx, &diff)
	if err != nil {
		return nil, err
	}

	a.logger.Info(fmt.Sprintf("synced %s: %d removed, %d added, %d updated",
		p.doc.Path(), len(result.Removed), len(result.Installed), len(result.Updated)))
	return &SyncReport{Result: result}, nil
}

// Add declares name in the mapping for depType. A package declared under the
// other mapping is moved, keeping its declared range unless version is given.
// Otherwise an empty version is taken from the installed package, or "*" when
// it is not installed.
func (a *App) Add(ctx context.Context, opts Options, name, version string, depType domain.DependencyType) (err error) {
	ctx, done := a.observe(ctx, "add", attribute.String("package", name))
	defer done(&err)

	p, err := a.openExisting(ctx, opts)
	if err != nil {
		return err
	}

	declared, current, ok := p.engine.GetAllDependencies().Lookup(name)
	if ok && current != depType {
		update := domain.PackageUpdate{DependencyType: &depType}
		if version != "" {
			update.Version = &version
		} else {
			version = declared
		}
		if err := p.engine.UpdatePackageInfo(ctx, name, update); err != nil {
			return err
		}
		a.logger.Info(fmt.Sprintf("moved %s@%s to %s dependencies", name, version, depType))
		return nil
	}

	if version == "" {
		if version, err = a.installedRange(ctx, p, name); err != nil {
			return err
		}
	}
	if depType == domain.Development {
		err = p.engine.AddDependencyToDevelopment(ctx, name, version)
	} else {
		err = p.engine.AddDependencyToProduction(ctx, name, version)
	}
	if err != nil {
		return err
	}

	a.logger.Info(fmt.Sprintf("added %s@%s as a %s dependency", name, version, depType))
	return nil
}

func (a *App) installedRange(ctx context.Context, p *project, name string) (string, error) {
	installed, err := a.source.Resolve(ctx, p.cfg.ComponentsPath(), p.engine.GetAllDependencies())
	if err != nil {
		return "", err
	}
	for _, pkg := range installed {
		if pkg.Name == name {
			return domain.DefaultSemverVersion(pkg.Version, p.cfg.RangeOperator), nil
		}
	}
	return domain.DefaultSemverVersion("", p.cfg.RangeOperator), nil
}

// Remove deletes name from the manifest.
func (a *App) Remove(ctx context.Context, opts Options, name string) (err error) {
	ctx, done := a.observe(ctx, "remove", attribute.String("package", name))
	defer done(&err)

	p, err := a.openExisting(ctx, opts)
	if err != nil {
		return err
	}

	if _, _, ok := p.engine.GetAllDependencies().Lookup(name); !ok {
		a.logger.Warn(name + " is not declared in " + p.doc.Path())
	}

	if err := p.engine.RemoveDependency(ctx, name); err != nil {
		return err
	}

	a.logger.Info("removed " + name)
	return nil
}

// Update changes the version and/or dependency type of a declared package.
func (a *App) Update(ctx context.Context, opts Options, name string, update domain.PackageUpdate) (err error) {
	ctx, done := a.observe(ctx, "update", attribute.String("package", name))
	defer done(&err)

	if update.IsEmpty() {
		return domain.ErrNoUpdateData
	}

	p, err := a.openExisting(ctx, opts)
	if err != nil {
		return err
	}

	if err := p.engine.UpdatePackageInfo(ctx, name, update); err != nil {
		return err
	}

	a.logger.Info("updated " + name)
	return nil
}

// List returns the declared dependencies.
func (a *App) List(ctx context.Context, opts Options) (snapshot domain.DependencySnapshot, err error) {
	ctx, done := a.observe(ctx, "list")
	defer done(&err)

	p, err := a.openExisting(ctx, opts)
	if err != nil {
		return domain.DependencySnapshot{}, err
	}
	return p.engine.GetAllDependencies(), nil
}
