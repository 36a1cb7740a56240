// Package manifest implements the bower.json synchronization engine: the
// manifest store, its dependency cache and the mutation API.
package manifest

import (
	"context"
	"errors"
	"sync"

	"go.trai.ch/bowersync/internal/core/domain"
	"go.trai.ch/bowersync/internal/core/ports"
	"go.trai.ch/zerr"
)

// Options configures an Engine.
type Options struct {
	// ProjectName is written into newly created manifests. Defaults to "your-app-name".
	ProjectName string
	// RangeOperator prefixes the versions of untracked packages added on sync. Defaults to "^".
	RangeOperator string
}

// Engine owns one manifest document and its dependency cache.
//
// Every mutation is a full read-modify-write cycle on the document. Cycles on
// the same Engine are serialized.
type Engine struct {
	doc    ports.Document
	logger ports.Logger
	cache  *DependencyCache

	projectName   string
	rangeOperator string

	mu sync.Mutex
}

// New creates an Engine for doc. No I/O is performed until the first operation.
func New(doc ports.Document, logger ports.Logger, opts Options) *Engine {
	if opts.ProjectName == "" {
		opts.ProjectName = domain.DefaultAppName
	}
	if opts.RangeOperator == "" {
		opts.RangeOperator = domain.DefaultRangeOperator
	}
	return &Engine{
		doc:           doc,
		logger:        logger,
		cache:         NewDependencyCache(),
		projectName:   opts.ProjectName,
		rangeOperator: opts.RangeOperator,
	}
}

// Path returns the manifest path.
func (e *Engine) Path() string {
	return e.doc.Path()
}

// Read returns the raw manifest text.
func (e *Engine) Read(ctx context.Context) ([]byte, error) {
	return e.doc.Read(ctx)
}

// Create writes a new manifest and caches its dependencies.
//
// With a nil packages slice the manifest holds the project name and two empty
// mappings. Otherwise the packages are partitioned by classification;
// devDependencies is only written when at least one development package exists.
func (e *Engine) Create(ctx context.Context, packages []domain.Package) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var content *domain.Manifest
	if packages == nil {
		content = domain.NewManifest(e.projectName)
	} else {
		content = &domain.Manifest{Name: e.projectName, Dependencies: map[string]string{}}
		for _, pkg := range packages {
			if pkg.IsProductionDependency() {
				content.Dependencies[pkg.Name] = pkg.Version
			} else {
				content.Set(domain.Development, pkg.Name, pkg.Version)
			}
		}
	}

	if err := e.doc.Save(ctx, content); err != nil {
		return err
	}
	e.cache.Refresh(content)
	return nil
}

// GetAllDependencies returns the cached dependency mappings without any I/O.
func (e *Engine) GetAllDependencies() domain.DependencySnapshot {
	return e.cache.Snapshot()
}

// ExistsInDirectory reports whether dir holds a manifest. The file is not parsed.
func ExistsInDirectory(ctx context.Context, fs ports.FileSystem, dir string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	exists, err := fs.Exists(domain.ManifestPath(dir))
	if err != nil {
		return false, errors.Join(domain.ErrStorageReadFailed,
			zerr.With(zerr.Wrap(err, "failed to check for manifest"), "dir", dir))
	}
	return exists, nil
}

// readContent reads and parses the manifest.
func (e *Engine) readContent(ctx context.Context) (*domain.Manifest, error) {
	data, err := e.doc.Read(ctx)
	if err != nil {
		return nil, err
	}

	var content domain.Manifest
	if err := e.doc.Decode(data, &content); err != nil {
		e.logger.Error(zerr.Wrap(err, "error parsing "+e.doc.Path()))
		return nil, err
	}
	return &content, nil
}

// persist saves content and refreshes the cache when its dependencies changed.
func (e *Engine) persist(ctx context.Context, content *domain.Manifest) error {
	if err := e.doc.Save(ctx, content); err != nil {
		return err
	}
	if e.cache.HasChanged(content) {
		e.cache.Refresh(content)
	}
	return nil
}
