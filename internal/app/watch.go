package app

import (
	"context"
	"errors"
	"slices"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.trai.ch/bowersync/internal/core/domain"
	"go.trai.ch/bowersync/internal/core/ports"
	"go.trai.ch/bowersync/internal/engine/watch"
	"golang.org/x/sync/errgroup"
)

// WatchOptions configures Watch.
type WatchOptions struct {
	// Listen overrides the configured status server address.
	Listen string
}

// statusHolder is the StatusSource the status server reads from.
type statusHolder struct {
	mu     sync.RWMutex
	status domain.Status
}

var _ ports.StatusSource = (*statusHolder)(nil)

func (h *statusHolder) Status() domain.Status {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.status
}

func (h *statusHolder) set(status domain.Status) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status = status
}

// Watch reloads the manifest whenever it or the installed packages change and
// publishes the resulting status until ctx is cancelled.
func (a *App) Watch(ctx context.Context, opts Options, watchOpts WatchOptions) (err error) {
	ctx, done := a.observe(ctx, "watch")
	defer done(&err)

	p, err := a.open(opts)
	if err != nil {
		return err
	}

	listen := watchOpts.Listen
	if listen == "" {
		listen = p.cfg.Listen
	}

	manifestPath := p.doc.Path()
	holder := &statusHolder{}
	refresh := func(ctx context.Context, reload bool) {
		status := a.reload(ctx, p, reload)
		holder.set(status)
		a.metrics.ObserveStatus(status)
		a.server.Publish(status)
	}
	refresh(ctx, true)

	loop := watch.NewLoop(a.watcher, a.fs, p.cfg.Debounce)
	loop.Track(manifestPath)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return loop.Run(ctx, []string{manifestPath, p.cfg.ComponentsPath()}, func(ctx context.Context, changed []string) {
			refresh(ctx, slices.Contains(changed, manifestPath))
		})
	})

	if listen != "" {
		g.Go(func() error {
			defer cancel()
			return a.server.Serve(ctx, listen, holder)
		})
	}

	a.logger.Info("watching " + manifestPath)
	return g.Wait()
}

// reload builds a fresh status. Failures are reported in the status instead of returned.
func (a *App) reload(ctx context.Context, p *project, reloadManifest bool) domain.Status {
	ctx, span := a.tracer.Start(ctx, "bowersync.reload")
	span.SetAttributes(attribute.Bool("manifest", reloadManifest))
	defer span.End()

	if reloadManifest {
		changed, err := p.engine.OnContentChanged(ctx)
		if err != nil {
			if !errors.Is(err, domain.ErrMalformedManifest) {
				a.logger.Error(err)
			}
			span.RecordError(err)
			return a.failedStatus(p, err)
		}
		if changed {
			a.logger.Info("reloaded dependencies from " + p.doc.Path())
		}
	}

	status, err := a.status(ctx, p)
	if err != nil {
		a.logger.Error(err)
		span.RecordError(err)
		return a.failedStatus(p, err)
	}
	return status
}

func (a *App) failedStatus(p *project, err error) domain.Status {
	return domain.Status{
		Manifest:     p.doc.Path(),
		Dependencies: p.engine.GetAllDependencies(),
		Diff: domain.SyncDiff{
			Missing:          []domain.Package{},
			Untracked:        []domain.Package{},
			VersionOutOfSync: []domain.Package{},
		},
		Error:     err.Error(),
		UpdatedAt: a.now(),
	}
}
