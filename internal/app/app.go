// Package app implements the application layer for bowersync.
package app

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/bowersync/internal/core/domain"
	"go.trai.ch/bowersync/internal/core/ports"
	"go.trai.ch/bowersync/internal/engine/manifest"
	"go.trai.ch/zerr"
)

const tracerName = "go.trai.ch/bowersync/internal/app"

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	documents    ports.DocumentFactory
	fs           ports.FileSystem
	source       ports.PackageSource
	logger       ports.Logger
	watcher      ports.Watcher
	server       ports.StatusServer
	metrics      ports.Metrics
	tracer       trace.Tracer
	now          func() time.Time
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	documents ports.DocumentFactory,
	fs ports.FileSystem,
	source ports.PackageSource,
	log ports.Logger,
	watcher ports.Watcher,
	server ports.StatusServer,
	metrics ports.Metrics,
) *App {
	return &App{
		configLoader: loader,
		documents:    documents,
		fs:           fs,
		source:       source,
		logger:       log,
		watcher:      watcher,
		server:       server,
		metrics:      metrics,
		tracer:       otel.Tracer(tracerName),
		now:          time.Now,
	}
}

// WithTracerProvider makes the App record spans on tp instead of the global provider.
func (a *App) WithTracerProvider(tp trace.TracerProvider) *App {
	a.tracer = tp.Tracer(tracerName)
	return a
}

// WithClock replaces the clock used to stamp status updates.
func (a *App) WithClock(now func() time.Time) *App {
	a.now = now
	return a
}

// Options selects the project an operation runs on.
type Options struct {
	// Dir is the project directory. Defaults to the working directory.
	Dir string
	// ConfigPath names an explicit config file.
	ConfigPath string
}

// project is the resolved configuration and manifest engine for one invocation.
type project struct {
	cfg    *domain.Config
	doc    ports.Document
	engine *manifest.Engine
}

func (a *App) open(opts Options) (*project, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}

	cfg, err := a.configLoader.Load(dir, opts.ConfigPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	doc := a.documents.Open(cfg.ManifestPath())
	return &project{
		cfg: cfg,
		doc: doc,
		engine: manifest.New(doc, a.logger, manifest.Options{
			ProjectName:   cfg.ProjectName,
			RangeOperator: cfg.RangeOperator,
		}),
	}, nil
}

// openExisting opens the project and loads its dependencies into the cache.
func (a *App) openExisting(ctx context.Context, opts Options) (*project, error) {
	p, err := a.open(opts)
	if err != nil {
		return nil, err
	}

	exists, err := p.doc.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.Join(domain.ErrManifestNotFound,
			zerr.With(zerr.New("run 'bowersync init' to create one"), "path", p.doc.Path()))
	}

	if _, err := p.engine.LoadAllDependencies(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// observe starts a span for op. The returned func ends it and counts the outcome.
func (a *App) observe(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(*error)) {
	ctx, span := a.tracer.Start(ctx, "bowersync."+op, trace.WithAttributes(attrs...))
	return ctx, func(errp *error) {
		err := *errp
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		a.metrics.ObserveOperation(op, err)
	}
}
