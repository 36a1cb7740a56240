package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bowersync/internal/adapters/components" //nolint:depguard // Wired in app layer
	"go.trai.ch/bowersync/internal/adapters/config"     //nolint:depguard // Wired in app layer
	"go.trai.ch/bowersync/internal/adapters/document"   //nolint:depguard // Wired in app layer
	"go.trai.ch/bowersync/internal/adapters/fs"         //nolint:depguard // Wired in app layer
	"go.trai.ch/bowersync/internal/adapters/httpapi"    //nolint:depguard // Wired in app layer
	"go.trai.ch/bowersync/internal/adapters/logger"     //nolint:depguard // Wired in app layer
	"go.trai.ch/bowersync/internal/adapters/metrics"    //nolint:depguard // Wired in app layer
	"go.trai.ch/bowersync/internal/adapters/watcher"    //nolint:depguard // Wired in app layer
	"go.trai.ch/bowersync/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			document.NodeID,
			fs.NodeID,
			components.NodeID,
			logger.NodeID,
			watcher.NodeID,
			httpapi.NodeID,
			metrics.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{
				App:    app,
				Logger: log,
			}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	documents, err := graft.Dep[ports.DocumentFactory](ctx)
	if err != nil {
		return nil, err
	}

	fileSystem, err := graft.Dep[ports.FileSystem](ctx)
	if err != nil {
		return nil, err
	}

	source, err := graft.Dep[ports.PackageSource](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	server, err := graft.Dep[ports.StatusServer](ctx)
	if err != nil {
		return nil, err
	}

	m, err := graft.Dep[*metrics.Prometheus](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, documents, fileSystem, source, log, w, server, m), nil
}
