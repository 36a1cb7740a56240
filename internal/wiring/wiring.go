// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/bowersync/internal/adapters/components"
	_ "go.trai.ch/bowersync/internal/adapters/config"
	_ "go.trai.ch/bowersync/internal/adapters/document"
	_ "go.trai.ch/bowersync/internal/adapters/fs"
	_ "go.trai.ch/bowersync/internal/adapters/httpapi"
	_ "go.trai.ch/bowersync/internal/adapters/logger"
	_ "go.trai.ch/bowersync/internal/adapters/metrics"
	_ "go.trai.ch/bowersync/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/bowersync/internal/app"
)
