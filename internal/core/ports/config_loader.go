package ports

import "go.trai.ch/bowersync/internal/core/domain"

// ConfigLoader defines the interface for loading the tool configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load resolves the configuration for the project in dir. configPath names an
	// explicit config file; when empty, dir/bowersync.yaml is used if present.
	Load(dir, configPath string) (*domain.Config, error)
}
