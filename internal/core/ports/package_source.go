package ports

import (
	"context"

	"go.trai.ch/bowersync/internal/core/domain"
)

// PackageSource lists the packages that are actually installed.
//
//go:generate mockgen -source=package_source.go -destination=mocks/mock_package_source.go -package=mocks
type PackageSource interface {
	// Resolve returns the packages installed in dir. The declared snapshot is
	// used to classify each package as a production or development dependency.
	Resolve(ctx context.Context, dir string, declared domain.DependencySnapshot) ([]domain.Package, error)
}
