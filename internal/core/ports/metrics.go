package ports

import "go.trai.ch/bowersync/internal/core/domain"

// Metrics records operational counters for the manifest engine.
//
//go:generate mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	// ObserveOperation counts one run of the named operation and its outcome.
	ObserveOperation(op string, err error)
	// ObserveStatus records the bucket sizes of the latest reconciliation.
	ObserveStatus(status domain.Status)
}
