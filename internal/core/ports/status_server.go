package ports

import (
	"context"

	"go.trai.ch/bowersync/internal/core/domain"
)

// StatusSource supplies the current dependency status.
type StatusSource interface {
	Status() domain.Status
}

// StatusServer exposes dependency status to editor panels while watching.
//
//go:generate mockgen -source=status_server.go -destination=mocks/mock_status_server.go -package=mocks
type StatusServer interface {
	// Serve listens on addr until ctx is cancelled.
	Serve(ctx context.Context, addr string, source StatusSource) error
	// Publish pushes a status update to connected clients.
	Publish(status domain.Status)
}
