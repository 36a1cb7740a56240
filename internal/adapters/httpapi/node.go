package httpapi

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bowersync/internal/adapters/logger"
	"go.trai.ch/bowersync/internal/adapters/metrics"
	"go.trai.ch/bowersync/internal/core/ports"
)

// NodeID is the unique identifier for the status server Graft node.
const NodeID graft.ID = "adapter.status_server"

func init() {
	graft.Register(graft.Node[ports.StatusServer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, metrics.NodeID},
		Run: func(ctx context.Context) (ports.StatusServer, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			m, err := graft.Dep[*metrics.Prometheus](ctx)
			if err != nil {
				return nil, err
			}
			return NewServer(log, m.Handler()), nil
		},
	})
}
