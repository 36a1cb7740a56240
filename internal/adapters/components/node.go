package components

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bowersync/internal/adapters/fs"
	"go.trai.ch/bowersync/internal/core/ports"
)

// NodeID is the unique identifier for the installed package source Graft node.
const NodeID graft.ID = "adapter.components"

func init() {
	graft.Register(graft.Node[ports.PackageSource]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.NodeID},
		Run: func(ctx context.Context) (ports.PackageSource, error) {
			fileSystem, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}
			return NewSource(fileSystem), nil
		},
	})
}
