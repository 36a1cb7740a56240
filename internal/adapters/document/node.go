package document

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bowersync/internal/adapters/fs"
	"go.trai.ch/bowersync/internal/core/ports"
)

// NodeID is the unique identifier for the document factory Graft node.
const NodeID graft.ID = "adapter.document"

func init() {
	graft.Register(graft.Node[ports.DocumentFactory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.NodeID},
		Run: func(ctx context.Context) (ports.DocumentFactory, error) {
			fileSystem, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}
			return NewFactory(fileSystem), nil
		},
	})
}
