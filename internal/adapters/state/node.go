package state

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/paveproject/pave/internal/adapters/config"
	"github.com/paveproject/pave/internal/adapters/logger"
	"github.com/paveproject/pave/internal/core/domain"
	"github.com/paveproject/pave/internal/core/ports"
)

// NodeID is the unique identifier for the state store Graft node.
const NodeID graft.ID = "adapter.state"

func init() {
	graft.Register(graft.Node[ports.StateStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.StateStore, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			root, err := loader.DiscoverRoot(".")
			if err != nil {
				return nil, err
			}

			path := domain.StateFilePath(root)
			store, err := NewStore(path)
			if err != nil {
				// A corrupt state file must never block setup. Start
				// fresh; the next successful install rewrites it.
				log.Warn("state file unreadable, starting fresh")
				store = NewEmptyStore(path)
			}
			return store, nil
		},
	})
}
