package resolver

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/navcache/internal/adapters/fs" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/navcache/internal/core/ports"
)

// NodeID is the unique identifier for the resolver Graft node.
const NodeID graft.ID = "engine.resolver"

func init() {
	graft.Register(graft.Node[*Resolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.HasherNodeID},
		Run: func(ctx context.Context) (*Resolver, error) {
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			return New(hasher), nil
		},
	})
}
