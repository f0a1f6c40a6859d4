package geometry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/navcache/internal/adapters/config"
	"go.trai.ch/navcache/internal/core/ports"
)

// NodeID is the unique identifier for the geometry source node.
const NodeID graft.ID = "adapter.geometry"

func init() {
	graft.Register(graft.Node[ports.GeometrySource]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID},
		Run: func(ctx context.Context) (ports.GeometrySource, error) {
			settings, err := graft.Dep[*config.Settings](ctx)
			if err != nil {
				return nil, err
			}
			grid := settings.Generator.Grid
			return NewGridSource(Grid{
				Worldspace: settings.Generator.Worldspace,
				MinX:       grid.MinX,
				MinY:       grid.MinY,
				MaxX:       grid.MaxX,
				MaxY:       grid.MaxY,
			}), nil
		},
	})
}
