package tilestore

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/navcache/internal/adapters/config"
	"go.trai.ch/navcache/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// NodeID is the unique identifier for the tile store node.
	NodeID graft.ID = "adapter.tilestore"
	// IndexNodeID is the unique identifier for the content index node, served by the tile store.
	IndexNodeID graft.ID = "adapter.tilestore.index"
)

func init() {
	graft.Register(graft.Node[ports.TileStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID},
		Run: func(ctx context.Context) (ports.TileStore, error) {
			settings, err := graft.Dep[*config.Settings](ctx)
			if err != nil {
				return nil, err
			}
			limit, err := settings.Cache.MaxSizeBytes()
			if err != nil {
				return nil, err
			}

			store, err := Open(settings.Cache.Dir)
			if err != nil {
				return nil, err
			}
			if err := store.InitMaxSize(ctx, limit); err != nil {
				_ = store.Close()
				return nil, err
			}
			return store, nil
		},
	})

	graft.Register(graft.Node[ports.ContentIndex]{
		ID:        IndexNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{NodeID},
		Run: func(ctx context.Context) (ports.ContentIndex, error) {
			store, err := graft.Dep[ports.TileStore](ctx)
			if err != nil {
				return nil, err
			}
			index, ok := store.(ports.ContentIndex)
			if !ok {
				return nil, zerr.New("tile store does not keep a content index")
			}
			return index, nil
		},
	})
}
