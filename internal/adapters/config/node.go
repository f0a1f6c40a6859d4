package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/navcache/internal/adapters/logger"
	"go.trai.ch/navcache/internal/core/ports"
)

const (
	// SettingsNodeID is the unique identifier for the settings node.
	SettingsNodeID graft.ID = "adapter.config.settings"
	// NodeID is the unique identifier for the layer loader node.
	NodeID graft.ID = "adapter.config.layers"
)

func init() {
	graft.Register(graft.Node[*Settings]{
		ID:        SettingsNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Settings, error) {
			return LoadSettingsFromEnv()
		},
	})

	graft.Register(graft.Node[ports.LayerSource]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{SettingsNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.LayerSource, error) {
			settings, err := graft.Dep[*Settings](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLayerLoader(settings.Layers, log), nil
		},
	})
}
