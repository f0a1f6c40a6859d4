package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/navcache/internal/adapters/catalog"            //nolint:depguard // Wired in app layer
	"go.trai.ch/navcache/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/navcache/internal/adapters/geometry"           //nolint:depguard // Wired in app layer
	"go.trai.ch/navcache/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/navcache/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/navcache/internal/adapters/tilestore"          //nolint:depguard // Wired in app layer
	"go.trai.ch/navcache/internal/core/ports"
	"go.trai.ch/navcache/internal/engine/resolver"
	"go.trai.ch/navcache/internal/engine/scheduler"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			catalog.NodeID,
			config.NodeID,
			config.SettingsNodeID,
			resolver.NodeID,
			scheduler.NodeID,
			tilestore.NodeID,
			geometry.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			tilestore.NodeID,
			progrock.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	contentCatalog, err := graft.Dep[ports.ContentCatalog](ctx)
	if err != nil {
		return nil, err
	}

	layers, err := graft.Dep[ports.LayerSource](ctx)
	if err != nil {
		return nil, err
	}

	settings, err := graft.Dep[*config.Settings](ctx)
	if err != nil {
		return nil, err
	}

	res, err := graft.Dep[*resolver.Resolver](ctx)
	if err != nil {
		return nil, err
	}

	sched, err := graft.Dep[*scheduler.Scheduler](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.TileStore](ctx)
	if err != nil {
		return nil, err
	}

	source, err := graft.Dep[ports.GeometrySource](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	profile, err := settings.Collision.Profile()
	if err != nil {
		return nil, err
	}

	return New(contentCatalog, layers, res, sched, store, source, log, Config{
		Profile: profile,
		Threads: settings.Generator.Threads,
	}), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.TileStore](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:       app,
		Logger:    log,
		Store:     store,
		Telemetry: telemetry,
	}, nil
}
