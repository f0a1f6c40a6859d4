// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/navcache/internal/adapters/catalog"
	_ "go.trai.ch/navcache/internal/adapters/config"
	_ "go.trai.ch/navcache/internal/adapters/fs"
	_ "go.trai.ch/navcache/internal/adapters/geometry"
	_ "go.trai.ch/navcache/internal/adapters/logger"
	_ "go.trai.ch/navcache/internal/adapters/telemetry/progrock"
	_ "go.trai.ch/navcache/internal/adapters/tilestore"
	// Register app and engine nodes.
	_ "go.trai.ch/navcache/internal/app"
	_ "go.trai.ch/navcache/internal/engine/resolver"
	_ "go.trai.ch/navcache/internal/engine/scheduler"
)
