package app

import (
	"errors"

	"go.trai.ch/navcache/internal/core/ports"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App       *App
	Logger    ports.Logger
	Store     ports.TileStore
	Telemetry ports.Telemetry
}

// Close releases the store and flushes telemetry.
func (c *Components) Close() error {
	var errs []error
	if c.Telemetry != nil {
		errs = append(errs, c.Telemetry.Close())
	}
	if c.Store != nil {
		errs = append(errs, c.Store.Close())
	}
	return errors.Join(errs...)
}
