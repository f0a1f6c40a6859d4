package ports

import (
	"context"

	"go.trai.ch/navcache/internal/core/domain"
)

// TileStore is the persistent, size-bounded store of navigation mesh tiles.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type TileStore interface {
	// Get retrieves the tile stored under key.
	// Returns nil, nil if not found.
	Get(ctx context.Context, key domain.TileKey) (*domain.Tile, error)

	// Contains reports whether a tile is stored under key without reading its payload.
	Contains(ctx context.Context, key domain.TileKey) (bool, error)

	// Put stores the tile, replacing any tile with the same key.
	// The blob is written before the manifest so a crash can only leave an orphaned blob.
	Put(ctx context.Context, tile domain.Tile) error

	// TotalSize returns the sum of the sizes of all stored tiles.
	TotalSize(ctx context.Context) (int64, error)

	// MaxSize returns the configured size cap, 0 meaning unlimited.
	MaxSize(ctx context.Context) (int64, error)

	// SetMaxSize persists the size cap.
	SetMaxSize(ctx context.Context, limit int64) error

	// EvictUnused removes every tile whose fingerprint is not current.
	EvictUnused(ctx context.Context, current domain.Fingerprint) (domain.EvictionReport, error)

	// EnforceMaxSize removes least recently used tiles until the total size is within limit.
	EnforceMaxSize(ctx context.Context, limit int64) (domain.EvictionReport, error)

	// Pin protects the tiles of a fingerprint from eviction until the returned function is called.
	Pin(fp domain.Fingerprint) (release func())

	// Verify checks the manifest against the blobs on disk.
	Verify(ctx context.Context) (domain.VerifyReport, error)

	// Stats summarizes the store contents.
	Stats(ctx context.Context) (domain.StoreStats, error)

	// Close releases the underlying resources.
	Close() error
}
