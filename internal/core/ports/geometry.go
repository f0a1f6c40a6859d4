package ports

import (
	"context"

	"go.trai.ch/navcache/internal/core/domain"
)

// GeometrySource supplies the cells of a content set and generates their tiles.
//
//go:generate go run go.uber.org/mock/mockgen -source=geometry.go -destination=mocks/mock_geometry.go -package=mocks
type GeometrySource interface {
	// CellsOverlapping returns every cell that holds geometry for the active set.
	CellsOverlapping(ctx context.Context, set *domain.ActiveContentSet) ([]domain.CellCoord, error)

	// GenerateTile builds the serialized tile of a cell for the collision shape.
	GenerateTile(ctx context.Context, cell domain.CellCoord, shape domain.CollisionShape) ([]byte, error)

	// SupportsConcurrency reports whether GenerateTile may be called from several goroutines.
	SupportsConcurrency() bool
}
