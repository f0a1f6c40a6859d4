// Package geometry provides a geometry source that covers a fixed rectangle of cells.
package geometry

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/navcache/internal/core/domain"
	"go.trai.ch/navcache/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.GeometrySource = (*GridSource)(nil)

const (
	tileMagic   = "NAVT"
	tileVersion = uint16(1)

	// samplesPerSide is the resolution of the height samples stored per tile.
	samplesPerSide = 16
	cellSize       = 8192.0
)

// Grid is an inclusive rectangle of cells in one worldspace.
type Grid struct {
	Worldspace string
	MinX, MinY int32
	MaxX, MaxY int32
}

// GridSource implements ports.GeometrySource for a rectangular grid of cells.
// Tiles are derived only from the cell coordinates and the collision shape, so the
// same inputs always produce the same bytes.
type GridSource struct {
	grid Grid
}

// MaxCells is the largest number of cells a grid may enumerate.
const MaxCells = 1 << 20

// NewGridSource creates a GridSource covering grid.
func NewGridSource(grid Grid) *GridSource {
	return &GridSource{grid: grid}
}

// CellsOverlapping returns every cell of the grid, or none when the set is empty.
func (g *GridSource) CellsOverlapping(ctx context.Context, set *domain.ActiveContentSet) ([]domain.CellCoord, error) {
	if set == nil || set.Len() == 0 {
		return nil, nil
	}
	if g.grid.MinX > g.grid.MaxX || g.grid.MinY > g.grid.MaxY {
		return nil, zerr.With(domain.ErrCellEnumerationFailed, "grid", g.grid)
	}

	width := int64(g.grid.MaxX) - int64(g.grid.MinX) + 1
	height := int64(g.grid.MaxY) - int64(g.grid.MinY) + 1
	if width > MaxCells || height > MaxCells || width*height > MaxCells {
		return nil, zerr.With(zerr.With(domain.ErrCellEnumerationFailed, "grid", g.grid), "cells", width*height)
	}

	cells := make([]domain.CellCoord, 0, int(width*height))
	for y := int64(g.grid.MinY); y <= int64(g.grid.MaxY); y++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for x := int64(g.grid.MinX); x <= int64(g.grid.MaxX); x++ {
			cells = append(cells, domain.CellCoord{Worldspace: g.grid.Worldspace, X: int32(x), Y: int32(y)}) //nolint:gosec // bounded by the grid
		}
	}
	return cells, nil
}

// GenerateTile encodes a header followed by a grid of walkable heights for the cell.
func (g *GridSource) GenerateTile(
	ctx context.Context,
	cell domain.CellCoord,
	shape domain.CollisionShape,
) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cell.Worldspace != g.grid.Worldspace ||
		cell.X < g.grid.MinX || cell.X > g.grid.MaxX || cell.Y < g.grid.MinY || cell.Y > g.grid.MaxY {
		return nil, zerr.With(domain.ErrTileGenerationFailed, "cell", cell.String())
	}

	var buf bytes.Buffer
	buf.WriteString(tileMagic)
	header := struct {
		Version     uint16
		Shape       uint16
		X, Y        int32
		HalfExtents [3]float32
		Samples     uint32
	}{
		Version:     tileVersion,
		Shape:       shapeCode(shape.Type),
		X:           cell.X,
		Y:           cell.Y,
		HalfExtents: shape.HalfExtents,
		Samples:     samplesPerSide * samplesPerSide,
	}
	if err := binary.Write(&buf, binary.LittleEndian, header); err != nil {
		return nil, zerr.Wrap(err, domain.ErrTileGenerationFailed.Error())
	}

	// Heights are clamped by the agent height so taller agents see a coarser surface.
	step := float64(shape.HalfExtents[2]) * 2
	if step <= 0 {
		step = 1
	}
	seed := xxhash.Sum64String(cell.String())
	for i := range samplesPerSide * samplesPerSide {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], seed+uint64(i))
		h := float64(xxhash.Sum64(b[:])%4096) / 4096 * cellSize / 4
		h = math.Floor(h/step) * step
		if err := binary.Write(&buf, binary.LittleEndian, float32(h)); err != nil {
			return nil, zerr.Wrap(err, domain.ErrTileGenerationFailed.Error())
		}
	}
	return buf.Bytes(), nil
}

// SupportsConcurrency reports true; GenerateTile shares no state.
func (g *GridSource) SupportsConcurrency() bool {
	return true
}

func shapeCode(t domain.ShapeType) uint16 {
	switch t {
	case domain.ShapeAABB:
		return 1
	case domain.ShapeRotatingBox:
		return 2
	case domain.ShapeCylinder:
		return 3
	default:
		return 0
	}
}
