package geometry_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/navcache/internal/adapters/geometry"
	"go.trai.ch/navcache/internal/core/domain"
)

func activeSet() *domain.ActiveContentSet {
	return &domain.ActiveContentSet{
		Entries: []domain.ResolvedContent{{File: domain.ContentFile{ID: domain.NewContentID("a.esm")}}},
		Profile: domain.DefaultCollisionShape(),
	}
}

func TestGridSource_CellsOverlapping(t *testing.T) {
	src := geometry.NewGridSource(geometry.Grid{Worldspace: "ws", MinX: -1, MinY: 0, MaxX: 1, MaxY: 1})

	cells, err := src.CellsOverlapping(context.Background(), activeSet())
	require.NoError(t, err)
	require.Len(t, cells, 6)
	assert.Equal(t, domain.CellCoord{Worldspace: "ws", X: -1, Y: 0}, cells[0])
	assert.Equal(t, domain.CellCoord{Worldspace: "ws", X: 1, Y: 1}, cells[5])

	cells, err = src.CellsOverlapping(context.Background(), &domain.ActiveContentSet{})
	require.NoError(t, err)
	assert.Empty(t, cells)
}

func TestGridSource_InvalidGrid(t *testing.T) {
	src := geometry.NewGridSource(geometry.Grid{Worldspace: "ws", MinX: 2, MaxX: 1})

	_, err := src.CellsOverlapping(context.Background(), activeSet())
	assert.ErrorContains(t, err, domain.ErrCellEnumerationFailed.Error())
}

func TestGridSource_ExtremeRanges(t *testing.T) {
	src := geometry.NewGridSource(geometry.Grid{Worldspace: "ws", MinX: math.MinInt32, MaxX: math.MaxInt32})
	_, err := src.CellsOverlapping(context.Background(), activeSet())
	assert.ErrorContains(t, err, domain.ErrCellEnumerationFailed.Error())

	src = geometry.NewGridSource(geometry.Grid{
		Worldspace: "ws",
		MinX:       math.MinInt32,
		MaxX:       math.MaxInt32,
		MinY:       math.MinInt32,
		MaxY:       math.MaxInt32,
	})
	_, err = src.CellsOverlapping(context.Background(), activeSet())
	assert.ErrorContains(t, err, domain.ErrCellEnumerationFailed.Error())

	src = geometry.NewGridSource(geometry.Grid{
		Worldspace: "ws",
		MinX:       math.MaxInt32 - 1,
		MaxX:       math.MaxInt32,
		MinY:       math.MaxInt32,
		MaxY:       math.MaxInt32,
	})
	cells, err := src.CellsOverlapping(context.Background(), activeSet())
	require.NoError(t, err)
	assert.Equal(t, []domain.CellCoord{
		{Worldspace: "ws", X: math.MaxInt32 - 1, Y: math.MaxInt32},
		{Worldspace: "ws", X: math.MaxInt32, Y: math.MaxInt32},
	}, cells)
}

func TestGridSource_GenerateTile(t *testing.T) {
	src := geometry.NewGridSource(geometry.Grid{Worldspace: "ws", MaxX: 1, MaxY: 1})
	cell := domain.CellCoord{Worldspace: "ws", X: 1, Y: 0}
	shape := domain.DefaultCollisionShape()

	a, err := src.GenerateTile(context.Background(), cell, shape)
	require.NoError(t, err)
	b, err := src.GenerateTile(context.Background(), cell, shape)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, "NAVT", string(a[:4]))

	other, err := src.GenerateTile(context.Background(), domain.CellCoord{Worldspace: "ws"}, shape)
	require.NoError(t, err)
	assert.NotEqual(t, a, other)

	cylinder := shape
	cylinder.Type = domain.ShapeCylinder
	c, err := src.GenerateTile(context.Background(), cell, cylinder)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	assert.True(t, src.SupportsConcurrency())
}

func TestGridSource_OutsideGrid(t *testing.T) {
	src := geometry.NewGridSource(geometry.Grid{Worldspace: "ws", MaxX: 1, MaxY: 1})

	_, err := src.GenerateTile(context.Background(), domain.CellCoord{Worldspace: "ws", X: 5}, domain.DefaultCollisionShape())
	assert.ErrorContains(t, err, domain.ErrTileGenerationFailed.Error())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.GenerateTile(ctx, domain.CellCoord{Worldspace: "ws"}, domain.DefaultCollisionShape())
	assert.ErrorIs(t, err, context.Canceled)
}
