package app_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/navcache/internal/adapters/fs"
	"go.trai.ch/navcache/internal/adapters/telemetry/progrock"
	"go.trai.ch/navcache/internal/adapters/tilestore"
	"go.trai.ch/navcache/internal/app"
	"go.trai.ch/navcache/internal/core/domain"
	"go.trai.ch/navcache/internal/core/ports/mocks"
	"go.trai.ch/navcache/internal/engine/resolver"
	"go.trai.ch/navcache/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	app      *app.App
	catalog  *mocks.MockContentCatalog
	layers   *mocks.MockLayerSource
	geometry *mocks.MockGeometrySource
	store    *tilestore.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	store, err := tilestore.OpenWith(filepath.Join(t.TempDir(), "manifest.db"), memfs.New())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	f := &fixture{
		catalog:  mocks.NewMockContentCatalog(ctrl),
		layers:   mocks.NewMockLayerSource(ctrl),
		geometry: mocks.NewMockGeometrySource(ctrl),
		store:    store,
	}
	f.app = app.New(
		f.catalog,
		f.layers,
		resolver.New(fs.NewHasher()),
		scheduler.NewScheduler(store, progrock.New(), log),
		store,
		f.geometry,
		log,
		app.Config{Profile: domain.DefaultCollisionShape(), Threads: 0},
	)
	return f
}

func (f *fixture) withContent(diags ...domain.Diagnostic) {
	files := []domain.ContentFile{
		{ID: domain.NewContentID("a.esm"), Name: "a.esm"},
		{ID: domain.NewContentID("b.esp"), Name: "b.esp", Dependencies: []domain.Dependency{{ID: domain.NewContentID("a.esm")}}},
	}
	stack := domain.NewLayerStack(
		domain.ConfigLayer{Name: "base"},
		nil,
		domain.ConfigLayer{Name: "user", Directives: []domain.Directive{
			{Kind: domain.DirectiveActivate, Content: domain.NewContentID("a.esm")},
			{Kind: domain.DirectiveActivate, Content: domain.NewContentID("b.esp")},
		}},
	)
	f.catalog.EXPECT().List(gomock.Any()).Return(files, diags, nil).AnyTimes()
	f.layers.EXPECT().Layers(gomock.Any()).Return(stack, nil).AnyTimes()
}

func (f *fixture) withCells(n int32) {
	cells := make([]domain.CellCoord, 0, n)
	for x := range n {
		cells = append(cells, domain.CellCoord{Worldspace: "ws", X: x})
	}
	f.geometry.EXPECT().SupportsConcurrency().Return(true).AnyTimes()
	f.geometry.EXPECT().CellsOverlapping(gomock.Any(), gomock.Any()).Return(cells, nil).AnyTimes()
	f.geometry.EXPECT().GenerateTile(gomock.Any(), gomock.Any(), domain.DefaultCollisionShape()).
		DoAndReturn(func(_ context.Context, cell domain.CellCoord, _ domain.CollisionShape) ([]byte, error) {
			return []byte(cell.String()), nil
		}).AnyTimes()
}

func TestApp_Resolve(t *testing.T) {
	f := newFixture(t)
	parseErr := domain.Diagnostic{Kind: domain.DiagParseError, Severity: domain.SeverityWarning, Path: "/data/broken.esp"}
	f.withContent(parseErr)

	set, err := f.app.Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []domain.ContentID{domain.NewContentID("a.esm"), domain.NewContentID("b.esp")}, set.IDs())
	require.Len(t, set.Diagnostics, 1)
	assert.Equal(t, domain.DiagParseError, set.Diagnostics[0].Kind)
	assert.NotZero(t, set.Fingerprint)
}

func TestApp_Resolve_CatalogError(t *testing.T) {
	f := newFixture(t)
	f.catalog.EXPECT().List(gomock.Any()).Return(nil, nil, domain.ErrDataDirUnreadable)

	_, err := f.app.Resolve(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDataDirUnreadable)
	assert.ErrorContains(t, err, "failed to list content files")
}

func TestApp_Update(t *testing.T) {
	f := newFixture(t)
	f.withContent()
	f.withCells(3)

	var reports []domain.Progress
	result, err := f.app.Update(context.Background(), app.UpdateOptions{
		Threads:    -1,
		OnProgress: func(p domain.Progress) { reports = append(reports, p) },
	})
	require.NoError(t, err)

	assert.Equal(t, domain.JobCompleted, result.State)
	assert.Equal(t, domain.Progress{Done: 3, Total: 3}, result.Progress)
	assert.Nil(t, result.Eviction)
	require.NotEmpty(t, reports)
	assert.Equal(t, 3, reports[len(reports)-1].Done)

	stats, err := f.app.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Tiles)
	require.Len(t, stats.Fingerprints, 1)
	assert.Equal(t, result.Set.Fingerprint, stats.Fingerprints[0].Fingerprint)
}

func TestApp_Update_RemoveUnused(t *testing.T) {
	f := newFixture(t)
	f.withContent()
	f.withCells(2)

	stale := domain.TileKey{Cell: domain.CellCoord{Worldspace: "ws"}, Profile: "old", Fingerprint: 7}
	require.NoError(t, f.store.Put(context.Background(), domain.Tile{Key: stale, Payload: []byte("stale")}))

	result, err := f.app.Update(context.Background(), app.UpdateOptions{Threads: 2, RemoveUnused: true})
	require.NoError(t, err)
	require.NotNil(t, result.Eviction)
	assert.Equal(t, 1, result.Eviction.Removed)

	ok, err := f.store.Contains(context.Background(), stale)
	require.NoError(t, err)
	assert.False(t, ok)

	report, err := f.app.Verify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Entries)
}

func TestApp_Update_StoreFull(t *testing.T) {
	f := newFixture(t)
	f.withContent()
	f.withCells(4)
	require.NoError(t, f.store.SetMaxSize(context.Background(), 1))

	result, err := f.app.Update(context.Background(), app.UpdateOptions{Threads: 0})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrStoreFull.Error())
	assert.Equal(t, domain.JobFailed, result.State)
}

func TestApp_EvictUnused(t *testing.T) {
	f := newFixture(t)
	f.withContent()

	for fp := domain.Fingerprint(1); fp <= 2; fp++ {
		key := domain.TileKey{Cell: domain.CellCoord{Worldspace: "ws"}, Profile: "p", Fingerprint: fp}
		require.NoError(t, f.store.Put(context.Background(), domain.Tile{Key: key, Payload: []byte("x")}))
	}

	report, err := f.app.EvictUnused(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Removed)
	assert.Zero(t, report.TotalSize)
}

func TestApp_SetMaxSize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for x := int32(0); x < 3; x++ {
		key := domain.TileKey{Cell: domain.CellCoord{Worldspace: "ws", X: x}, Profile: "p", Fingerprint: 1}
		require.NoError(t, f.store.Put(ctx, domain.Tile{Key: key, Payload: []byte("payload")}))
	}
	total, err := f.store.TotalSize(ctx)
	require.NoError(t, err)

	report, err := f.app.SetMaxSize(ctx, total-1)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Removed)

	limit, err := f.app.MaxSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, total-1, limit)

	report, err = f.app.SetMaxSize(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, report.Removed)
	assert.Positive(t, report.TotalSize)

	_, err = f.app.SetMaxSize(ctx, -5)
	assert.ErrorContains(t, err, domain.ErrInvalidSize.Error())
}

func TestApp_Cancel_NoActiveUpdate(t *testing.T) {
	f := newFixture(t)
	f.withContent()

	err := f.app.Cancel(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrNoActiveUpdate.Error())
}

func TestApp_Cancel(t *testing.T) {
	f := newFixture(t)
	f.withContent()

	started := make(chan struct{})
	proceed := make(chan struct{})
	f.geometry.EXPECT().SupportsConcurrency().Return(true).AnyTimes()
	f.geometry.EXPECT().CellsOverlapping(gomock.Any(), gomock.Any()).
		Return([]domain.CellCoord{{Worldspace: "ws"}, {Worldspace: "ws", X: 1}}, nil)
	f.geometry.EXPECT().GenerateTile(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, domain.CellCoord, domain.CollisionShape) ([]byte, error) {
			close(started)
			<-proceed
			return nil, errors.New("interrupted")
		})

	done := make(chan *app.UpdateResult)
	go func() {
		result, _ := f.app.Update(context.Background(), app.UpdateOptions{Threads: 1})
		done <- result
	}()

	<-started
	require.NoError(t, f.app.Cancel(context.Background()))
	close(proceed)

	result := <-done
	assert.Equal(t, domain.JobCancelled, result.State)
	assert.Equal(t, 1, result.Progress.Failed)
}

func TestApp_Cancel_AfterLayerEdit(t *testing.T) {
	f := newFixture(t)

	files := []domain.ContentFile{
		{ID: domain.NewContentID("a.esm"), Name: "a.esm"},
		{ID: domain.NewContentID("b.esp"), Name: "b.esp"},
	}
	layers := func(ids ...string) *domain.LayerStack {
		user := domain.ConfigLayer{Name: "user"}
		for _, id := range ids {
			user.Directives = append(user.Directives,
				domain.Directive{Kind: domain.DirectiveActivate, Content: domain.NewContentID(id)})
		}
		return domain.NewLayerStack(domain.ConfigLayer{Name: "base"}, nil, user)
	}
	f.catalog.EXPECT().List(gomock.Any()).Return(files, nil, nil).AnyTimes()
	// The user layer loses b.esp while the update is running.
	f.layers.EXPECT().Layers(gomock.Any()).Return(layers("a.esm", "b.esp"), nil).Times(1)
	f.layers.EXPECT().Layers(gomock.Any()).Return(layers("a.esm"), nil).AnyTimes()

	started := make(chan struct{})
	proceed := make(chan struct{})
	f.geometry.EXPECT().SupportsConcurrency().Return(true).AnyTimes()
	f.geometry.EXPECT().CellsOverlapping(gomock.Any(), gomock.Any()).
		Return([]domain.CellCoord{{Worldspace: "ws"}, {Worldspace: "ws", X: 1}}, nil)
	f.geometry.EXPECT().GenerateTile(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, domain.CellCoord, domain.CollisionShape) ([]byte, error) {
			close(started)
			<-proceed
			return []byte("tile"), nil
		})

	done := make(chan *app.UpdateResult)
	go func() {
		result, _ := f.app.Update(context.Background(), app.UpdateOptions{Threads: 1})
		done <- result
	}()

	<-started
	set, err := f.app.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())

	require.NoError(t, f.app.Cancel(context.Background()))
	close(proceed)

	result := <-done
	assert.Equal(t, domain.JobCancelled, result.State)
	assert.Equal(t, 2, result.Set.Len())
	assert.Zero(t, result.Progress.Done)

	assert.ErrorIs(t, f.app.Cancel(context.Background()), domain.ErrNoActiveUpdate)
}
