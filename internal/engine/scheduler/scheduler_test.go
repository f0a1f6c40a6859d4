package scheduler_test

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/navcache/internal/adapters/telemetry/progrock"
	"go.trai.ch/navcache/internal/adapters/tilestore"
	"go.trai.ch/navcache/internal/core/domain"
	"go.trai.ch/navcache/internal/core/ports"
	"go.trai.ch/navcache/internal/core/ports/mocks"
	"go.trai.ch/navcache/internal/engine/scheduler"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

// fakeSource generates a tile per cell. With proceed set, every generation waits for a
// value on it; with started set, every generation announces its cell first.
type fakeSource struct {
	cells      []domain.CellCoord
	concurrent bool
	fail       map[int32]bool
	started    chan domain.CellCoord
	proceed    chan struct{}
	calls      atomic.Int32
}

func (f *fakeSource) CellsOverlapping(context.Context, *domain.ActiveContentSet) ([]domain.CellCoord, error) {
	return slices.Clone(f.cells), nil
}

func (f *fakeSource) GenerateTile(_ context.Context, cell domain.CellCoord, _ domain.CollisionShape) ([]byte, error) {
	f.calls.Add(1)
	if f.started != nil {
		f.started <- cell
	}
	if f.proceed != nil {
		<-f.proceed
	}
	if f.fail[cell.X] {
		return nil, errors.New("no collision data")
	}
	return []byte("tile " + cell.String()), nil
}

func (f *fakeSource) SupportsConcurrency() bool {
	return f.concurrent
}

func row(n int32) []domain.CellCoord {
	cells := make([]domain.CellCoord, 0, n)
	for x := n - 1; x >= 0; x-- {
		cells = append(cells, domain.CellCoord{Worldspace: "ws", X: x})
	}
	return cells
}

func activeSet(fp domain.Fingerprint) *domain.ActiveContentSet {
	return &domain.ActiveContentSet{
		Entries:     []domain.ResolvedContent{{File: domain.ContentFile{ID: domain.NewContentID("a.esm")}}},
		Profile:     domain.DefaultCollisionShape(),
		Fingerprint: fp,
	}
}

func newStore(t *testing.T) *tilestore.Store {
	t.Helper()
	store, err := tilestore.OpenWith(filepath.Join(t.TempDir(), "manifest.db"), memfs.New())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newDiskStore(t *testing.T) *tilestore.Store {
	t.Helper()
	store, err := tilestore.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func quietLogger(ctrl *gomock.Controller) *mocks.MockLogger {
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()
	return log
}

// nopTelemetry records nothing. Used inside synctest bubbles.
func nopTelemetry(ctrl *gomock.Controller) *mocks.MockTelemetry {
	vertex := mocks.NewMockVertex(ctrl)
	vertex.EXPECT().Complete(gomock.Any()).AnyTimes()
	vertex.EXPECT().Log(gomock.Any(), gomock.Any()).AnyTimes()

	telemetry := mocks.NewMockTelemetry(ctrl)
	telemetry.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string) (context.Context, ports.Vertex) {
			return ctx, vertex
		}).AnyTimes()
	return telemetry
}

func storedTiles(t *testing.T, store *tilestore.Store) int {
	t.Helper()
	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	return stats.Tiles
}

func TestBeginUpdate_Synchronous(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := newStore(t)
	s := scheduler.NewScheduler(store, progrock.New(), quietLogger(ctrl))

	// Duplicated cells are generated once.
	src := &fakeSource{cells: append(row(4), row(2)...)}
	job, err := s.BeginUpdate(context.Background(), activeSet(1), src, 0)
	require.NoError(t, err)

	assert.True(t, job.State().IsTerminal(), "zero workers runs on the caller")
	assert.Equal(t, domain.JobCompleted, job.State())
	assert.Equal(t, domain.Progress{Done: 4, Total: 4}, s.Progress(job))
	assert.Equal(t, int32(4), src.calls.Load())
	assert.Equal(t, 4, storedTiles(t, store))

	tile, err := store.Get(context.Background(), activeSet(1).TileKey(domain.CellCoord{Worldspace: "ws", X: 2}))
	require.NoError(t, err)
	require.NotNil(t, tile)
	assert.Equal(t, []byte("tile ws(2, 0)"), tile.Payload)
}

func TestBeginUpdate_Idempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := newStore(t)
	s := scheduler.NewScheduler(store, progrock.New(), quietLogger(ctrl))
	src := &fakeSource{cells: row(3), concurrent: true}

	job, err := s.BeginUpdate(context.Background(), activeSet(1), src, 2)
	require.NoError(t, err)
	require.NoError(t, job.Wait(context.Background()))

	again, err := s.BeginUpdate(context.Background(), activeSet(1), src, 2)
	require.NoError(t, err)
	require.NoError(t, again.Wait(context.Background()))

	assert.Equal(t, domain.Progress{Total: 0, Cached: 3}, again.Progress())
	assert.Equal(t, int32(3), src.calls.Load())

	// A different fingerprint shares no tiles.
	other, err := s.BeginUpdate(context.Background(), activeSet(2), src, 2)
	require.NoError(t, err)
	require.NoError(t, other.Wait(context.Background()))
	assert.Equal(t, 3, other.Progress().Done)
	assert.Equal(t, 6, storedTiles(t, store))
}

func TestBeginUpdate_InvalidWorkers(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := scheduler.NewScheduler(newStore(t), progrock.New(), quietLogger(ctrl))

	_, err := s.BeginUpdate(context.Background(), activeSet(1), &fakeSource{}, -1)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrInvalidWorkerCount.Error())
}

func TestBeginUpdate_CapabilityFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := scheduler.NewScheduler(newStore(t), progrock.New(), quietLogger(ctrl))

	job, err := s.BeginUpdate(context.Background(), activeSet(1), &fakeSource{cells: row(3)}, 4)
	require.NoError(t, err)
	require.NoError(t, job.Wait(context.Background()))

	assert.Equal(t, 1, job.Workers())
	assert.Equal(t, domain.JobCompleted, job.State())
	diags := domain.FilterDiagnostics(job.Diagnostics(), domain.DiagCapabilityUnsupported)
	require.Len(t, diags, 1)
	assert.Equal(t, domain.SeverityWarning, diags[0].Severity)
}

func TestBeginUpdate_GenerationFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := newStore(t)
	s := scheduler.NewScheduler(store, progrock.New(), quietLogger(ctrl))

	src := &fakeSource{cells: row(4), concurrent: true, fail: map[int32]bool{1: true}}
	job, err := s.BeginUpdate(context.Background(), activeSet(1), src, 3)
	require.NoError(t, err)
	require.NoError(t, job.Wait(context.Background()))

	assert.Equal(t, domain.JobCompleted, job.State())
	assert.Equal(t, domain.Progress{Done: 3, Total: 4, Failed: 1}, job.Progress())
	assert.Equal(t, 3, storedTiles(t, store))

	failed := job.FailedTiles()
	require.Len(t, failed, 1)
	assert.Equal(t, int32(1), failed[0].Cell.X)

	diags := domain.FilterDiagnostics(job.Diagnostics(), domain.DiagGenerationFailure)
	require.Len(t, diags, 1)
	require.NotNil(t, diags[0].Cell)
	assert.Equal(t, int32(1), diags[0].Cell.X)
	assert.Contains(t, diags[0].Message, "no collision data")
}

func TestJob_CancelKeepsCompletedTiles(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := newStore(t)
	s := scheduler.NewScheduler(store, progrock.New(), quietLogger(ctrl))

	src := &fakeSource{
		cells:   row(6),
		started: make(chan domain.CellCoord),
		proceed: make(chan struct{}),
	}
	job, err := s.BeginUpdate(context.Background(), activeSet(1), src, 1)
	require.NoError(t, err)

	for range 2 {
		<-src.started
		src.proceed <- struct{}{}
	}

	// The third tile is being generated while the job is cancelled.
	<-src.started
	s.Cancel(job)
	assert.Equal(t, domain.JobCancelling, job.State())
	src.proceed <- struct{}{}

	require.NoError(t, job.Wait(context.Background()))
	assert.Equal(t, domain.JobCancelled, job.State())
	assert.Equal(t, 2, job.Progress().Done)
	assert.Equal(t, 4, job.Progress().Remaining())
	assert.Equal(t, 2, storedTiles(t, store))
	assert.Equal(t, int32(3), src.calls.Load())

	// Cancelling a finished job changes nothing.
	job.Cancel()
	assert.Equal(t, domain.JobCancelled, job.State())
}

func TestJob_CancelWithWorkerPool(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := newDiskStore(t)
	s := scheduler.NewScheduler(store, progrock.New(), quietLogger(ctrl))

	cells := row(10)
	src := &fakeSource{
		cells:      cells,
		concurrent: true,
		started:    make(chan domain.CellCoord),
		proceed:    make(chan struct{}),
	}
	job, err := s.BeginUpdate(context.Background(), activeSet(1), src, 4)
	require.NoError(t, err)

	// Four tiles are in flight; three of them finish.
	for range 4 {
		<-src.started
	}
	for range 3 {
		src.proceed <- struct{}{}
	}
	require.Eventually(t, func() bool {
		return job.Progress().Done == 3
	}, 5*time.Second, time.Millisecond)

	s.Cancel(job)
	assert.Equal(t, domain.JobCancelling, job.State())

	// Let the remaining generations run to completion; their results are dropped.
	close(src.proceed)
	go func() {
		for {
			select {
			case <-src.started:
			case <-job.Done():
				return
			}
		}
	}()

	require.NoError(t, job.Wait(context.Background()))
	assert.Equal(t, domain.JobCancelled, job.State())
	assert.Equal(t, 3, job.Progress().Done)
	assert.Equal(t, 7, job.Progress().Remaining())

	var (
		found int
		size  int64
	)
	for _, cell := range cells {
		tile, err := store.Get(context.Background(), activeSet(1).TileKey(cell))
		require.NoError(t, err)
		if tile == nil {
			continue
		}
		found++
		size += tile.Size
	}
	assert.Equal(t, 3, found)

	total, err := store.TotalSize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, size, total)

	report, err := store.Verify(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Orphans)
	assert.Equal(t, total, report.DiskSize)
}

func TestJob_ContextCancellation(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := newStore(t)
	s := scheduler.NewScheduler(store, progrock.New(), quietLogger(ctrl))

	src := &fakeSource{cells: row(5), proceed: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	job, err := s.BeginUpdate(ctx, activeSet(1), src, 1)
	require.NoError(t, err)

	cancel()
	require.Eventually(t, func() bool {
		state := job.State()
		return state == domain.JobCancelling || state.IsTerminal()
	}, 5*time.Second, time.Millisecond)
	close(src.proceed)

	require.NoError(t, job.Wait(context.Background()))
	assert.Equal(t, domain.JobCancelled, job.State())
	assert.Zero(t, job.Progress().Done)
	assert.Zero(t, storedTiles(t, store))
}

func TestBeginUpdate_InProgress(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := newStore(t)
	s := scheduler.NewScheduler(store, progrock.New(), quietLogger(ctrl))

	// One tile of the set is already stored.
	cached := activeSet(1).TileKey(domain.CellCoord{Worldspace: "ws", X: 0})
	require.NoError(t, store.Put(context.Background(), domain.Tile{Key: cached, Payload: []byte("old")}))

	src := &fakeSource{cells: row(2), started: make(chan domain.CellCoord), proceed: make(chan struct{})}
	job, err := s.BeginUpdate(context.Background(), activeSet(1), src, 1)
	require.NoError(t, err)
	<-src.started

	running, ok := s.Active(1)
	require.True(t, ok)
	assert.Same(t, job, running)
	assert.Equal(t, []*scheduler.Job{job}, s.Running())

	_, err = s.BeginUpdate(context.Background(), activeSet(1), src, 1)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrUpdateInProgress.Error())

	// The running job's fingerprint is protected from eviction.
	report, err := store.EvictUnused(context.Background(), 99)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Pinned)
	assert.Zero(t, report.Removed)

	src.proceed <- struct{}{}
	require.NoError(t, job.Wait(context.Background()))
	assert.Equal(t, domain.Progress{Done: 1, Total: 1, Cached: 1}, job.Progress())

	_, ok = s.Active(1)
	assert.False(t, ok)
	assert.Empty(t, s.Running())

	src.started = nil
	next, err := s.BeginUpdate(context.Background(), activeSet(1), src, 1)
	require.NoError(t, err)
	require.NoError(t, next.Wait(context.Background()))
}

func TestBeginUpdate_StoreFull(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockTileStore(ctrl)

		var released atomic.Bool
		store.EXPECT().Pin(domain.Fingerprint(1)).Return(func() { released.Store(true) })
		store.EXPECT().Contains(gomock.Any(), gomock.Any()).Return(false, nil).Times(8)

		var puts atomic.Int32
		store.EXPECT().Put(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, domain.Tile) error {
			if puts.Add(1) > 2 {
				return zerr.With(domain.ErrStoreFull, "max_size", 10)
			}
			return nil
		}).MinTimes(3)

		s := scheduler.NewScheduler(store, nopTelemetry(ctrl), quietLogger(ctrl))
		job, err := s.BeginUpdate(context.Background(), activeSet(1), &fakeSource{cells: row(8), concurrent: true}, 4)
		require.NoError(t, err)

		err = job.Wait(context.Background())
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrStoreFull.Error())
		assert.Equal(t, domain.JobFailed, job.State())
		assert.Equal(t, 2, job.Progress().Done)
		assert.True(t, released.Load())
	})
}

func TestBeginUpdate_EmptySet(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := scheduler.NewScheduler(newStore(t), progrock.New(), quietLogger(ctrl))

	job, err := s.BeginUpdate(context.Background(), activeSet(1), &fakeSource{}, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.JobCompleted, job.State())
	assert.Equal(t, domain.Progress{}, job.Progress())
}
