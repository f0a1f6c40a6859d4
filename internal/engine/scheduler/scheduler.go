// Package scheduler regenerates the navmesh tiles an active content set is missing.
package scheduler

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.trai.ch/navcache/internal/core/domain"
	"go.trai.ch/navcache/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Scheduler starts update jobs and tracks the running ones. At most one job per
// fingerprint runs at a time.
type Scheduler struct {
	store     ports.TileStore
	telemetry ports.Telemetry
	logger    ports.Logger

	mu     sync.Mutex
	active map[domain.Fingerprint]*Job
}

// NewScheduler creates a new Scheduler.
func NewScheduler(store ports.TileStore, telemetry ports.Telemetry, logger ports.Logger) *Scheduler {
	return &Scheduler{
		store:     store,
		telemetry: telemetry,
		logger:    logger,
		active:    make(map[domain.Fingerprint]*Job),
	}
}

// BeginUpdate computes the tiles of set missing from the store and starts generating them
// with the given number of workers. Zero workers generates every tile on the calling
// goroutine before returning; the returned job is then already terminal.
//
// Cancelling ctx cancels the job.
func (s *Scheduler) BeginUpdate(
	ctx context.Context,
	set *domain.ActiveContentSet,
	source ports.GeometrySource,
	workers int,
) (*Job, error) {
	if workers < 0 {
		return nil, zerr.With(domain.ErrInvalidWorkerCount, "workers", workers)
	}

	job := newJob(uuid.NewString(), set, source, workers)
	if workers > 1 && !source.SupportsConcurrency() {
		job.workers = 1
		job.addDiagnostic(domain.Diagnostic{
			Kind:     domain.DiagCapabilityUnsupported,
			Severity: domain.SeverityWarning,
			Message:  fmt.Sprintf("geometry source does not support concurrent generation, using 1 worker instead of %d", workers),
		})
		s.logger.Warn("geometry source does not support concurrent generation, using a single worker")
	}

	if err := s.register(job); err != nil {
		return nil, err
	}

	release := s.store.Pin(set.Fingerprint)
	if err := s.plan(ctx, job); err != nil {
		release()
		s.unregister(job)
		return nil, err
	}

	if workers == 0 {
		s.run(ctx, job, release)
		return job, nil
	}
	go s.run(ctx, job, release)
	return job, nil
}

// Cancel stops job between tiles.
func (s *Scheduler) Cancel(job *Job) {
	job.Cancel()
}

// Progress returns a snapshot of job's counters.
func (s *Scheduler) Progress(job *Job) domain.Progress {
	return job.Progress()
}

// Active returns the running job for fp, if any.
func (s *Scheduler) Active(fp domain.Fingerprint) (*Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.active[fp]
	return job, ok
}

// Running returns the running jobs ordered by fingerprint.
func (s *Scheduler) Running() []*Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	jobs := make([]*Job, 0, len(s.active))
	for _, job := range s.active {
		jobs = append(jobs, job)
	}
	slices.SortFunc(jobs, func(a, b *Job) int {
		return cmp.Compare(a.Fingerprint(), b.Fingerprint())
	})
	return jobs
}

func (s *Scheduler) register(job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if running, ok := s.active[job.Fingerprint()]; ok {
		return zerr.With(zerr.With(domain.ErrUpdateInProgress, "fingerprint", job.Fingerprint().String()),
			"job", running.ID())
	}
	s.active[job.Fingerprint()] = job
	return nil
}

func (s *Scheduler) unregister(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active[job.Fingerprint()] == job {
		delete(s.active, job.Fingerprint())
	}
}

// plan fills job.keys with the stale tiles of the set in cell order.
func (s *Scheduler) plan(ctx context.Context, job *Job) error {
	cells, err := job.source.CellsOverlapping(ctx, job.set)
	if err != nil {
		return zerr.Wrap(err, domain.ErrCellEnumerationFailed.Error())
	}

	slices.SortFunc(cells, func(a, b domain.CellCoord) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		default:
			return 0
		}
	})
	cells = slices.Compact(cells)

	var cached int
	keys := make([]domain.TileKey, 0, len(cells))
	for _, cell := range cells {
		key := job.set.TileKey(cell)
		ok, err := s.store.Contains(ctx, key)
		if err != nil {
			return err
		}
		if ok {
			cached++
			continue
		}
		keys = append(keys, key)
	}

	job.mu.Lock()
	job.keys = keys
	job.progress = domain.Progress{Total: len(keys), Cached: cached}
	job.mu.Unlock()
	return nil
}

func (s *Scheduler) run(ctx context.Context, job *Job, release func()) {
	vctx, vertex := s.telemetry.Record(ctx, "update "+job.Fingerprint().String())
	stop := context.AfterFunc(ctx, job.Cancel)

	job.setRunning()

	// Generation is cancelled only through the job, between tiles.
	genCtx := context.WithoutCancel(vctx)

	var err error
	if job.workers == 0 {
		for i := range job.keys {
			if job.cancelRequested() {
				break
			}
			if err = s.generate(genCtx, job, i); err != nil {
				break
			}
		}
	} else {
		err = s.runPool(genCtx, job)
	}

	stop()
	vertex.Complete(err)
	if err != nil {
		s.logger.Error(err)
	} else {
		verb := "finished"
		if job.cancelRequested() {
			verb = "cancelled"
		}
		p := job.Progress()
		s.logger.Info(fmt.Sprintf("navmesh update %s: %d generated, %d cached, %d failed, %d skipped",
			verb, p.Done, p.Cached, p.Failed, p.Remaining()))
	}

	release()
	s.unregister(job)
	job.finish(err)
}

func (s *Scheduler) runPool(ctx context.Context, job *Job) error {
	g, gctx := errgroup.WithContext(ctx)
	feed := make(chan int)

	g.Go(func() error {
		defer close(feed)
		for i := range job.keys {
			if job.cancelRequested() {
				return nil
			}
			select {
			case feed <- i:
			case <-gctx.Done():
				return nil
			}
		}
		return nil
	})

	for range job.workers {
		g.Go(func() error {
			for i := range feed {
				if gctx.Err() != nil || job.cancelRequested() {
					continue
				}
				if err := s.generate(gctx, job, i); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return g.Wait()
}

// generate builds and stores one tile. Generation failures are recorded on the job;
// only store failures are returned.
func (s *Scheduler) generate(ctx context.Context, job *Job, i int) error {
	key := job.keys[i]
	tctx, vertex := s.telemetry.Record(ctx, "tile "+key.Cell.String())

	payload, err := job.source.GenerateTile(tctx, key.Cell, job.set.Profile)
	if err != nil {
		err = zerr.With(zerr.Wrap(err, domain.ErrTileGenerationFailed.Error()), "cell", key.Cell.String())
		job.recordFailure(i, err)
		vertex.Complete(err)
		return nil
	}

	stored, err := job.commit(i, func() error {
		return s.store.Put(ctx, domain.Tile{Key: key, Payload: payload})
	})
	if err != nil {
		vertex.Complete(err)
		return zerr.With(err, "tile", key.String())
	}
	if !stored {
		vertex.Log(domain.LogLevelInfo, "discarded after cancellation")
	}
	vertex.Complete(nil)
	return nil
}
