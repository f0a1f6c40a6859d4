// Package app implements the application layer for navcache.
package app

import (
	"context"
	"fmt"
	"time"

	"go.trai.ch/navcache/internal/core/domain"
	"go.trai.ch/navcache/internal/core/ports"
	"go.trai.ch/navcache/internal/engine/resolver"
	"go.trai.ch/navcache/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// DefaultPollInterval is how often Update reports progress.
const DefaultPollInterval = 250 * time.Millisecond

// Config holds the application values taken from the settings.
type Config struct {
	Profile domain.CollisionShape
	Threads int
}

// App represents the main application logic.
type App struct {
	catalog   ports.ContentCatalog
	layers    ports.LayerSource
	resolver  *resolver.Resolver
	scheduler *scheduler.Scheduler
	store     ports.TileStore
	source    ports.GeometrySource
	logger    ports.Logger
	config    Config
}

// New creates a new App instance.
func New(
	catalog ports.ContentCatalog,
	layers ports.LayerSource,
	res *resolver.Resolver,
	sched *scheduler.Scheduler,
	store ports.TileStore,
	source ports.GeometrySource,
	logger ports.Logger,
	config Config,
) *App {
	return &App{
		catalog:   catalog,
		layers:    layers,
		resolver:  res,
		scheduler: sched,
		store:     store,
		source:    source,
		logger:    logger,
		config:    config,
	}
}

// Resolve enumerates the content files, reads the configuration layers and resolves the
// active content set. Catalog parse errors come first in the set's diagnostics.
func (a *App) Resolve(ctx context.Context) (*domain.ActiveContentSet, error) {
	files, parseDiags, err := a.catalog.List(ctx)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to list content files")
	}

	stack, err := a.layers.Layers(ctx)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration layers")
	}

	set := a.resolver.Resolve(files, stack, a.config.Profile)
	set.Diagnostics = append(parseDiags, set.Diagnostics...)
	return set, nil
}

// UpdateOptions configures Update.
type UpdateOptions struct {
	// Threads is the worker count. Negative values use the configured default.
	Threads int
	// RemoveUnused evicts tiles of other content sets once the update completes.
	RemoveUnused bool
	// PollInterval overrides DefaultPollInterval.
	PollInterval time.Duration
	// OnProgress, if set, is called periodically and once more when the job ends.
	OnProgress func(domain.Progress)
}

// UpdateResult describes a finished update.
type UpdateResult struct {
	Set         *domain.ActiveContentSet
	State       domain.JobState
	Progress    domain.Progress
	Workers     int
	Diagnostics []domain.Diagnostic
	Eviction    *domain.EvictionReport
}

// Update regenerates the tiles the current content set is missing and waits for the job.
// Cancelling ctx cancels the job; tiles stored until then are kept and Update returns
// once the workers have stopped.
func (a *App) Update(ctx context.Context, opts UpdateOptions) (*UpdateResult, error) {
	set, err := a.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range set.Diagnostics {
		a.logger.Warn(d.String())
	}

	threads := opts.Threads
	if threads < 0 {
		threads = a.config.Threads
	}

	job, err := a.scheduler.BeginUpdate(ctx, set, a.source, threads)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to start navmesh update")
	}

	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	a.await(job, interval, opts.OnProgress)

	result := &UpdateResult{
		Set:         set,
		State:       job.State(),
		Progress:    job.Progress(),
		Workers:     job.Workers(),
		Diagnostics: job.Diagnostics(),
	}
	if err := job.Err(); err != nil {
		return result, zerr.Wrap(err, "navmesh update failed")
	}

	if opts.RemoveUnused && result.State == domain.JobCompleted {
		report, err := a.store.EvictUnused(context.WithoutCancel(ctx), set.Fingerprint)
		if err != nil {
			return result, zerr.Wrap(err, "failed to remove unused tiles")
		}
		result.Eviction = &report
	}
	return result, nil
}

// await polls job until it is terminal. It does not give up on cancellation of the
// caller's context; the job reacts to that itself.
func (a *App) await(job *scheduler.Job, interval time.Duration, onProgress func(domain.Progress)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-job.Done():
			if onProgress != nil {
				onProgress(job.Progress())
			}
			return
		case <-ticker.C:
			if onProgress != nil {
				onProgress(job.Progress())
			}
		}
	}
}

// Cancel cancels every running update. The configuration is not resolved again, so
// an update keeps being reachable after its layers or content files change on disk.
func (a *App) Cancel(_ context.Context) error {
	jobs := a.scheduler.Running()
	if len(jobs) == 0 {
		return domain.ErrNoActiveUpdate
	}
	for _, job := range jobs {
		a.logger.Info("cancelling navmesh update " + job.Fingerprint().String())
		a.scheduler.Cancel(job)
	}
	return nil
}

// EvictUnused removes every tile that does not belong to the current content set.
func (a *App) EvictUnused(ctx context.Context) (domain.EvictionReport, error) {
	set, err := a.Resolve(ctx)
	if err != nil {
		return domain.EvictionReport{}, err
	}

	report, err := a.store.EvictUnused(ctx, set.Fingerprint)
	if err != nil {
		return report, zerr.Wrap(err, "failed to remove unused tiles")
	}
	a.logger.Info(fmt.Sprintf("removed %d unused tiles", report.Removed))
	return report, nil
}

// MaxSize returns the configured cache size cap, 0 meaning unlimited.
func (a *App) MaxSize(ctx context.Context) (int64, error) {
	return a.store.MaxSize(ctx)
}

// SetMaxSize stores a new cache size cap and evicts least recently used tiles until the
// cache fits. A limit of 0 removes the cap.
func (a *App) SetMaxSize(ctx context.Context, limit int64) (domain.EvictionReport, error) {
	if limit < 0 {
		return domain.EvictionReport{}, zerr.With(domain.ErrInvalidSize, "max_size", limit)
	}
	if err := a.store.SetMaxSize(ctx, limit); err != nil {
		return domain.EvictionReport{}, zerr.Wrap(err, "failed to set max cache size")
	}
	if limit == 0 {
		total, err := a.store.TotalSize(ctx)
		return domain.EvictionReport{TotalSize: total}, err
	}
	return a.store.EnforceMaxSize(ctx, limit)
}

// Verify checks the store for missing, mismatched and orphaned blobs.
func (a *App) Verify(ctx context.Context) (domain.VerifyReport, error) {
	return a.store.Verify(ctx)
}

// Stats summarizes the store contents.
func (a *App) Stats(ctx context.Context) (domain.StoreStats, error) {
	return a.store.Stats(ctx)
}
