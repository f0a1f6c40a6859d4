package scheduler

import (
	"context"
	"sync"

	"github.com/RoaringBitmap/roaring"
	"go.trai.ch/navcache/internal/core/domain"
	"go.trai.ch/navcache/internal/core/ports"
)

// Job is a handle to one cache update. All methods are safe for concurrent use.
type Job struct {
	id      string
	set     *domain.ActiveContentSet
	source  ports.GeometrySource
	workers int
	keys    []domain.TileKey

	// commitMu orders commits against Cancel: commits hold the read lock,
	// Cancel takes the write lock to flip cancelled.
	commitMu  sync.RWMutex
	cancelled bool

	mu       sync.Mutex
	state    domain.JobState
	progress domain.Progress
	stored   *roaring.Bitmap
	failed   *roaring.Bitmap
	diags    []domain.Diagnostic
	err      error
	done     chan struct{}
}

func newJob(id string, set *domain.ActiveContentSet, source ports.GeometrySource, workers int) *Job {
	return &Job{
		id:      id,
		set:     set,
		source:  source,
		workers: workers,
		state:   domain.JobQueued,
		stored:  roaring.New(),
		failed:  roaring.New(),
		done:    make(chan struct{}),
	}
}

// ID returns the unique job identifier.
func (j *Job) ID() string {
	return j.id
}

// Fingerprint returns the fingerprint of the content set being generated.
func (j *Job) Fingerprint() domain.Fingerprint {
	return j.set.Fingerprint
}

// Workers returns the effective worker count after capability fallback.
func (j *Job) Workers() int {
	return j.workers
}

// State returns the current lifecycle state.
func (j *Job) State() domain.JobState {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// Progress returns a snapshot of the counters.
func (j *Job) Progress() domain.Progress {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.progress
}

// Diagnostics returns the capability and generation diagnostics collected so far.
func (j *Job) Diagnostics() []domain.Diagnostic {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]domain.Diagnostic, len(j.diags))
	copy(out, j.diags)
	return out
}

// FailedTiles returns the keys whose generation failed, in key order.
func (j *Job) FailedTiles() []domain.TileKey {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]domain.TileKey, 0, j.failed.GetCardinality())
	for _, i := range j.failed.ToArray() {
		out = append(out, j.keys[i])
	}
	return out
}

// Err returns the store failure that stopped the job, if any.
func (j *Job) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

// Done is closed once the job reaches a terminal state.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the job is terminal or ctx is done.
func (j *Job) Wait(ctx context.Context) error {
	select {
	case <-j.done:
		return j.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel stops the job between tiles. When Cancel returns no further tile is stored;
// tiles stored before are kept. Cancelling a terminal job does nothing.
func (j *Job) Cancel() {
	j.commitMu.Lock()
	j.cancelled = true
	j.commitMu.Unlock()

	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.state.IsTerminal() {
		j.state = domain.JobCancelling
	}
}

func (j *Job) cancelRequested() bool {
	j.commitMu.RLock()
	defer j.commitMu.RUnlock()
	return j.cancelled
}

// commit runs put unless the job was cancelled. It reports whether put ran.
func (j *Job) commit(i int, put func() error) (bool, error) {
	j.commitMu.RLock()
	defer j.commitMu.RUnlock()
	if j.cancelled {
		return false, nil
	}
	if err := put(); err != nil {
		return true, err
	}

	j.mu.Lock()
	j.stored.Add(uint32(i)) //nolint:gosec // i indexes keys
	j.progress.Done = int(j.stored.GetCardinality())
	j.mu.Unlock()
	return true, nil
}

func (j *Job) recordFailure(i int, err error) {
	key := j.keys[i]
	cell := key.Cell

	j.mu.Lock()
	defer j.mu.Unlock()
	j.failed.Add(uint32(i)) //nolint:gosec // i indexes keys
	j.progress.Failed = int(j.failed.GetCardinality())
	j.diags = append(j.diags, domain.Diagnostic{
		Kind:     domain.DiagGenerationFailure,
		Severity: domain.SeverityError,
		Cell:     &cell,
		Message:  err.Error(),
	})
}

func (j *Job) addDiagnostic(d domain.Diagnostic) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.diags = append(j.diags, d)
}

func (j *Job) setRunning() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state == domain.JobQueued {
		j.state = domain.JobRunning
	}
}

func (j *Job) finish(err error) {
	cancelled := j.cancelRequested()

	j.mu.Lock()
	defer j.mu.Unlock()
	switch {
	case err != nil:
		j.state = domain.JobFailed
		j.err = err
	case cancelled:
		j.state = domain.JobCancelled
	default:
		j.state = domain.JobCompleted
	}
	close(j.done)
}
