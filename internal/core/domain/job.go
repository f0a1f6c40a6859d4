package domain

// JobState is the lifecycle state of a generation job.
type JobState string

const (
	// JobQueued is a job that has been created but not started.
	JobQueued JobState = "queued"
	// JobRunning is a job whose workers are generating tiles.
	JobRunning JobState = "running"
	// JobCompleted is a job that processed every stale tile. Some tiles may have failed.
	JobCompleted JobState = "completed"
	// JobCancelling is a job whose workers are finishing their current tile.
	JobCancelling JobState = "cancelling"
	// JobCancelled is a job that stopped early. Stored tiles are kept.
	JobCancelled JobState = "cancelled"
	// JobFailed is a job stopped by a store failure.
	JobFailed JobState = "failed"
)

// IsTerminal reports whether the job will not change state anymore.
func (s JobState) IsTerminal() bool {
	switch s {
	case JobCompleted, JobCancelled, JobFailed:
		return true
	default:
		return false
	}
}

// Progress is a snapshot of a job's counters.
type Progress struct {
	// Done is the number of tiles generated and stored by this job.
	Done int
	// Total is the number of stale tiles the job set out to generate.
	Total int
	// Failed is the number of tiles whose generation failed.
	Failed int
	// Cached is the number of required tiles that were already in the store.
	Cached int
}

// Remaining returns the number of tiles not yet processed.
func (p Progress) Remaining() int {
	return p.Total - p.Done - p.Failed
}
