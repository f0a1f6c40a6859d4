// Package progrock records update jobs and tile generation as progrock vertices.
package progrock

import (
	"context"
	"sync"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/navcache/internal/core/ports"
)

var _ ports.Telemetry = (*Recorder)(nil)

// Summary counts the vertices a Recorder has seen finish.
type Summary struct {
	Started   int
	Completed int
	Failed    int
	Cached    int
}

// Recorder implements ports.Telemetry on a progrock writer.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder

	mu      sync.Mutex
	summary Summary
}

// New creates a Recorder writing to an in-memory tape.
func New() *Recorder {
	return NewRecorder(progrock.NewTape())
}

// NewRecorder creates a Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Record starts a vertex named name. Vertices nested under a vertex already in ctx
// get a digest derived from the parent, so equal tile names in different jobs stay apart.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	id := name
	if parent, ok := ports.VertexFromContext(ctx).(*Vertex); ok {
		id = parent.id + "/" + name
	}

	vertex := &Vertex{
		id:     id,
		vertex: r.rec.Vertex(digest.FromString(id), name),
		rec:    r,
	}

	r.mu.Lock()
	r.summary.Started++
	r.mu.Unlock()

	return ports.ContextWithVertex(ctx, vertex), vertex
}

// Summary returns the counts recorded so far.
func (r *Recorder) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summary
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

func (r *Recorder) finished(err error, cached bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case cached:
		r.summary.Cached++
	case err != nil:
		r.summary.Failed++
	default:
		r.summary.Completed++
	}
}
