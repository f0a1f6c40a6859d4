package progrock

import (
	"fmt"
	"io"
	"sync"

	"github.com/vito/progrock"
	"go.trai.ch/navcache/internal/core/domain"
)

// Vertex implements ports.Vertex wrapping *progrock.VertexRecorder.
// Complete and Cached are terminal; only the first of them is recorded.
type Vertex struct {
	id     string
	vertex *progrock.VertexRecorder
	rec    *Recorder
	once   sync.Once
}

// Stdout returns a writer for the vertex output stream.
func (v *Vertex) Stdout() io.Writer {
	return v.vertex.Stdout()
}

// Stderr returns a writer for the vertex error stream.
func (v *Vertex) Stderr() io.Writer {
	return v.vertex.Stderr()
}

// Log writes msg to stderr for warnings and errors and to stdout otherwise.
func (v *Vertex) Log(level domain.LogLevel, msg string) {
	w := v.vertex.Stdout()
	if level >= domain.LogLevelWarn {
		w = v.vertex.Stderr()
	}
	_, _ = fmt.Fprintf(w, "[%s] %s\n", level.String(), msg)
}

// Complete marks the vertex as finished, failed if err is not nil.
func (v *Vertex) Complete(err error) {
	v.once.Do(func() {
		v.vertex.Done(err)
		v.rec.finished(err, false)
	})
}

// Cached marks the vertex as satisfied by a stored tile.
func (v *Vertex) Cached() {
	v.once.Do(func() {
		v.vertex.Cached()
		v.vertex.Done(nil)
		v.rec.finished(nil, true)
	})
}
