package ports

import (
	"context"
	"io"

	"go.trai.ch/navcache/internal/core/domain"
)

// Telemetry records progress of update jobs and their tiles.
//
//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks
type Telemetry interface {
	// Record starts a new vertex and returns a context carrying it.
	Record(ctx context.Context, name string) (context.Context, Vertex)
	// Close flushes the recording.
	Close() error
}

// Vertex is a single unit of recorded work.
type Vertex interface {
	// Stdout returns a writer for the vertex output stream.
	Stdout() io.Writer
	// Stderr returns a writer for the vertex error stream.
	Stderr() io.Writer
	// Log attaches a message to the vertex.
	Log(level domain.LogLevel, msg string)
	// Complete marks the vertex as finished, failed if err is not nil.
	Complete(err error)
	// Cached marks the vertex as satisfied by stored data.
	Cached()
}

type vertexKey struct{}

// ContextWithVertex returns a copy of ctx carrying v.
func ContextWithVertex(ctx context.Context, v Vertex) context.Context {
	return context.WithValue(ctx, vertexKey{}, v)
}

// VertexFromContext returns the vertex stored in ctx, or nil.
func VertexFromContext(ctx context.Context) Vertex {
	v, _ := ctx.Value(vertexKey{}).(Vertex)
	return v
}
