package ports

import (
	"context"

	"go.trai.ch/navcache/internal/core/domain"
)

// ContentCatalog enumerates the content files available in the data directories.
//
//go:generate go run go.uber.org/mock/mockgen -source=catalog.go -destination=mocks/mock_catalog.go -package=mocks
type ContentCatalog interface {
	// List returns the content files in discovery order.
	// Files that fail to parse are reported as diagnostics and left out of the result.
	List(ctx context.Context) ([]domain.ContentFile, []domain.Diagnostic, error)

	// Parse reads a single content file.
	Parse(path string) (domain.ContentFile, error)
}

// ContentIndex keeps parsed content files between runs so unchanged files are not read again.
type ContentIndex interface {
	// LookupContent returns the file last recorded for path.
	LookupContent(ctx context.Context, path string) (domain.ContentFile, bool, error)

	// StoreContent records a parsed file under its path, replacing any earlier record.
	StoreContent(ctx context.Context, file domain.ContentFile) error
}
