package ports

import (
	"io"

	"go.trai.ch/navcache/internal/core/domain"
)

// Hasher defines the interface for computing content hashes and set fingerprints.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// HashContent hashes the bytes of a content file.
	HashContent(r io.Reader) (uint64, error)

	// Fingerprint hashes the ordered entries of a content set together with the collision shape.
	Fingerprint(entries []domain.ResolvedContent, shape domain.CollisionShape) domain.Fingerprint
}
