package fs

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/navcache/internal/core/domain"
	"go.trai.ch/navcache/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher provides hashing for content files and content set fingerprints.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// HashContent computes the XXHash of a content file's bytes.
func (h *Hasher) HashContent(r io.Reader) (uint64, error) {
	hasher := xxhash.New()
	if _, err := io.Copy(hasher, r); err != nil {
		return 0, zerr.Wrap(err, "failed to hash content")
	}
	return hasher.Sum64(), nil
}

// Fingerprint computes a single hash over the load order, the content hash of every
// entry and the collision shape. Reordering entries changes the result.
func (h *Hasher) Fingerprint(entries []domain.ResolvedContent, shape domain.CollisionShape) domain.Fingerprint {
	hasher := xxhash.New()
	var buf [8]byte

	for i := range entries {
		_, _ = hasher.WriteString(entries[i].File.ID.String())
		_, _ = hasher.Write([]byte{0}) // Separator

		binary.LittleEndian.PutUint64(buf[:], entries[i].File.Hash)
		_, _ = hasher.Write(buf[:])
	}
	_, _ = hasher.Write([]byte{0}) // Section separator

	h.hashShape(shape, hasher)

	return domain.Fingerprint(hasher.Sum64())
}

func (h *Hasher) hashShape(shape domain.CollisionShape, hasher *xxhash.Digest) {
	_, _ = hasher.WriteString(string(shape.Type))
	_, _ = hasher.Write([]byte{0})

	var buf [4]byte
	for _, e := range shape.HalfExtents {
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(e))
		_, _ = hasher.Write(buf[:])
	}
}
