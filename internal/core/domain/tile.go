package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CellCoord is the integer index of one spatial cell inside a worldspace.
type CellCoord struct {
	Worldspace string
	X          int32
	Y          int32
}

// String renders the cell as "worldspace(x, y)".
func (c CellCoord) String() string {
	return fmt.Sprintf("%s(%d, %d)", c.Worldspace, c.X, c.Y)
}

// Less orders cells by worldspace, then y, then x.
func (c CellCoord) Less(o CellCoord) bool {
	if c.Worldspace != o.Worldspace {
		return c.Worldspace < o.Worldspace
	}
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.X < o.X
}

// ShapeType is the geometric approximation of an actor used for collision.
type ShapeType string

const (
	// ShapeAABB is an axis aligned bounding box.
	ShapeAABB ShapeType = "aabb"
	// ShapeRotatingBox is a box that rotates with the actor.
	ShapeRotatingBox ShapeType = "rotating_box"
	// ShapeCylinder is an upright cylinder.
	ShapeCylinder ShapeType = "cylinder"
)

// ParseShapeType validates a shape type name.
func ParseShapeType(s string) (ShapeType, error) {
	switch t := ShapeType(strings.ToLower(strings.TrimSpace(s))); t {
	case ShapeAABB, ShapeRotatingBox, ShapeCylinder:
		return t, nil
	default:
		return "", ErrInvalidCollisionShape
	}
}

// DefaultHalfExtents are the half extents of the default actor.
var DefaultHalfExtents = [3]float32{29.27999496459961, 28.479997634887695, 66.5}

// CollisionShape is the collision-shape profile tiles are generated for.
type CollisionShape struct {
	Type        ShapeType
	HalfExtents [3]float32
}

// DefaultCollisionShape returns the profile of the default actor.
func DefaultCollisionShape() CollisionShape {
	return CollisionShape{Type: ShapeAABB, HalfExtents: DefaultHalfExtents}
}

// ProfileID returns a stable textual identifier of the profile.
func (c CollisionShape) ProfileID() string {
	var b strings.Builder
	b.WriteString(string(c.Type))
	for i, e := range c.HalfExtents {
		if i == 0 {
			b.WriteByte(':')
		} else {
			b.WriteByte('x')
		}
		b.WriteString(strconv.FormatFloat(float64(e), 'g', -1, 32))
	}
	return b.String()
}

// TileKey fully determines whether a stored tile is reusable.
type TileKey struct {
	Cell        CellCoord
	Profile     string
	Fingerprint Fingerprint
}

// String renders the key for logs.
func (k TileKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Cell, k.Profile, k.Fingerprint)
}

// Tile is a navigation mesh tile.
type Tile struct {
	Key     TileKey
	Payload []byte
	// Size is the number of bytes the tile occupies on disk.
	Size       int64
	LastAccess time.Time
}

// ManifestEntry is the manifest record of a stored tile.
type ManifestEntry struct {
	Key        TileKey
	BlobID     string
	Size       int64
	LastAccess time.Time
	CreatedAt  time.Time
}

// EvictionReport summarizes an eviction pass.
type EvictionReport struct {
	Removed    int
	FreedBytes int64
	// Pinned counts tiles kept because an update job still owns their fingerprint.
	Pinned    int
	TotalSize int64
}

// CorruptEntry is a manifest entry whose blob is missing or has the wrong size.
type CorruptEntry struct {
	Entry      ManifestEntry
	ActualSize int64
	Missing    bool
}

// VerifyReport is the result of checking the manifest against the blobs on disk.
type VerifyReport struct {
	Entries      int
	ManifestSize int64
	DiskSize     int64
	Corrupt      []CorruptEntry
	Orphans      []string
}

// Healthy reports whether the manifest and blobs agree.
func (r *VerifyReport) Healthy() bool {
	return len(r.Corrupt) == 0 && r.ManifestSize == r.DiskSize
}

// FingerprintStats is the share of the store held by one fingerprint.
type FingerprintStats struct {
	Fingerprint Fingerprint
	Tiles       int
	Size        int64
}

// StoreStats is a summary of the store contents.
type StoreStats struct {
	Tiles        int
	TotalSize    int64
	MaxSize      int64
	Fingerprints []FingerprintStats
}
