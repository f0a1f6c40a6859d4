package domain

import (
	"fmt"
	"strconv"
)

// Fingerprint identifies a resolved content set together with its collision-shape profile.
type Fingerprint uint64

// String renders the fingerprint as 16 hex digits.
func (f Fingerprint) String() string {
	return fmt.Sprintf("%016x", uint64(f))
}

// ParseFingerprint parses the output of Fingerprint.String.
func ParseFingerprint(s string) (Fingerprint, error) {
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, ErrInvalidFingerprint
	}
	return Fingerprint(v), nil
}

// ResolvedContent is one entry of an ActiveContentSet.
type ResolvedContent struct {
	File ContentFile
	// Source is the name of the layer whose directive activated the file.
	Source string
	// Lockable is true when the file stays active even if the user layer says nothing about it,
	// so it can only be turned off by an explicit user directive.
	Lockable bool
}

// ActiveContentSet is the validated, ordered result of resolution.
// It is replaced as a whole and never updated in place.
type ActiveContentSet struct {
	Entries     []ResolvedContent
	Profile     CollisionShape
	Fingerprint Fingerprint
	Diagnostics []Diagnostic
}

// IDs returns the identities in load order.
func (s *ActiveContentSet) IDs() []ContentID {
	ids := make([]ContentID, len(s.Entries))
	for i := range s.Entries {
		ids[i] = s.Entries[i].File.ID
	}
	return ids
}

// IndexOf returns the load order position of id, or -1.
func (s *ActiveContentSet) IndexOf(id ContentID) int {
	for i := range s.Entries {
		if s.Entries[i].File.ID == id {
			return i
		}
	}
	return -1
}

// Len returns the number of active files.
func (s *ActiveContentSet) Len() int {
	return len(s.Entries)
}

// HasErrors reports whether the set carries error diagnostics.
func (s *ActiveContentSet) HasErrors() bool {
	return HasErrors(s.Diagnostics)
}

// TileKey returns the key of cell under this set.
func (s *ActiveContentSet) TileKey(cell CellCoord) TileKey {
	return TileKey{Cell: cell, Profile: s.Profile.ProfileID(), Fingerprint: s.Fingerprint}
}
