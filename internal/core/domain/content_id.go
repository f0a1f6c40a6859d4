package domain

import (
	"strings"
	"unique"
)

// ContentID is the case-insensitive identity of a content file.
// Two file names that differ only in letter case resolve to the same ContentID.
type ContentID struct {
	h unique.Handle[string]
}

// NewContentID creates a ContentID from a file name.
// The name is trimmed and folded to lower case before it is interned.
func NewContentID(name string) ContentID {
	return ContentID{
		h: unique.Make(strings.ToLower(strings.TrimSpace(name))),
	}
}

// NewContentIDs creates a ContentID slice from a slice of file names.
func NewContentIDs(names []string) []ContentID {
	res := make([]ContentID, len(names))
	for i, n := range names {
		res[i] = NewContentID(n)
	}
	return res
}

// String returns the normalized file name.
func (id ContentID) String() string {
	if id == (ContentID{}) {
		return ""
	}
	return id.h.Value()
}

// IsZero reports whether the ID was never assigned or was built from an empty name.
func (id ContentID) IsZero() bool {
	return id.String() == ""
}

// MarshalText implements encoding.TextMarshaler.
func (id ContentID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// The text goes through the same normalization as NewContentID.
func (id *ContentID) UnmarshalText(text []byte) error {
	*id = NewContentID(string(text))
	return nil
}
