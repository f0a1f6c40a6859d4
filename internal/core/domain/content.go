package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// Origin classifies where a content file comes from.
type Origin int

const (
	// OriginDiscovered marks a file found in one of the data directories.
	OriginDiscovered Origin = iota
	// OriginBuiltin marks the built-in base content that is always loaded first.
	OriginBuiltin
)

// String returns the lower-case name of the origin.
func (o Origin) String() string {
	if o == OriginBuiltin {
		return "builtin"
	}
	return "discovered"
}

// ContentKind is derived from the file extension.
type ContentKind int

const (
	// KindUnknown is any extension the catalog does not load.
	KindUnknown ContentKind = iota
	// KindGameFile is a master file (.esm, .omwgame).
	KindGameFile
	// KindAddon is a plugin file (.esp, .omwaddon).
	KindAddon
	// KindScripts is a script manifest (.omwscripts).
	KindScripts
)

// String returns a short label for the kind.
func (k ContentKind) String() string {
	switch k {
	case KindGameFile:
		return "game"
	case KindAddon:
		return "addon"
	case KindScripts:
		return "scripts"
	default:
		return "unknown"
	}
}

// KindFromPath classifies a file name by its extension.
func KindFromPath(path string) ContentKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".esm", ".omwgame":
		return KindGameFile
	case ".esp", ".omwaddon":
		return KindAddon
	case ".omwscripts":
		return KindScripts
	default:
		return KindUnknown
	}
}

// ContentMetadata is the free-form header information of a content file.
type ContentMetadata struct {
	Author        string
	Description   string
	HeaderVersion float32
	FormatVersion int32
	RecordCount   uint32
	Size          int64
	ModTime       time.Time
}

// Dependency is a declared master of a content file.
type Dependency struct {
	ID ContentID
	// Size is the byte size of the master recorded when the file was saved. Zero if unknown.
	Size uint64
}

// ContentFile is a parsed content file. It is immutable once returned by the catalog.
type ContentFile struct {
	ID           ContentID
	Name         string
	Path         string
	Kind         ContentKind
	Origin       Origin
	Dependencies []Dependency
	Hash         uint64
	Metadata     ContentMetadata
}

// IsGameFile reports whether the file is a master that other files build upon.
func (c *ContentFile) IsGameFile() bool {
	return c.Kind == KindGameFile
}

// DependencyIDs returns the identities of the declared dependencies in declaration order.
func (c *ContentFile) DependencyIDs() []ContentID {
	ids := make([]ContentID, len(c.Dependencies))
	for i, d := range c.Dependencies {
		ids[i] = d.ID
	}
	return ids
}
