package domain

import "go.trai.ch/zerr"

var (
	// ErrContentUnreadable is returned when a content file cannot be opened or read.
	ErrContentUnreadable = zerr.New("content file unreadable")

	// ErrContentTruncated is returned when a content file header ends early.
	ErrContentTruncated = zerr.New("content file truncated")

	// ErrContentMalformed is returned when a content file header is not well formed.
	ErrContentMalformed = zerr.New("malformed content file header")

	// ErrUnsupportedContent is returned when a file has an extension the catalog does not load.
	ErrUnsupportedContent = zerr.New("unsupported content file type")

	// ErrDataDirUnreadable is returned when a data directory exists but cannot be listed.
	ErrDataDirUnreadable = zerr.New("failed to read data directory")

	// ErrConfigReadFailed is returned when a configuration layer cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config layer")

	// ErrConfigParseFailed is returned when a configuration layer cannot be decoded.
	ErrConfigParseFailed = zerr.New("failed to parse config layer")

	// ErrUnsupportedConfigFormat is returned for config layers that are neither YAML nor TOML.
	ErrUnsupportedConfigFormat = zerr.New("unsupported config layer format")

	// ErrInvalidReplaceTarget is returned when a layer asks to replace something other than content.
	ErrInvalidReplaceTarget = zerr.New("invalid replace target")

	// ErrSettingsReadFailed is returned when the settings file cannot be loaded.
	ErrSettingsReadFailed = zerr.New("failed to read settings")

	// ErrInvalidSettings is returned when a settings value cannot be interpreted.
	ErrInvalidSettings = zerr.New("invalid settings")

	// ErrInvalidCollisionShape is returned for unknown collision shape names.
	ErrInvalidCollisionShape = zerr.New("invalid collision shape")

	// ErrInvalidFingerprint is returned when a fingerprint string cannot be parsed.
	ErrInvalidFingerprint = zerr.New("invalid fingerprint")

	// ErrInvalidSize is returned when a size string cannot be parsed.
	ErrInvalidSize = zerr.New("invalid size")

	// ErrStoreOpenFailed is returned when the tile store cannot be opened.
	ErrStoreOpenFailed = zerr.New("failed to open tile store")

	// ErrStoreReadFailed is returned when the manifest or a blob cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read from tile store")

	// ErrStoreWriteFailed is returned when a blob or manifest write fails.
	ErrStoreWriteFailed = zerr.New("failed to write to tile store")

	// ErrStoreFull is returned when a put would grow the store beyond its max size.
	ErrStoreFull = zerr.New("not enough space in tile store")

	// ErrStoreCorruption is returned when manifest and blobs disagree.
	ErrStoreCorruption = zerr.New("tile store corruption detected")

	// ErrStoreClosed is returned when the store is used after Close.
	ErrStoreClosed = zerr.New("tile store is closed")

	// ErrEvictionIncomplete is returned when eviction cannot reach the limit because tiles are pinned.
	ErrEvictionIncomplete = zerr.New("eviction could not reach the size limit")

	// ErrInvalidWorkerCount is returned when a negative worker count is requested.
	ErrInvalidWorkerCount = zerr.New("worker count must not be negative")

	// ErrCellEnumerationFailed is returned when the geometry source cannot list cells.
	ErrCellEnumerationFailed = zerr.New("failed to enumerate cells")

	// ErrTileGenerationFailed is recorded when a geometry source fails for a single tile.
	ErrTileGenerationFailed = zerr.New("tile generation failed")

	// ErrUpdateInProgress is returned when an update is requested while another one runs.
	ErrUpdateInProgress = zerr.New("an update is already in progress")

	// ErrNoActiveUpdate is returned when cancel is requested with no update running.
	ErrNoActiveUpdate = zerr.New("no update in progress")
)
