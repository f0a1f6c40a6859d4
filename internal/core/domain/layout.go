package domain

import "path/filepath"

const (
	// CacheDirName is the default name of the navigation mesh cache directory.
	CacheDirName = ".navcache"

	// ManifestFileName is the name of the sqlite manifest inside the cache directory.
	ManifestFileName = "manifest.db"

	// BlobDirName is the name of the tile blob directory inside the cache directory.
	BlobDirName = "tiles"

	// SettingsFileName is the base name of the settings file.
	SettingsFileName = "navcache"

	// DefaultBuiltinContent is the content file the base layer always activates first.
	DefaultBuiltinContent = "builtin.omwscripts"

	// DefaultMaxSize is the default cap on the total size of stored tiles.
	DefaultMaxSize = "2GiB"

	// DefaultWorldspace is the worldspace generated when none is configured.
	DefaultWorldspace = "sys::default"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultCachePath returns the default root of the tile cache.
func DefaultCachePath() string {
	return CacheDirName
}

// ManifestPath returns the manifest path inside the cache directory dir.
func ManifestPath(dir string) string {
	return filepath.Join(dir, ManifestFileName)
}

// BlobPath returns the blob directory inside the cache directory dir.
func BlobPath(dir string) string {
	return filepath.Join(dir, BlobDirName)
}
