// Package tilestore implements the persistent navigation mesh tile cache.
//
// The manifest is a sqlite database; tile payloads are zstd-compressed blobs in a
// separate directory. Every blob is written under a fresh name before the manifest
// row that references it is committed, so a crash leaves at most an orphaned blob.
package tilestore

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"path"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"go.trai.ch/navcache/internal/core/domain"
	"go.trai.ch/navcache/internal/core/ports"
	"go.trai.ch/zerr"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

var _ ports.TileStore = (*Store)(nil)

const (
	blobExt      = ".tile"
	tempPrefix   = "tmp-"
	metaMaxSize  = "max_size"
	keyPredicate = "worldspace = ? AND cell_x = ? AND cell_y = ? AND profile = ? AND fingerprint = ?"
)

const schema = `
CREATE TABLE IF NOT EXISTS tiles (
	worldspace  TEXT    NOT NULL,
	cell_x      INTEGER NOT NULL,
	cell_y      INTEGER NOT NULL,
	profile     TEXT    NOT NULL,
	fingerprint TEXT    NOT NULL,
	blob_id     TEXT    NOT NULL,
	size_bytes  INTEGER NOT NULL,
	last_access INTEGER NOT NULL,
	created_at  INTEGER NOT NULL,
	PRIMARY KEY (worldspace, cell_x, cell_y, profile, fingerprint)
);
CREATE INDEX IF NOT EXISTS tiles_last_access ON tiles (last_access, created_at);
CREATE INDEX IF NOT EXISTS tiles_fingerprint ON tiles (fingerprint);
CREATE TABLE IF NOT EXISTS content_files (
	path       TEXT    PRIMARY KEY,
	size_bytes INTEGER NOT NULL,
	mod_time   INTEGER NOT NULL,
	record     BLOB    NOT NULL
);
CREATE TABLE IF NOT EXISTS meta (
	name  TEXT PRIMARY KEY,
	value INTEGER NOT NULL
);
`

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the time source used for access and creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Store implements ports.TileStore.
type Store struct {
	db    *sql.DB
	blobs billy.Filesystem
	enc   *zstd.Encoder
	dec   *zstd.Decoder
	now   func() time.Time

	// writeMu is the single writer lock. Every manifest mutation holds it.
	writeMu sync.Mutex

	// blobMu serializes calls into the blob filesystem, which need not be safe for
	// concurrent use. It is never held while waiting for writeMu.
	blobMu sync.Mutex

	pinMu sync.Mutex
	pins  map[domain.Fingerprint]int

	closed atomic.Bool
}

// Open opens or creates the store rooted at dir.
func Open(dir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(domain.BlobPath(dir), domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreOpenFailed.Error()), "dir", dir)
	}
	return OpenWith(domain.ManifestPath(dir), osfs.New(domain.BlobPath(dir)), opts...)
}

// OpenWith opens a store with an explicit manifest path and blob filesystem.
// The store serializes its own calls into blobs, so an in-memory filesystem works.
func OpenWith(manifestPath string, blobs billy.Filesystem, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", manifestPath)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreOpenFailed.Error()), "manifest", manifestPath)
	}
	// One connection serializes every statement, which sqlite needs for a single writer anyway.
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{"PRAGMA journal_mode=WAL", "PRAGMA synchronous=NORMAL", schema} {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreOpenFailed.Error()), "manifest", manifestPath)
		}
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		_ = db.Close()
		return nil, zerr.Wrap(err, domain.ErrStoreOpenFailed.Error())
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = db.Close()
		return nil, zerr.Wrap(err, domain.ErrStoreOpenFailed.Error())
	}

	s := &Store{
		db:    db,
		blobs: blobs,
		enc:   enc,
		dec:   dec,
		now:   time.Now,
		pins:  make(map[domain.Fingerprint]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close releases the database and codecs.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.dec.Close()
	_ = s.enc.Close()
	return s.db.Close()
}

// Get retrieves a tile and refreshes its last access time.
// Returns nil, nil if not found.
func (s *Store) Get(ctx context.Context, key domain.TileKey) (*domain.Tile, error) {
	if s.closed.Load() {
		return nil, domain.ErrStoreClosed
	}

	for attempt := 0; ; attempt++ {
		entry, ok, err := s.lookup(ctx, key)
		if err != nil || !ok {
			return nil, err
		}

		data, err := s.readBlob(blobName(entry.BlobID))
		if errors.Is(err, os.ErrNotExist) && attempt == 0 {
			// A concurrent put replaced the tile between the lookup and the read.
			continue
		}
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, zerr.With(zerr.With(domain.ErrStoreCorruption, "tile", key.String()), "blob", entry.BlobID)
			}
			return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "blob", entry.BlobID)
		}
		if int64(len(data)) != entry.Size {
			return nil, zerr.With(zerr.With(domain.ErrStoreCorruption, "tile", key.String()), "size", len(data))
		}

		payload, err := s.dec.DecodeAll(data, nil)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreCorruption.Error()), "tile", key.String())
		}

		now := s.now()
		if err := s.touch(ctx, key, entry.BlobID, now); err != nil {
			return nil, err
		}

		return &domain.Tile{Key: key, Payload: payload, Size: entry.Size, LastAccess: now}, nil
	}
}

// Contains reports whether a tile is stored under key.
func (s *Store) Contains(ctx context.Context, key domain.TileKey) (bool, error) {
	if s.closed.Load() {
		return false, domain.ErrStoreClosed
	}
	_, ok, err := s.lookup(ctx, key)
	return ok, err
}

// Put compresses and stores a tile. The blob is written outside the writer lock,
// so compression and blob I/O of one put never wait for another put's manifest commit.
func (s *Store) Put(ctx context.Context, tile domain.Tile) error {
	if s.closed.Load() {
		return domain.ErrStoreClosed
	}

	blobID := uuid.NewString()
	name := blobName(blobID)
	data := s.enc.EncodeAll(tile.Payload, nil)

	if err := s.writeBlob(name, data); err != nil {
		return err
	}

	s.writeMu.Lock()
	old, err := s.commit(ctx, tile.Key, blobID, int64(len(data)))
	s.writeMu.Unlock()

	if err != nil {
		s.removeBlob(name)
		return err
	}
	if old != "" {
		s.removeBlob(blobName(old))
	}
	return nil
}

// commit upserts the manifest row and returns the blob id it replaced. Callers hold writeMu.
func (s *Store) commit(ctx context.Context, key domain.TileKey, blobID string, size int64) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	args := keyArgs(key)

	var oldBlob string
	var oldSize int64
	err = tx.QueryRowContext(ctx, "SELECT blob_id, size_bytes FROM tiles WHERE "+keyPredicate, args...).
		Scan(&oldBlob, &oldSize)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}

	limit, err := readMaxSize(ctx, tx)
	if err != nil {
		return "", err
	}
	if limit > 0 {
		total, err := sumSizes(ctx, tx)
		if err != nil {
			return "", err
		}
		if total-oldSize+size > limit {
			return "", zerr.With(zerr.With(domain.ErrStoreFull, "max_size", limit), "required", total-oldSize+size)
		}
	}

	now := s.now().UnixNano()
	_, err = tx.ExecContext(ctx, `
INSERT INTO tiles (worldspace, cell_x, cell_y, profile, fingerprint, blob_id, size_bytes, last_access, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (worldspace, cell_x, cell_y, profile, fingerprint) DO UPDATE SET
	blob_id = excluded.blob_id,
	size_bytes = excluded.size_bytes,
	last_access = excluded.last_access,
	created_at = excluded.created_at`,
		append(args, blobID, size, now, now)...)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "tile", key.String())
	}

	if err := tx.Commit(); err != nil {
		return "", zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	return oldBlob, nil
}

// TotalSize returns the sum of the stored blob sizes.
func (s *Store) TotalSize(ctx context.Context) (int64, error) {
	if s.closed.Load() {
		return 0, domain.ErrStoreClosed
	}
	return sumSizes(ctx, s.db)
}

// MaxSize returns the persisted size cap, 0 meaning unlimited.
func (s *Store) MaxSize(ctx context.Context) (int64, error) {
	if s.closed.Load() {
		return 0, domain.ErrStoreClosed
	}
	return readMaxSize(ctx, s.db)
}

// SetMaxSize persists the size cap. It does not evict; see EnforceMaxSize.
func (s *Store) SetMaxSize(ctx context.Context, limit int64) error {
	if s.closed.Load() {
		return domain.ErrStoreClosed
	}
	if limit < 0 {
		return zerr.With(domain.ErrInvalidSize, "max_size", limit)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO meta (name, value) VALUES (?, ?) ON CONFLICT (name) DO UPDATE SET value = excluded.value",
		metaMaxSize, limit)
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	return nil
}

// InitMaxSize persists limit only if no size cap has been stored yet.
func (s *Store) InitMaxSize(ctx context.Context, limit int64) error {
	if s.closed.Load() {
		return domain.ErrStoreClosed
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO meta (name, value) VALUES (?, ?) ON CONFLICT (name) DO NOTHING", metaMaxSize, limit)
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	return nil
}

// Pin protects the tiles of fp from eviction until release is called.
func (s *Store) Pin(fp domain.Fingerprint) (release func()) {
	s.pinMu.Lock()
	s.pins[fp]++
	s.pinMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.pinMu.Lock()
			defer s.pinMu.Unlock()
			if s.pins[fp]--; s.pins[fp] <= 0 {
				delete(s.pins, fp)
			}
		})
	}
}

func (s *Store) pinned(fp domain.Fingerprint) bool {
	s.pinMu.Lock()
	defer s.pinMu.Unlock()
	return s.pins[fp] > 0
}

func (s *Store) lookup(ctx context.Context, key domain.TileKey) (domain.ManifestEntry, bool, error) {
	var (
		entry              domain.ManifestEntry
		lastAccess, create int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT blob_id, size_bytes, last_access, created_at FROM tiles WHERE "+keyPredicate, keyArgs(key)...).
		Scan(&entry.BlobID, &entry.Size, &lastAccess, &create)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ManifestEntry{}, false, nil
	}
	if err != nil {
		return domain.ManifestEntry{}, false, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}

	entry.Key = key
	entry.LastAccess = time.Unix(0, lastAccess)
	entry.CreatedAt = time.Unix(0, create)
	return entry, true, nil
}

func (s *Store) touch(ctx context.Context, key domain.TileKey, blobID string, now time.Time) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"UPDATE tiles SET last_access = ? WHERE "+keyPredicate+" AND blob_id = ?",
		append([]any{now.UnixNano()}, append(keyArgs(key), blobID)...)...)
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	return nil
}

func (s *Store) writeBlob(name string, data []byte) error {
	s.blobMu.Lock()
	defer s.blobMu.Unlock()

	dir := path.Dir(name)
	if err := s.blobs.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "blob", name)
	}

	f, err := s.blobs.TempFile(dir, tempPrefix)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "blob", name)
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = s.blobs.Remove(tmp)
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "blob", name)
	}
	if err := f.Close(); err != nil {
		_ = s.blobs.Remove(tmp)
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "blob", name)
	}
	if err := s.blobs.Rename(tmp, name); err != nil {
		_ = s.blobs.Remove(tmp)
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "blob", name)
	}
	return nil
}

func (s *Store) readBlob(name string) ([]byte, error) {
	s.blobMu.Lock()
	defer s.blobMu.Unlock()

	f, err := s.blobs.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only

	return io.ReadAll(f)
}

func (s *Store) removeBlob(name string) {
	s.blobMu.Lock()
	defer s.blobMu.Unlock()
	_ = s.blobs.Remove(name)
}

// blobName shards blobs by the first two characters of their id.
func blobName(blobID string) string {
	return path.Join(blobID[:2], blobID+blobExt)
}

func keyArgs(key domain.TileKey) []any {
	return []any{key.Cell.Worldspace, key.Cell.X, key.Cell.Y, key.Profile, key.Fingerprint.String()}
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func sumSizes(ctx context.Context, q queryer) (int64, error) {
	var total int64
	if err := q.QueryRowContext(ctx, "SELECT COALESCE(SUM(size_bytes), 0) FROM tiles").Scan(&total); err != nil {
		return 0, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}
	return total, nil
}

func readMaxSize(ctx context.Context, q queryer) (int64, error) {
	var limit int64
	err := q.QueryRowContext(ctx, "SELECT value FROM meta WHERE name = ?", metaMaxSize).Scan(&limit)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}
	return limit, nil
}
