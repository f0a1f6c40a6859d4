package tilestore

import (
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5/util"
	"go.trai.ch/navcache/internal/core/domain"
	"go.trai.ch/zerr"
)

// Verify compares every manifest entry with its blob and lists blobs no entry references.
// Problems are reported, never repaired. A report with corrupt entries comes with
// ErrStoreCorruption.
func (s *Store) Verify(ctx context.Context) (domain.VerifyReport, error) {
	if s.closed.Load() {
		return domain.VerifyReport{}, domain.ErrStoreClosed
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	entries, err := s.scan(ctx, "SELECT "+victimColumns+" FROM tiles ORDER BY rowid")
	if err != nil {
		return domain.VerifyReport{}, err
	}

	s.blobMu.Lock()
	defer s.blobMu.Unlock()

	var report domain.VerifyReport
	referenced := make(map[string]struct{}, len(entries))

	for _, e := range entries {
		name := blobName(e.blobID)
		referenced[name] = struct{}{}
		report.Entries++
		report.ManifestSize += e.size

		entry := domain.ManifestEntry{Key: e.key, BlobID: e.blobID, Size: e.size}
		info, err := s.blobs.Stat(name)
		switch {
		case errors.Is(err, os.ErrNotExist):
			report.Corrupt = append(report.Corrupt, domain.CorruptEntry{Entry: entry, Missing: true})
		case err != nil:
			return report, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "blob", name)
		default:
			report.DiskSize += info.Size()
			if info.Size() != e.size {
				report.Corrupt = append(report.Corrupt, domain.CorruptEntry{Entry: entry, ActualSize: info.Size()})
			}
		}
	}

	err = util.Walk(s.blobs, "/", func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		name := strings.TrimPrefix(path.Clean(filepath.ToSlash(p)), "/")
		if _, ok := referenced[name]; !ok {
			report.Orphans = append(report.Orphans, name)
		}
		return nil
	})
	if err != nil {
		return report, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}
	slices.Sort(report.Orphans)

	if !report.Healthy() {
		return report, zerr.With(zerr.With(domain.ErrStoreCorruption, "corrupt", len(report.Corrupt)),
			"manifest_size", report.ManifestSize)
	}
	return report, nil
}

// Stats summarizes the store per fingerprint.
func (s *Store) Stats(ctx context.Context) (domain.StoreStats, error) {
	if s.closed.Load() {
		return domain.StoreStats{}, domain.ErrStoreClosed
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT fingerprint, COUNT(*), SUM(size_bytes) FROM tiles GROUP BY fingerprint ORDER BY fingerprint")
	if err != nil {
		return domain.StoreStats{}, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}

	var stats domain.StoreStats
	for rows.Next() {
		var (
			fp string
			fs domain.FingerprintStats
		)
		if err := rows.Scan(&fp, &fs.Tiles, &fs.Size); err != nil {
			_ = rows.Close()
			return domain.StoreStats{}, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
		}
		if fs.Fingerprint, err = domain.ParseFingerprint(fp); err != nil {
			_ = rows.Close()
			return domain.StoreStats{}, zerr.With(zerr.Wrap(err, domain.ErrStoreCorruption.Error()), "fingerprint", fp)
		}
		stats.Tiles += fs.Tiles
		stats.TotalSize += fs.Size
		stats.Fingerprints = append(stats.Fingerprints, fs)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return domain.StoreStats{}, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}
	_ = rows.Close()

	if stats.MaxSize, err = readMaxSize(ctx, s.db); err != nil {
		return domain.StoreStats{}, err
	}
	return stats, nil
}
