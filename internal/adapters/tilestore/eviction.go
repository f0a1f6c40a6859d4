package tilestore

import (
	"context"

	"go.trai.ch/navcache/internal/core/domain"
	"go.trai.ch/zerr"
)

type victim struct {
	key    domain.TileKey
	blobID string
	size   int64
}

// EvictUnused removes every tile whose fingerprint differs from current.
// Tiles of fingerprints pinned by a running update are kept and counted.
func (s *Store) EvictUnused(ctx context.Context, current domain.Fingerprint) (domain.EvictionReport, error) {
	if s.closed.Load() {
		return domain.EvictionReport{}, domain.ErrStoreClosed
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	candidates, err := s.scan(ctx,
		"SELECT "+victimColumns+" FROM tiles WHERE fingerprint != ?", current.String())
	if err != nil {
		return domain.EvictionReport{}, err
	}

	var report domain.EvictionReport
	victims := make([]victim, 0, len(candidates))
	for _, c := range candidates {
		if s.pinned(c.key.Fingerprint) {
			report.Pinned++
			continue
		}
		victims = append(victims, c)
	}

	if err := s.remove(ctx, victims, &report); err != nil {
		return report, err
	}

	total, err := sumSizes(ctx, s.db)
	if err != nil {
		return report, err
	}
	report.TotalSize = total
	return report, nil
}

// EnforceMaxSize removes the least recently used tiles until the total size is at most limit.
// If pinned tiles prevent reaching the limit, the unpinned ones are still removed and
// ErrEvictionIncomplete is returned.
func (s *Store) EnforceMaxSize(ctx context.Context, limit int64) (domain.EvictionReport, error) {
	if s.closed.Load() {
		return domain.EvictionReport{}, domain.ErrStoreClosed
	}
	if limit < 0 {
		return domain.EvictionReport{}, zerr.With(domain.ErrInvalidSize, "limit", limit)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	total, err := sumSizes(ctx, s.db)
	if err != nil {
		return domain.EvictionReport{}, err
	}
	if total <= limit {
		return domain.EvictionReport{TotalSize: total}, nil
	}

	candidates, err := s.scan(ctx,
		"SELECT "+victimColumns+" FROM tiles ORDER BY last_access ASC, created_at ASC, rowid ASC")
	if err != nil {
		return domain.EvictionReport{}, err
	}

	var report domain.EvictionReport
	var victims []victim
	for _, c := range candidates {
		if total <= limit {
			break
		}
		if s.pinned(c.key.Fingerprint) {
			report.Pinned++
			continue
		}
		victims = append(victims, c)
		total -= c.size
	}

	if err := s.remove(ctx, victims, &report); err != nil {
		return report, err
	}
	report.TotalSize = total

	if total > limit {
		return report, zerr.With(zerr.With(domain.ErrEvictionIncomplete, "limit", limit), "total", total)
	}
	return report, nil
}

const victimColumns = "worldspace, cell_x, cell_y, profile, fingerprint, blob_id, size_bytes"

// scan reads every row before returning so the single connection is free for the next statement.
func (s *Store) scan(ctx context.Context, query string, args ...any) ([]victim, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}
	defer rows.Close() //nolint:errcheck // drained below

	var out []victim
	for rows.Next() {
		var (
			v  victim
			fp string
		)
		if err := rows.Scan(&v.key.Cell.Worldspace, &v.key.Cell.X, &v.key.Cell.Y, &v.key.Profile, &fp,
			&v.blobID, &v.size); err != nil {
			return nil, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
		}
		if v.key.Fingerprint, err = domain.ParseFingerprint(fp); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreCorruption.Error()), "fingerprint", fp)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}
	return out, nil
}

// remove deletes the manifest rows first and the blobs afterwards, then compacts the manifest.
// Callers hold writeMu.
func (s *Store) remove(ctx context.Context, victims []victim, report *domain.EvictionReport) error {
	if len(victims) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, "DELETE FROM tiles WHERE "+keyPredicate)
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	defer stmt.Close() //nolint:errcheck // closed with the transaction

	for _, v := range victims {
		if _, err := stmt.ExecContext(ctx, keyArgs(v.key)...); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "tile", v.key.String())
		}
	}
	if err := tx.Commit(); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}

	for _, v := range victims {
		s.removeBlob(blobName(v.blobID))
		report.Removed++
		report.FreedBytes += v.size
	}

	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	return nil
}
