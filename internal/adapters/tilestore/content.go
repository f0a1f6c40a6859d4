package tilestore

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"go.trai.ch/navcache/internal/core/domain"
	"go.trai.ch/navcache/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ContentIndex = (*Store)(nil)

// contentRecord is the parsed part of a content file as kept in the manifest.
// Path, size and modification time live in their own columns.
type contentRecord struct {
	Name          string             `yaml:"name"`
	Kind          domain.ContentKind `yaml:"kind"`
	Hash          uint64             `yaml:"hash"`
	Dependencies  []dependencyRecord `yaml:"dependencies,omitempty"`
	Author        string             `yaml:"author,omitempty"`
	Description   string             `yaml:"description,omitempty"`
	HeaderVersion uint32             `yaml:"header_version"`
	FormatVersion int32              `yaml:"format_version"`
	RecordCount   uint32             `yaml:"record_count"`
}

type dependencyRecord struct {
	Name string `yaml:"name"`
	Size uint64 `yaml:"size,omitempty"`
}

// LookupContent returns the content file last recorded for path.
// The origin is not recorded; it depends on the catalog's settings.
func (s *Store) LookupContent(ctx context.Context, path string) (domain.ContentFile, bool, error) {
	if s.closed.Load() {
		return domain.ContentFile{}, false, domain.ErrStoreClosed
	}

	var (
		size, modTime int64
		data          []byte
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT size_bytes, mod_time, record FROM content_files WHERE path = ?", path).
		Scan(&size, &modTime, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ContentFile{}, false, nil
	}
	if err != nil {
		return domain.ContentFile{}, false, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}

	var rec contentRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return domain.ContentFile{}, false, zerr.With(zerr.Wrap(err, domain.ErrStoreCorruption.Error()), "path", path)
	}

	file := domain.ContentFile{
		ID:   domain.NewContentID(rec.Name),
		Name: rec.Name,
		Path: path,
		Kind: rec.Kind,
		Hash: rec.Hash,
		Metadata: domain.ContentMetadata{
			Author:        rec.Author,
			Description:   rec.Description,
			HeaderVersion: math.Float32frombits(rec.HeaderVersion),
			FormatVersion: rec.FormatVersion,
			RecordCount:   rec.RecordCount,
			Size:          size,
			ModTime:       time.Unix(0, modTime),
		},
	}
	for _, d := range rec.Dependencies {
		file.Dependencies = append(file.Dependencies, domain.Dependency{ID: domain.NewContentID(d.Name), Size: d.Size})
	}
	return file, true, nil
}

// StoreContent records a parsed content file under its path.
func (s *Store) StoreContent(ctx context.Context, file domain.ContentFile) error {
	if s.closed.Load() {
		return domain.ErrStoreClosed
	}

	rec := contentRecord{
		Name:          file.Name,
		Kind:          file.Kind,
		Hash:          file.Hash,
		Author:        file.Metadata.Author,
		Description:   file.Metadata.Description,
		HeaderVersion: math.Float32bits(file.Metadata.HeaderVersion),
		FormatVersion: file.Metadata.FormatVersion,
		RecordCount:   file.Metadata.RecordCount,
	}
	for _, d := range file.Dependencies {
		rec.Dependencies = append(rec.Dependencies, dependencyRecord{Name: d.ID.String(), Size: d.Size})
	}
	data, err := yaml.Marshal(&rec)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", file.Path)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err = s.db.ExecContext(ctx, `
INSERT INTO content_files (path, size_bytes, mod_time, record) VALUES (?, ?, ?, ?)
ON CONFLICT (path) DO UPDATE SET
	size_bytes = excluded.size_bytes,
	mod_time = excluded.mod_time,
	record = excluded.record`,
		file.Path, file.Metadata.Size, file.Metadata.ModTime.UnixNano(), data)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", file.Path)
	}
	return nil
}
