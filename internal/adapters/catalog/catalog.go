// Package catalog enumerates content files from the configured data directories.
package catalog

import (
	"bufio"
	"context"
	"errors"
	"os"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
	"go.trai.ch/navcache/internal/core/domain"
	"go.trai.ch/navcache/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ContentCatalog = (*Catalog)(nil)

// Catalog implements ports.ContentCatalog over a billy filesystem.
// Parsed files are kept and reused while their size and modification time stay the same.
type Catalog struct {
	fs       billy.Filesystem
	dataDirs []string
	builtin  domain.ContentID
	hasher   ports.Hasher
	logger   ports.Logger
	index    ports.ContentIndex

	mu     sync.Mutex
	parsed map[string]domain.ContentFile
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithIndex keeps parsed files in index so they survive the process.
func WithIndex(index ports.ContentIndex) Option {
	return func(c *Catalog) {
		c.index = index
	}
}

// New creates a Catalog. Later data directories take priority over earlier ones
// when they contain a file with the same name.
func New(
	fs billy.Filesystem,
	dataDirs []string,
	builtin string,
	hasher ports.Hasher,
	logger ports.Logger,
	opts ...Option,
) *Catalog {
	c := &Catalog{
		fs:       fs,
		dataDirs: slices.Clone(dataDirs),
		builtin:  domain.NewContentID(builtin),
		hasher:   hasher,
		logger:   logger,
		parsed:   make(map[string]domain.ContentFile),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns the content files in discovery order: the builtin file first, then every
// other file in the order its name was first seen while scanning the data directories.
func (c *Catalog) List(ctx context.Context) ([]domain.ContentFile, []domain.Diagnostic, error) {
	var (
		files []domain.ContentFile
		diags []domain.Diagnostic
		index = make(map[domain.ContentID]int)
	)

	for _, dir := range c.dataDirs {
		entries, err := c.fs.ReadDir(dir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				c.logger.Warn("data directory does not exist, skipping: " + dir)
				continue
			}
			return nil, nil, zerr.With(zerr.Wrap(err, domain.ErrDataDirUnreadable.Error()), "dir", dir)
		}

		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
			if entry.IsDir() || domain.KindFromPath(entry.Name()) == domain.KindUnknown {
				continue
			}

			p := c.fs.Join(dir, entry.Name())
			file, err := c.load(ctx, p, entry)
			if err != nil {
				diags = append(diags, domain.Diagnostic{
					Kind:     domain.DiagParseError,
					Severity: domain.SeverityWarning,
					File:     domain.NewContentID(entry.Name()),
					Path:     p,
					Message:  err.Error(),
				})
				continue
			}

			if i, ok := index[file.ID]; ok {
				files[i] = file
				continue
			}
			index[file.ID] = len(files)
			files = append(files, file)
		}
	}

	if i, ok := index[c.builtin]; ok && i > 0 {
		builtin := files[i]
		files = slices.Delete(files, i, i+1)
		files = slices.Insert(files, 0, builtin)
	}

	return files, diags, nil
}

// Parse reads the header and content hash of a single file.
func (c *Catalog) Parse(p string) (domain.ContentFile, error) {
	name := path.Base(p)
	kind := domain.KindFromPath(name)
	if kind == domain.KindUnknown {
		return domain.ContentFile{}, zerr.With(domain.ErrUnsupportedContent, "path", p)
	}

	info, err := c.fs.Stat(p)
	if err != nil {
		return domain.ContentFile{}, zerr.With(zerr.Wrap(err, domain.ErrContentUnreadable.Error()), "path", p)
	}

	file := domain.ContentFile{
		ID:   domain.NewContentID(name),
		Name: name,
		Path: p,
		Kind: kind,
		Metadata: domain.ContentMetadata{
			Size:    info.Size(),
			ModTime: info.ModTime(),
		},
	}
	file.Origin = c.origin(file.ID)

	if kind == domain.KindScripts {
		err = c.readScripts(p, &file)
	} else {
		err = c.readHeader(p, &file)
	}
	if err != nil {
		return domain.ContentFile{}, zerr.With(err, "path", p)
	}

	if file.Hash, err = c.hashFile(p); err != nil {
		return domain.ContentFile{}, zerr.With(err, "path", p)
	}

	return file, nil
}

// load returns the file at p, parsing it only if it changed since it was last parsed.
func (c *Catalog) load(ctx context.Context, p string, info os.FileInfo) (domain.ContentFile, error) {
	if file, ok := c.cached(ctx, p, info); ok {
		return file, nil
	}

	file, err := c.Parse(p)
	if err != nil {
		return domain.ContentFile{}, err
	}

	c.mu.Lock()
	c.parsed[p] = file
	c.mu.Unlock()

	if c.index != nil {
		if err := c.index.StoreContent(ctx, file); err != nil {
			c.logger.Warn("failed to record content file " + p + ": " + err.Error())
		}
	}
	return file, nil
}

func (c *Catalog) cached(ctx context.Context, p string, info os.FileInfo) (domain.ContentFile, bool) {
	c.mu.Lock()
	file, ok := c.parsed[p]
	c.mu.Unlock()

	if !ok && c.index != nil {
		var err error
		if file, ok, err = c.index.LookupContent(ctx, p); err != nil {
			c.logger.Warn("failed to look up content file " + p + ": " + err.Error())
			return domain.ContentFile{}, false
		}
		if ok {
			c.mu.Lock()
			c.parsed[p] = file
			c.mu.Unlock()
		}
	}

	if !ok || file.Metadata.Size != info.Size() || !file.Metadata.ModTime.Equal(info.ModTime()) {
		return domain.ContentFile{}, false
	}

	file.Origin = c.origin(file.ID)
	file.Dependencies = slices.Clone(file.Dependencies)
	return file, true
}

func (c *Catalog) origin(id domain.ContentID) domain.Origin {
	if id == c.builtin {
		return domain.OriginBuiltin
	}
	return domain.OriginDiscovered
}

func (c *Catalog) readHeader(p string, file *domain.ContentFile) error {
	f, err := c.fs.Open(p)
	if err != nil {
		return zerr.Wrap(err, domain.ErrContentUnreadable.Error())
	}
	defer f.Close() //nolint:errcheck // read-only

	h, err := readHeader(bufio.NewReader(f))
	if err != nil {
		return err
	}

	file.Dependencies = h.Masters
	file.Metadata.Author = h.Author
	file.Metadata.Description = h.Description
	file.Metadata.HeaderVersion = h.Version
	file.Metadata.FormatVersion = h.FormatVersion
	file.Metadata.RecordCount = h.RecordCount
	return nil
}

// readScripts takes the leading comment block of a script manifest as its description.
func (c *Catalog) readScripts(p string, file *domain.ContentFile) error {
	f, err := c.fs.Open(p)
	if err != nil {
		return zerr.Wrap(err, domain.ErrContentUnreadable.Error())
	}
	defer f.Close() //nolint:errcheck // read-only

	var desc []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "#") {
			break
		}
		desc = append(desc, strings.TrimSpace(strings.TrimPrefix(line, "#")))
	}
	if err := scanner.Err(); err != nil {
		return zerr.Wrap(err, domain.ErrContentUnreadable.Error())
	}

	file.Metadata.Description = strings.Join(desc, "\n")
	return nil
}

func (c *Catalog) hashFile(p string) (uint64, error) {
	f, err := c.fs.Open(p)
	if err != nil {
		return 0, zerr.Wrap(err, domain.ErrContentUnreadable.Error())
	}
	defer f.Close() //nolint:errcheck // read-only

	return c.hasher.HashContent(f)
}
