package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.trai.ch/navcache/internal/core/domain"
	"go.trai.ch/navcache/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.LayerSource = (*LayerLoader)(nil)

// replaceContent is the only supported replace target.
const replaceContent = "content"

// LayerFile is the on-disk schema of a configuration layer, in YAML or TOML.
type LayerFile struct {
	Enable  []string `yaml:"enable" toml:"enable"`
	Disable []string `yaml:"disable" toml:"disable"`
	Order   []string `yaml:"order" toml:"order"`
	Replace []string `yaml:"replace" toml:"replace"`
}

// LayerLoader implements ports.LayerSource by reading layer files from disk.
type LayerLoader struct {
	settings LayerSettings
	logger   ports.Logger
}

// NewLayerLoader creates a new LayerLoader.
func NewLayerLoader(settings LayerSettings, logger ports.Logger) *LayerLoader {
	return &LayerLoader{settings: settings, logger: logger}
}

// Layers reads the base layer, every other layer in discovery order, and the user layer.
// Missing base and user files yield empty layers. Entries of layers.others may be glob
// patterns; matches are taken in lexical order.
func (l *LayerLoader) Layers(ctx context.Context) (*domain.LayerStack, error) {
	base, err := l.loadOptional(l.settings.Base, "base")
	if err != nil {
		return nil, err
	}

	others := make([]domain.ConfigLayer, 0, len(l.settings.Others))
	for _, pattern := range l.settings.Others {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		paths, err := l.discover(pattern)
		if err != nil {
			return nil, err
		}
		for _, p := range paths {
			layer, err := LoadLayer(p)
			if err != nil {
				return nil, err
			}
			others = append(others, layer)
		}
	}

	user, err := l.loadOptional(l.settings.User, "user")
	if err != nil {
		return nil, err
	}

	return domain.NewLayerStack(base, others, user), nil
}

func (l *LayerLoader) loadOptional(path, fallbackName string) (domain.ConfigLayer, error) {
	if path == "" {
		return domain.ConfigLayer{Name: fallbackName}, nil
	}
	layer, err := LoadLayer(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.ConfigLayer{Name: layerName(path), Path: path}, nil
		}
		return domain.ConfigLayer{}, err
	}
	return layer, nil
}

func (l *LayerLoader) discover(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "pattern", pattern)
	}
	if len(matches) == 0 {
		l.logger.Warn("config layer not found, skipping: " + pattern)
		return nil, nil
	}
	slices.Sort(matches)
	return matches, nil
}

// LoadLayer reads a single layer file. The format is chosen by extension.
func LoadLayer(path string) (domain.ConfigLayer, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return domain.ConfigLayer{}, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	file, err := DecodeLayer(filepath.Ext(path), data)
	if err != nil {
		return domain.ConfigLayer{}, zerr.With(err, "path", path)
	}

	layer, err := file.toDomain()
	if err != nil {
		return domain.ConfigLayer{}, zerr.With(err, "path", path)
	}
	layer.Name = layerName(path)
	layer.Path = path
	return layer, nil
}

// DecodeLayer decodes layer data of the given file extension.
func DecodeLayer(ext string, data []byte) (LayerFile, error) {
	var file LayerFile
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return LayerFile{}, zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
		}
	case ".toml":
		if err := toml.Unmarshal(data, &file); err != nil {
			return LayerFile{}, zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
		}
	default:
		return LayerFile{}, zerr.With(domain.ErrUnsupportedConfigFormat, "ext", ext)
	}
	return file, nil
}

// toDomain converts the file into directives: activations, then deactivations, then positions.
// Since later directives win, a file both enabled and disabled by one layer ends up disabled.
func (f LayerFile) toDomain() (domain.ConfigLayer, error) {
	var layer domain.ConfigLayer

	for _, target := range f.Replace {
		if strings.ToLower(strings.TrimSpace(target)) != replaceContent {
			return domain.ConfigLayer{}, zerr.With(domain.ErrInvalidReplaceTarget, "replace", target)
		}
		layer.ReplaceContent = true
	}

	directives := make([]domain.Directive, 0, len(f.Enable)+len(f.Disable)+len(f.Order))
	for _, id := range domain.NewContentIDs(f.Enable) {
		directives = append(directives, domain.Directive{Kind: domain.DirectiveActivate, Content: id})
	}
	for _, id := range domain.NewContentIDs(f.Disable) {
		directives = append(directives, domain.Directive{Kind: domain.DirectiveDeactivate, Content: id})
	}
	for i, id := range domain.NewContentIDs(f.Order) {
		directives = append(directives, domain.Directive{Kind: domain.DirectivePosition, Content: id, Position: i})
	}
	layer.Directives = directives

	return layer, nil
}

func layerName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
