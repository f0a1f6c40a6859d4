// Package config loads application settings and the content configuration layers.
package config

import (
	"errors"
	"os"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
	"go.trai.ch/navcache/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	// SettingsEnvVar names the environment variable holding an explicit settings file path.
	SettingsEnvVar = "NAVCACHE_SETTINGS"

	envPrefix = "NAVCACHE"
)

// Settings is the application configuration.
type Settings struct {
	Cache     CacheSettings     `mapstructure:"cache"`
	Generator GeneratorSettings `mapstructure:"generator"`
	Collision CollisionSettings `mapstructure:"collision"`
	Content   ContentSettings   `mapstructure:"content"`
	Layers    LayerSettings     `mapstructure:"layers"`
}

// CacheSettings configures the tile store.
type CacheSettings struct {
	Dir     string `mapstructure:"dir"`
	MaxSize string `mapstructure:"max_size"`
}

// GeneratorSettings configures tile generation.
type GeneratorSettings struct {
	Threads    int          `mapstructure:"threads"`
	Worldspace string       `mapstructure:"worldspace"`
	Grid       GridSettings `mapstructure:"grid"`
}

// GridSettings is the inclusive cell range of the grid geometry source.
type GridSettings struct {
	MinX int32 `mapstructure:"min_x"`
	MinY int32 `mapstructure:"min_y"`
	MaxX int32 `mapstructure:"max_x"`
	MaxY int32 `mapstructure:"max_y"`
}

// CollisionSettings configures the collision-shape profile.
type CollisionSettings struct {
	Shape       string    `mapstructure:"shape"`
	HalfExtents []float64 `mapstructure:"half_extents"`
}

// ContentSettings configures content discovery.
type ContentSettings struct {
	DataDirs []string `mapstructure:"data_dirs"`
	Builtin  string   `mapstructure:"builtin"`
}

// LayerSettings lists the configuration layer files.
type LayerSettings struct {
	Base   string   `mapstructure:"base"`
	Others []string `mapstructure:"others"`
	User   string   `mapstructure:"user"`
}

// DefaultThreads returns the default number of generation workers.
func DefaultThreads() int {
	return max(runtime.NumCPU()-1, 1)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("cache.dir", domain.DefaultCachePath())
	v.SetDefault("cache.max_size", domain.DefaultMaxSize)
	v.SetDefault("generator.threads", DefaultThreads())
	v.SetDefault("generator.worldspace", domain.DefaultWorldspace)
	v.SetDefault("generator.grid.min_x", -1)
	v.SetDefault("generator.grid.min_y", -1)
	v.SetDefault("generator.grid.max_x", 1)
	v.SetDefault("generator.grid.max_y", 1)
	v.SetDefault("collision.shape", string(domain.ShapeAABB))
	v.SetDefault("collision.half_extents", []float64{
		float64(domain.DefaultHalfExtents[0]),
		float64(domain.DefaultHalfExtents[1]),
		float64(domain.DefaultHalfExtents[2]),
	})
	v.SetDefault("content.data_dirs", []string{"data"})
	v.SetDefault("content.builtin", domain.DefaultBuiltinContent)
	v.SetDefault("layers.base", "navcache.base.yaml")
	v.SetDefault("layers.others", []string{})
	v.SetDefault("layers.user", "navcache.user.yaml")
}

// LoadSettings reads the settings file at path, or navcache.{yaml,toml} from the working
// directory when path is empty. A missing default file is not an error. Environment
// variables prefixed with NAVCACHE_ override file values.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrSettingsReadFailed.Error()), "path", path)
		}
	} else {
		v.SetConfigName(domain.SettingsFileName)
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, zerr.Wrap(err, domain.ErrSettingsReadFailed.Error())
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, zerr.Wrap(err, domain.ErrInvalidSettings.Error())
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadSettingsFromEnv loads the settings file named by SettingsEnvVar.
func LoadSettingsFromEnv() (*Settings, error) {
	return LoadSettings(os.Getenv(SettingsEnvVar))
}

// Validate checks every value that is interpreted later.
func (s *Settings) Validate() error {
	if s.Generator.Threads < 0 {
		return zerr.With(domain.ErrInvalidSettings, "generator.threads", s.Generator.Threads)
	}
	if s.Generator.Grid.MinX > s.Generator.Grid.MaxX || s.Generator.Grid.MinY > s.Generator.Grid.MaxY {
		return zerr.With(domain.ErrInvalidSettings, "generator.grid", s.Generator.Grid)
	}
	if _, err := s.Cache.MaxSizeBytes(); err != nil {
		return err
	}
	if _, err := s.Collision.Profile(); err != nil {
		return err
	}
	return nil
}

// MaxSizeBytes parses the human readable size cap, such as "512MiB". Zero means unlimited.
func (c CacheSettings) MaxSizeBytes() (int64, error) {
	return ParseSize(c.MaxSize)
}

// ParseSize parses a human readable byte size.
func ParseSize(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrInvalidSize.Error()), "size", s)
	}
	if n > uint64(1<<62) {
		return 0, zerr.With(domain.ErrInvalidSize, "size", s)
	}
	return int64(n), nil //nolint:gosec // bounded above
}

// Profile converts the settings into a collision-shape profile.
func (c CollisionSettings) Profile() (domain.CollisionShape, error) {
	shape, err := domain.ParseShapeType(c.Shape)
	if err != nil {
		return domain.CollisionShape{}, zerr.With(err, "collision.shape", c.Shape)
	}
	if len(c.HalfExtents) != 3 {
		return domain.CollisionShape{}, zerr.With(domain.ErrInvalidSettings, "collision.half_extents", c.HalfExtents)
	}

	profile := domain.CollisionShape{Type: shape}
	for i, e := range c.HalfExtents {
		if e <= 0 {
			return domain.CollisionShape{}, zerr.With(domain.ErrInvalidSettings, "collision.half_extents", c.HalfExtents)
		}
		profile.HalfExtents[i] = float32(e)
	}
	return profile, nil
}
