package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/navcache/internal/adapters/config"
	"go.trai.ch/navcache/internal/core/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
}

func TestLoadSettings_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	s, err := config.LoadSettings("")
	require.NoError(t, err)

	assert.Equal(t, ".navcache", s.Cache.Dir)
	assert.Equal(t, config.DefaultThreads(), s.Generator.Threads)
	assert.Equal(t, domain.DefaultWorldspace, s.Generator.Worldspace)
	assert.Equal(t, "builtin.omwscripts", s.Content.Builtin)

	limit, err := s.Cache.MaxSizeBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(2<<30), limit)

	profile, err := s.Collision.Profile()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCollisionShape(), profile)
}

func TestLoadSettings_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, `
cache:
  dir: /var/cache/nav
  max_size: 512MiB
generator:
  threads: 0
  grid:
    min_x: -3
    max_x: 3
collision:
  shape: cylinder
  half_extents: [10, 10, 40]
content:
  data_dirs: [a, b]
layers:
  others: [extra.toml]
`)

	s, err := config.LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/cache/nav", s.Cache.Dir)
	assert.Equal(t, 0, s.Generator.Threads)
	assert.Equal(t, int32(-3), s.Generator.Grid.MinX)
	assert.Equal(t, int32(3), s.Generator.Grid.MaxX)
	assert.Equal(t, int32(-1), s.Generator.Grid.MinY)
	assert.Equal(t, []string{"a", "b"}, s.Content.DataDirs)
	assert.Equal(t, []string{"extra.toml"}, s.Layers.Others)

	limit, err := s.Cache.MaxSizeBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(512<<20), limit)

	profile, err := s.Collision.Profile()
	require.NoError(t, err)
	assert.Equal(t, domain.CollisionShape{Type: domain.ShapeCylinder, HalfExtents: [3]float32{10, 10, 40}}, profile)
}

func TestLoadSettings_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("NAVCACHE_CACHE_MAX_SIZE", "1GB")
	t.Setenv("NAVCACHE_GENERATOR_THREADS", "7")

	s, err := config.LoadSettings("")
	require.NoError(t, err)

	assert.Equal(t, 7, s.Generator.Threads)
	limit, err := s.Cache.MaxSizeBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(1_000_000_000), limit)
}

func TestLoadSettings_Errors(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		errContains string
	}{
		{"BadShape", "collision:\n  shape: sphere\n", domain.ErrInvalidCollisionShape.Error()},
		{"BadExtents", "collision:\n  half_extents: [1, 2]\n", domain.ErrInvalidSettings.Error()},
		{"BadSize", "cache:\n  max_size: lots\n", domain.ErrInvalidSize.Error()},
		{"NegativeThreads", "generator:\n  threads: -2\n", domain.ErrInvalidSettings.Error()},
		{"BadGrid", "generator:\n  grid:\n    min_x: 5\n    max_x: 1\n", domain.ErrInvalidSettings.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "navcache.yaml")
			writeFile(t, path, tt.content)

			_, err := config.LoadSettings(path)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.errContains)
		})
	}
}

func TestLoadSettings_MissingExplicitFile(t *testing.T) {
	_, err := config.LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, domain.ErrSettingsReadFailed.Error())
}

func TestParseSize(t *testing.T) {
	n, err := config.ParseSize("")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = config.ParseSize("1.5 KiB")
	require.NoError(t, err)
	assert.Equal(t, int64(1536), n)
}
