package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/navcache/internal/adapters/config"
	"go.trai.ch/navcache/internal/adapters/telemetry/progrock"
	"go.trai.ch/navcache/internal/app"
	"go.trai.ch/navcache/internal/core/domain"
	"go.trai.ch/navcache/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestRun_ProviderError(t *testing.T) {
	stderr := new(bytes.Buffer)

	code := run(context.Background(), []string{"stats"}, new(bytes.Buffer), stderr,
		func(context.Context) (*app.Components, error) {
			return nil, errors.New("settings are broken")
		})

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Error: settings are broken")
}

func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockTileStore(ctrl)
	store.EXPECT().Close().Return(nil)

	stdout := new(bytes.Buffer)
	code := run(context.Background(), []string{"version"}, stdout, new(bytes.Buffer),
		func(context.Context) (*app.Components, error) {
			return &app.Components{
				App:       &app.App{},
				Logger:    mocks.NewMockLogger(ctrl),
				Store:     store,
				Telemetry: progrock.New(),
			}, nil
		})

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "navcache version")
}

func TestRun_CommandError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockTileStore(ctrl)
	store.EXPECT().Stats(gomock.Any()).Return(domain.StoreStats{}, domain.ErrStoreClosed)
	store.EXPECT().Close().Return(nil)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Error(gomock.Any())

	code := run(context.Background(), []string{"stats"}, new(bytes.Buffer), new(bytes.Buffer),
		func(context.Context) (*app.Components, error) {
			return &app.Components{
				App:    app.New(nil, nil, nil, nil, store, nil, log, app.Config{}),
				Logger: log,
				Store:  store,
			}, nil
		})

	assert.Equal(t, 1, code)
}

func TestRun_SettingsFlag(t *testing.T) {
	t.Setenv(config.SettingsEnvVar, "")

	var seen string
	code := run(context.Background(), []string{"--settings", "custom.yaml", "version"}, new(bytes.Buffer), new(bytes.Buffer),
		func(context.Context) (*app.Components, error) {
			seen = os.Getenv(config.SettingsEnvVar)
			return nil, errors.New("stop")
		})

	assert.Equal(t, 1, code)
	assert.Equal(t, "custom.yaml", seen)
}

func TestSettingsPath(t *testing.T) {
	tests := []struct {
		args []string
		want string
		ok   bool
	}{
		{[]string{"update", "--settings=a.toml"}, "a.toml", true},
		{[]string{"--settings", "b.yaml", "stats"}, "b.yaml", true},
		{[]string{"stats"}, "", false},
		{[]string{"--", "--settings=x"}, "", false},
		{[]string{"--settings"}, "", false},
	}
	for _, tt := range tests {
		got, ok := settingsPath(tt.args)
		assert.Equal(t, tt.want, got, tt.args)
		assert.Equal(t, tt.ok, ok, tt.args)
	}
}
