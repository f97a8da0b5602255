// ABOUTME: Tests for humor CLI flag parsing, config loading and the color log handler
// ABOUTME: Points the config lookup at temp directories via HUMOR_CONFIG

package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/humor/internal/config"
)

func TestParseConfigFlag(t *testing.T) {
	t.Setenv("HUMOR_CONFIG", "/etc/humor/default.yaml")

	tests := []struct {
		name     string
		args     []string
		want     string
		explicit bool
		wantErr  bool
	}{
		{"default", nil, "/etc/humor/default.yaml", false, false},
		{"separate value", []string{"--config", "a.yaml"}, "a.yaml", true, false},
		{"short flag", []string{"-c", "b.toml"}, "b.toml", true, false},
		{"equals form", []string{"--config=c.yaml"}, "c.yaml", true, false},
		{"missing value", []string{"--config"}, "", false, true},
		{"unknown flag", []string{"--verbose"}, "", false, true},
		{"stray argument", []string{"extra"}, "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, explicit, err := parseConfigFlag(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.explicit, explicit)
		})
	}
}

func TestLoadConfig_MissingDefaultUsesBuiltins(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	cfg, source, err := loadConfig(missing, false)
	require.NoError(t, err)
	assert.Equal(t, "(defaults)", source)
	assert.Equal(t, config.DefaultHTTPAddr, cfg.Server.HTTPAddr)
}

func TestLoadConfig_MissingExplicitFails(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	_, _, err := loadConfig(missing, true)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "humor.yaml")
	cfg := config.Default()
	cfg.Server.HTTPAddr = "127.0.0.1:4000"
	require.NoError(t, os.WriteFile(path, []byte(config.Render(cfg)), 0644))

	got, source, err := loadConfig(path, true)
	require.NoError(t, err)
	assert.Equal(t, path, source)
	assert.Equal(t, "127.0.0.1:4000", got.Server.HTTPAddr)
}

func TestColorHandler(t *testing.T) {
	var buf bytes.Buffer
	orig := color.Output
	color.Output = &buf
	t.Cleanup(func() { color.Output = orig })

	logger := setupLogger(config.LoggingConfig{Level: "info", Format: "text"})
	logger.Debug("hidden")
	logger.With("component", "server").Info("listening", "addr", ":3001")
	logger.WithGroup("req").Warn("slow", "ms", 900)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "listening")
	assert.Contains(t, out, "component=")
	assert.Contains(t, out, ":3001")
	assert.Contains(t, out, "req.ms=")
	assert.Contains(t, out, "WRN")
}

func TestSetupLogger_Levels(t *testing.T) {
	for level, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"bogus": slog.LevelInfo,
	} {
		logger := setupLogger(config.LoggingConfig{Level: level, Format: "json"})
		assert.True(t, logger.Enabled(context.Background(), want), level)
		if want > slog.LevelDebug {
			assert.False(t, logger.Enabled(context.Background(), want-1), level)
		}
	}
}
