// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML and TOML loading, env var expansion, env overrides and duration parsing

package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearDeployEnv unsets the override variables for the duration of the test.
func clearDeployEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "DB_PATH", "SESSION_TTL_HOURS", "PASSWORD_ROUNDS"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	clearDeployEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":3001", cfg.Server.HTTPAddr)
	assert.Equal(t, "humor.db", cfg.Database.Path)
	assert.Equal(t, float64(168), cfg.Auth.SessionTTLHours)
	assert.Equal(t, 12, cfg.Auth.PasswordCost)
	assert.Zero(t, cfg.Auth.SweepInterval)
	assert.Equal(t, "Humor.", cfg.Site.Name)
	assert.Equal(t, "Mindful shit or horseshit. You decide.", cfg.Site.Tagline)
	assert.Equal(t, "bird", cfg.Inspiration.Command)
	assert.Equal(t, []string{"news", "-n", "5", "--json"}, cfg.Inspiration.Args)
	assert.Equal(t, 3*time.Second, cfg.Inspiration.Timeout)
	assert.Equal(t, 10*time.Minute, cfg.Inspiration.CacheTTL)
	assert.Equal(t, 5, cfg.Inspiration.Limit)
}

func TestLoad_YAML(t *testing.T) {
	clearDeployEnv(t)

	path := writeConfig(t, "humor.yaml", `
server:
  http_addr: "127.0.0.1:8080"

database:
  path: "/var/lib/humor/humor.db"

auth:
  session_ttl_hours: 12.5
  password_cost: 10
  sweep_interval: "30m"

site:
  name: "Notebook"

inspiration:
  command: "echo"
  args: ["[]"]
  timeout: "500ms"
  cache_ttl: "1m"
  limit: 3

logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Server.HTTPAddr)
	assert.Equal(t, "/var/lib/humor/humor.db", cfg.Database.Path)
	assert.Equal(t, 12.5, cfg.Auth.SessionTTLHours)
	assert.Equal(t, 10, cfg.Auth.PasswordCost)
	assert.Equal(t, 30*time.Minute, cfg.Auth.SweepInterval)
	assert.Equal(t, "Notebook", cfg.Site.Name)
	assert.Equal(t, DefaultSiteTagline, cfg.Site.Tagline, "unset keys keep defaults")
	assert.Equal(t, "echo", cfg.Inspiration.Command)
	assert.Equal(t, []string{"[]"}, cfg.Inspiration.Args)
	assert.Equal(t, 500*time.Millisecond, cfg.Inspiration.Timeout)
	assert.Equal(t, time.Minute, cfg.Inspiration.CacheTTL)
	assert.Equal(t, 3, cfg.Inspiration.Limit)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_TOML(t *testing.T) {
	clearDeployEnv(t)

	path := writeConfig(t, "humor.toml", `
[server]
http_addr = ":9000"

[database]
path = "blog.db"

[auth]
session_ttl_hours = 24.0
password_cost = 9

[site]
name = "Scratch"
tagline = "pad"

[inspiration]
timeout = "2s"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.HTTPAddr)
	assert.Equal(t, "blog.db", cfg.Database.Path)
	assert.Equal(t, float64(24), cfg.Auth.SessionTTLHours)
	assert.Equal(t, 9, cfg.Auth.PasswordCost)
	assert.Equal(t, "Scratch", cfg.Site.Name)
	assert.Equal(t, "pad", cfg.Site.Tagline)
	assert.Equal(t, 2*time.Second, cfg.Inspiration.Timeout)
	assert.Equal(t, "bird", cfg.Inspiration.Command)
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	clearDeployEnv(t)
	t.Setenv("HUMOR_TEST_DB", "/tmp/expanded.db")

	path := writeConfig(t, "humor.yaml", `
database:
  path: "${HUMOR_TEST_DB}"
site:
  name: "${HUMOR_TEST_UNSET_VAR}fallback"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/expanded.db", cfg.Database.Path)
	assert.Equal(t, "fallback", cfg.Site.Name)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearDeployEnv(t)
	t.Setenv("PORT", "4000")
	t.Setenv("DB_PATH", "override.db")
	t.Setenv("SESSION_TTL_HOURS", "0.0003")
	t.Setenv("PASSWORD_ROUNDS", "8")

	path := writeConfig(t, "humor.yaml", `
server:
  http_addr: ":8080"
database:
  path: "file.db"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":4000", cfg.Server.HTTPAddr)
	assert.Equal(t, "override.db", cfg.Database.Path)
	assert.Equal(t, 0.0003, cfg.Auth.SessionTTLHours)
	assert.Equal(t, 8, cfg.Auth.PasswordCost)
}

func TestApplyEnvOverrides_InvalidValuesIgnored(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"ttl not a number", map[string]string{"SESSION_TTL_HOURS": "forever"}},
		{"ttl zero", map[string]string{"SESSION_TTL_HOURS": "0"}},
		{"ttl negative", map[string]string{"SESSION_TTL_HOURS": "-4"}},
		{"rounds below minimum", map[string]string{"PASSWORD_ROUNDS": "4"}},
		{"rounds above maximum", map[string]string{"PASSWORD_ROUNDS": "40"}},
		{"rounds not a number", map[string]string{"PASSWORD_ROUNDS": "lots"}},
		{"empty port", map[string]string{"PORT": "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			applyEnvOverrides(cfg, func(key string) (string, bool) {
				v, ok := tt.env[key]
				return v, ok
			})

			assert.Equal(t, Default(), cfg)
		})
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearDeployEnv(t)
	path := writeConfig(t, "humor.yaml", "server: [unclosed")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestLoad_InvalidDuration(t *testing.T) {
	clearDeployEnv(t)
	path := writeConfig(t, "humor.yaml", `
inspiration:
  timeout: "soon"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"no addr", func(c *Config) { c.Server.HTTPAddr = "" }, "server.http_addr"},
		{"no db", func(c *Config) { c.Database.Path = "" }, "database.path"},
		{"zero ttl", func(c *Config) { c.Auth.SessionTTLHours = 0 }, "session_ttl_hours"},
		{"low cost", func(c *Config) { c.Auth.PasswordCost = 4 }, "password_cost"},
		{"high cost", func(c *Config) { c.Auth.PasswordCost = 32 }, "password_cost"},
		{"negative sweep", func(c *Config) { c.Auth.SweepInterval = -time.Second }, "sweep_interval"},
		{"zero limit", func(c *Config) { c.Inspiration.Limit = 0 }, "inspiration.limit"},
		{"zero timeout", func(c *Config) { c.Inspiration.Timeout = 0 }, "inspiration.timeout"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			require.NoError(t, parseDurations(cfg))
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("HUMOR_CONFIG", "/etc/humor/humor.toml")
	assert.Equal(t, "/etc/humor/humor.toml", DefaultPath())

	t.Setenv("HUMOR_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "humor", "humor.yaml"), DefaultPath())
}

func TestRender_RoundTrips(t *testing.T) {
	clearDeployEnv(t)

	cfg := Default()
	cfg.Site.Name = `Quote "me"`
	cfg.Database.Path = "/data/humor.db"

	rendered := Render(cfg)
	assert.True(t, strings.HasPrefix(rendered, "# humor configuration"))

	path := writeConfig(t, "humor.yaml", rendered)
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, `Quote "me"`, loaded.Site.Name)
	assert.Equal(t, "/data/humor.db", loaded.Database.Path)
	assert.Equal(t, cfg.Auth.SessionTTLHours, loaded.Auth.SessionTTLHours)
}
