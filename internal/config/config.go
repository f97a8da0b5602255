// ABOUTME: Configuration loading and parsing for humor
// ABOUTME: Supports YAML or TOML files with env expansion, env overrides and duration parsing

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Defaults applied before a file is read.
const (
	DefaultHTTPAddr        = ":3001"
	DefaultDatabasePath    = "humor.db"
	DefaultSessionTTLHours = 24 * 7
	DefaultPasswordCost    = 12
	MinPasswordCost        = 8
	MaxPasswordCost        = 31
	DefaultSiteName        = "Humor."
	DefaultSiteTagline     = "Mindful shit or horseshit. You decide."
	DefaultInspirationCmd  = "bird"
	DefaultInspirationTTL  = "10m"
	DefaultInspirationWait = "3s"
	DefaultInspirationMax  = 5
)

// Config represents the complete humor configuration
type Config struct {
	Server      ServerConfig      `yaml:"server" toml:"server"`
	Database    DatabaseConfig    `yaml:"database" toml:"database"`
	Auth        AuthConfig        `yaml:"auth" toml:"auth"`
	Site        SiteConfig        `yaml:"site" toml:"site"`
	Inspiration InspirationConfig `yaml:"inspiration" toml:"inspiration"`
	Logging     LoggingConfig     `yaml:"logging" toml:"logging"`
}

// ServerConfig holds the listen address
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr" toml:"http_addr"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// AuthConfig holds session and password hashing settings
type AuthConfig struct {
	SessionTTLHours float64 `yaml:"session_ttl_hours" toml:"session_ttl_hours"`
	PasswordCost    int     `yaml:"password_cost" toml:"password_cost"`

	// SweepInterval enables the background expired-session sweep. Zero disables it.
	SweepInterval    time.Duration `yaml:"-" toml:"-"`
	SweepIntervalRaw string        `yaml:"sweep_interval" toml:"sweep_interval"`
}

// SiteConfig holds the site identity shown before the owner customizes it
type SiteConfig struct {
	Name    string `yaml:"name" toml:"name"`
	Tagline string `yaml:"tagline" toml:"tagline"`
}

// InspirationConfig holds the external prompt source settings
type InspirationConfig struct {
	Command string   `yaml:"command" toml:"command"`
	Args    []string `yaml:"args" toml:"args"`
	Limit   int      `yaml:"limit" toml:"limit"`

	Timeout  time.Duration `yaml:"-" toml:"-"`
	CacheTTL time.Duration `yaml:"-" toml:"-"`

	// Raw string values for unmarshaling
	TimeoutRaw  string `yaml:"timeout" toml:"timeout"`
	CacheTTLRaw string `yaml:"cache_ttl" toml:"cache_ttl"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Default returns a configuration that runs without a file.
func Default() *Config {
	return &Config{
		Server:   ServerConfig{HTTPAddr: DefaultHTTPAddr},
		Database: DatabaseConfig{Path: DefaultDatabasePath},
		Auth: AuthConfig{
			SessionTTLHours: DefaultSessionTTLHours,
			PasswordCost:    DefaultPasswordCost,
		},
		Site: SiteConfig{
			Name:    DefaultSiteName,
			Tagline: DefaultSiteTagline,
		},
		Inspiration: InspirationConfig{
			Command:     DefaultInspirationCmd,
			Args:        []string{"news", "-n", "5", "--json"},
			Limit:       DefaultInspirationMax,
			TimeoutRaw:  DefaultInspirationWait,
			CacheTTLRaw: DefaultInspirationTTL,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultPath returns where humor looks for its config file: HUMOR_CONFIG,
// then $XDG_CONFIG_HOME/humor/humor.yaml, then ~/.config/humor/humor.yaml.
func DefaultPath() string {
	if p := os.Getenv("HUMOR_CONFIG"); p != "" {
		return p
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "humor", "humor.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "humor.yaml"
	}
	return filepath.Join(home, ".config", "humor", "humor.yaml")
}

// Load reads a configuration file from the given path and returns a parsed Config.
// An empty path skips the file and starts from Default. Files ending in .toml
// are decoded as TOML, anything else as YAML. Environment variables in the
// format ${VAR_NAME} are expanded, then the deployment variables PORT, DB_PATH,
// SESSION_TTL_HOURS and PASSWORD_ROUNDS override the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		// Expand environment variables in the raw content
		expanded := expandEnvVars(string(data))

		if err := decode(path, expanded, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg, os.LookupEnv)

	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// decode unmarshals content into cfg according to the file extension.
func decode(path, content string, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err := toml.Decode(content, cfg)
		return err
	default:
		return yaml.Unmarshal([]byte(content), cfg)
	}
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// applyEnvOverrides applies the deployment environment variables. Values
// that do not parse, or are out of range, are ignored and the file or
// default value stands.
func applyEnvOverrides(cfg *Config, lookup func(string) (string, bool)) {
	if port, ok := lookup("PORT"); ok && strings.TrimSpace(port) != "" {
		cfg.Server.HTTPAddr = ":" + strings.TrimSpace(port)
	}

	if path, ok := lookup("DB_PATH"); ok && strings.TrimSpace(path) != "" {
		cfg.Database.Path = strings.TrimSpace(path)
	}

	if raw, ok := lookup("SESSION_TTL_HOURS"); ok {
		if hours, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && hours > 0 {
			cfg.Auth.SessionTTLHours = hours
		}
	}

	if raw, ok := lookup("PASSWORD_ROUNDS"); ok {
		if rounds, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil &&
			rounds >= MinPasswordCost && rounds <= MaxPasswordCost {
			cfg.Auth.PasswordCost = rounds
		}
	}
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if c.Auth.SessionTTLHours <= 0 {
		return fmt.Errorf("auth.session_ttl_hours must be positive, got %v", c.Auth.SessionTTLHours)
	}

	if c.Auth.PasswordCost < MinPasswordCost || c.Auth.PasswordCost > MaxPasswordCost {
		return fmt.Errorf("auth.password_cost must be between %d and %d, got %d",
			MinPasswordCost, MaxPasswordCost, c.Auth.PasswordCost)
	}

	if c.Auth.SweepInterval < 0 {
		return fmt.Errorf("auth.sweep_interval must not be negative")
	}

	if c.Inspiration.Limit <= 0 {
		return fmt.Errorf("inspiration.limit must be positive, got %d", c.Inspiration.Limit)
	}

	if c.Inspiration.Timeout <= 0 {
		return fmt.Errorf("inspiration.timeout must be positive")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format %q is not one of text, json", c.Logging.Format)
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Auth.SweepIntervalRaw != "" {
		cfg.Auth.SweepInterval, err = time.ParseDuration(cfg.Auth.SweepIntervalRaw)
		if err != nil {
			return fmt.Errorf("parsing sweep_interval %q: %w", cfg.Auth.SweepIntervalRaw, err)
		}
	}

	if cfg.Inspiration.TimeoutRaw != "" {
		cfg.Inspiration.Timeout, err = time.ParseDuration(cfg.Inspiration.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing timeout %q: %w", cfg.Inspiration.TimeoutRaw, err)
		}
	}

	if cfg.Inspiration.CacheTTLRaw != "" {
		cfg.Inspiration.CacheTTL, err = time.ParseDuration(cfg.Inspiration.CacheTTLRaw)
		if err != nil {
			return fmt.Errorf("parsing cache_ttl %q: %w", cfg.Inspiration.CacheTTLRaw, err)
		}
	}

	return nil
}

// Template is the annotated YAML written by "humor init".
const Template = `# humor configuration
server:
  http_addr: %q

database:
  path: %q

auth:
  session_ttl_hours: %v
  password_cost: %d
  # sweep_interval: "1h"

site:
  name: %q
  tagline: %q

inspiration:
  command: "bird"
  args: ["news", "-n", "5", "--json"]
  timeout: "3s"
  cache_ttl: "10m"
  limit: 5

logging:
  level: "info"   # debug, info, warn, error
  format: "text"  # text, json
`

// Render fills Template from cfg.
func Render(cfg *Config) string {
	return fmt.Sprintf(Template,
		cfg.Server.HTTPAddr,
		cfg.Database.Path,
		cfg.Auth.SessionTTLHours,
		cfg.Auth.PasswordCost,
		cfg.Site.Name,
		cfg.Site.Tagline,
	)
}
