// Package config handles configuration loading for humor.
//
// # Overview
//
// humor runs without any configuration file: Default() is a working setup
// listening on :3001 with a humor.db next to the binary. A YAML or TOML file
// can override any part of it, and a handful of environment variables
// override the file.
//
// # Configuration File
//
// Default location (first match wins):
//
//  1. Path from HUMOR_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/humor/humor.yaml
//  3. ~/.config/humor/humor.yaml
//
// Files ending in .toml are parsed as TOML; everything else as YAML.
//
// # Environment Variables
//
// Values can reference environment variables with ${VAR_NAME}. After the file
// is read these deployment variables take precedence:
//
//	PORT               listen on :PORT
//	DB_PATH            database file
//	SESSION_TTL_HOURS  session lifetime, ignored unless a positive number
//	PASSWORD_ROUNDS    bcrypt cost, ignored unless between 8 and 31
//
// # Configuration Sections
//
//	server:
//	  http_addr: ":3001"
//
//	database:
//	  path: "humor.db"
//
//	auth:
//	  session_ttl_hours: 168
//	  password_cost: 12
//	  sweep_interval: "1h"     # empty disables the background sweep
//
//	site:
//	  name: "Humor."
//	  tagline: "Mindful shit or horseshit. You decide."
//
//	inspiration:
//	  command: "bird"
//	  args: ["news", "-n", "5", "--json"]
//	  timeout: "3s"
//	  cache_ttl: "10m"
//	  limit: 5
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// Durations use time.ParseDuration syntax.
package config
