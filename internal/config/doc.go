// Package config loads runtime configuration for the habitsync daemon.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables (see parseEnv), HABITSYNC_* prefixed.
//  4. Command-line flags (see parseFlags), which override everything else.
//
// Supported flags
//
//	-p string   Google Cloud project id
//	-u string   user id whose habit collection is mirrored
//	-t string   templates collection path
//	-f string   SQLite cache file
//	-s string   status endpoint bind address
//	-l string   log file path (empty: stderr only)
//	-b int      sync backoff base (seconds)
//	-m int      sync backoff cap (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "30s" or integer nanoseconds:
//
//	{
//	  "project_id": "my-project",
//	  "user_id": "alice",
//	  "templates_collection": "habitTemplates",
//	  "cache_file": "habitsync.db",
//	  "status_addr": ":8080",
//	  "log_file": "habitsync.log",
//	  "backoff_base": "1s",
//	  "backoff_cap": "1m"
//	}
//
// Primary API
//
//   - type Config                     — daemon settings
//   - func LoadConfig() *Config       — defaults, then JSON, env and flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
package config
