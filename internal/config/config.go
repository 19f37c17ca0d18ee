package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings for the habitsync daemon.
//
// Fields:
//   - ProjectID: Google Cloud project hosting the Firestore database.
//   - UserID: user whose habit collection is mirrored locally.
//   - TemplatesCollection: path of the shared template catalog collection.
//   - CacheFile: SQLite file backing the local cache.
//   - StatusAddr: bind address of the HTTP status endpoint.
//   - LogFile: optional log file; empty means stderr only.
//   - BackoffBase / BackoffCap: reconnect delay bounds for continuous sync.
type Config struct {
	ProjectID           string
	UserID              string
	TemplatesCollection string
	CacheFile           string
	StatusAddr          string
	LogFile             string
	BackoffBase         time.Duration
	BackoffCap          time.Duration
}

// LoadDefaults populates c with sensible defaults. ProjectID and UserID have
// no default; the daemon refuses to start without them.
func (c *Config) LoadDefaults() {
	c.TemplatesCollection = "habitTemplates"
	c.CacheFile = "habitsync.db"
	c.StatusAddr = ":8080"
	c.BackoffBase = 1 * time.Second
	c.BackoffCap = 1 * time.Minute
}

// HabitsCollection returns the path of the per-user habit collection.
func (c *Config) HabitsCollection() string {
	return fmt.Sprintf("users/%s/habits", c.UserID)
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), environment variables and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
