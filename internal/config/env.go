package config

import (
	"os"
	"time"
)

// parseEnv overlays cfg with values from environment variables. Unset or
// empty variables leave the prior value alone.
//
// GOOGLE_CLOUD_PROJECT is honored as the conventional project variable;
// HABITSYNC_PROJECT_ID overrides it when both are set.
func parseEnv(cfg *Config) {
	if v := os.Getenv("GOOGLE_CLOUD_PROJECT"); v != "" {
		cfg.ProjectID = v
	}
	if v := os.Getenv("HABITSYNC_PROJECT_ID"); v != "" {
		cfg.ProjectID = v
	}
	if v := os.Getenv("HABITSYNC_USER_ID"); v != "" {
		cfg.UserID = v
	}
	if v := os.Getenv("HABITSYNC_TEMPLATES_COLLECTION"); v != "" {
		cfg.TemplatesCollection = v
	}
	if v := os.Getenv("HABITSYNC_CACHE_FILE"); v != "" {
		cfg.CacheFile = v
	}
	if v := os.Getenv("HABITSYNC_STATUS_ADDR"); v != "" {
		cfg.StatusAddr = v
	}
	if v := os.Getenv("HABITSYNC_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("HABITSYNC_BACKOFF_BASE"); v != "" {
		cfg.BackoffBase = mustDuration(v)
	}
	if v := os.Getenv("HABITSYNC_BACKOFF_CAP"); v != "" {
		cfg.BackoffCap = mustDuration(v)
	}
}

func mustDuration(v string) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	return d
}
