package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseEnv(t *testing.T) {
	t.Run("overlays set variables", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("HABITSYNC_PROJECT_ID", "env-project")
		t.Setenv("HABITSYNC_USER_ID", "alice")
		t.Setenv("HABITSYNC_CACHE_FILE", "/tmp/env.db")
		t.Setenv("HABITSYNC_BACKOFF_BASE", "5s")

		cfg := &Config{}
		cfg.LoadDefaults()
		parseEnv(cfg)

		assert.Equal(t, "env-project", cfg.ProjectID)
		assert.Equal(t, "alice", cfg.UserID)
		assert.Equal(t, "/tmp/env.db", cfg.CacheFile)
		assert.Equal(t, 5*time.Second, cfg.BackoffBase)
		// Untouched fields keep their defaults.
		assert.Equal(t, "habitTemplates", cfg.TemplatesCollection)
		assert.Equal(t, 1*time.Minute, cfg.BackoffCap)
	})

	t.Run("GOOGLE_CLOUD_PROJECT is honored", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GOOGLE_CLOUD_PROJECT", "gcp-project")

		cfg := &Config{}
		parseEnv(cfg)

		assert.Equal(t, "gcp-project", cfg.ProjectID)
	})

	t.Run("HABITSYNC_PROJECT_ID wins over GOOGLE_CLOUD_PROJECT", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GOOGLE_CLOUD_PROJECT", "gcp-project")
		t.Setenv("HABITSYNC_PROJECT_ID", "habitsync-project")

		cfg := &Config{}
		parseEnv(cfg)

		assert.Equal(t, "habitsync-project", cfg.ProjectID)
	})

	t.Run("empty variables leave prior values", func(t *testing.T) {
		clearEnv(t)

		cfg := &Config{ProjectID: "prior", BackoffCap: 7 * time.Second}
		parseEnv(cfg)

		assert.Equal(t, "prior", cfg.ProjectID)
		assert.Equal(t, 7*time.Second, cfg.BackoffCap)
	})

	t.Run("unparseable duration panics", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("HABITSYNC_BACKOFF_BASE", "soon")

		cfg := &Config{}
		require.Panics(t, func() { parseEnv(cfg) })
	})
}
