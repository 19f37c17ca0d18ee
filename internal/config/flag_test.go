package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd", "-p", "demo-project", "-u", "alice", "-t", "catalog", "-f", "/tmp/cache.db", "-s", ":9090", "-l", "/tmp/sync.log", "-b", "2", "-m", "30"}, expectPanic: false,
			expected: &Config{ProjectID: "demo-project", UserID: "alice", TemplatesCollection: "catalog", CacheFile: "/tmp/cache.db", StatusAddr: ":9090", LogFile: "/tmp/sync.log", BackoffBase: 2 * time.Second, BackoffCap: 30 * time.Second}},
		{name: "incorrect backoff base", args: []string{"cmd", "-p", "demo-project", "-b", "abc"}, expectPanic: true, expected: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
