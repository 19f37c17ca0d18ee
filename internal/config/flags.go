package config

import (
	"flag"
	"os"
	"time"

	"github.com/dkarlovs/habitsync/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-p string   Google Cloud project id
//	-u string   user id whose habit collection is mirrored
//	-t string   templates collection path
//	-f string   SQLite cache file
//	-s string   status endpoint bind address
//	-l string   log file path
//	-b int      sync backoff base in seconds
//	-m int      sync backoff cap in seconds
//
// The function filters os.Args to only the flags it knows about, using
// flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-p", "-u", "-t", "-f", "-s", "-l", "-b", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ProjectID, "p", cfg.ProjectID, "Google Cloud project id")
	fs.StringVar(&cfg.UserID, "u", cfg.UserID, "user id whose habits are mirrored")
	fs.StringVar(&cfg.TemplatesCollection, "t", cfg.TemplatesCollection, "templates collection path")
	fs.StringVar(&cfg.CacheFile, "f", cfg.CacheFile, "SQLite cache file")
	fs.StringVar(&cfg.StatusAddr, "s", cfg.StatusAddr, "status endpoint bind address")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "log file path")
	backoffBase := fs.Int("b", int(cfg.BackoffBase.Seconds()), "sync backoff base (in seconds)")
	backoffCap := fs.Int("m", int(cfg.BackoffCap.Seconds()), "sync backoff cap (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.BackoffBase = time.Duration(*backoffBase) * time.Second
	cfg.BackoffCap = time.Duration(*backoffCap) * time.Second
}
