package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/dkarlovs/habitsync/internal/app"
	"github.com/dkarlovs/habitsync/internal/buildinfo"
	"github.com/dkarlovs/habitsync/internal/cache"
	"github.com/dkarlovs/habitsync/internal/config"
	"github.com/dkarlovs/habitsync/internal/flagx"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.LoadConfig()

	if resetRequested() {
		if err := resetCache(context.Background(), cfg); err != nil {
			log.Fatalf("reset failed: %v", err)
		}
		log.Println("local cache cleared")
		return
	}

	if cfg.ProjectID == "" {
		log.Fatal("project id is required (-p, HABITSYNC_PROJECT_ID or GOOGLE_CLOUD_PROJECT)")
	}
	if cfg.UserID == "" {
		log.Fatal("user id is required (-u or HABITSYNC_USER_ID)")
	}

	ctx := context.Background()
	a, err := app.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}
	defer a.Close()

	a.Run(ctx)
}

// resetRequested reports whether -reset was passed. The reset path drops the
// local cache and exits without touching the remote store, so it works
// offline and without credentials.
func resetRequested() bool {
	args := flagx.FilterArgs(os.Args[1:], []string{"-reset"})

	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	reset := fs.Bool("reset", false, "clear the local cache and exit")
	_ = fs.Parse(args)

	return *reset
}

func resetCache(ctx context.Context, cfg *config.Config) error {
	stores, err := cache.Open(ctx, cfg.CacheFile)
	if err != nil {
		return err
	}
	defer stores.Close()

	if err := stores.Habits.Clear(ctx); err != nil {
		return err
	}
	if err := stores.Templates.Clear(ctx); err != nil {
		return err
	}
	return stores.Metadata.Clear(ctx)
}
