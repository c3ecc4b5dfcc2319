package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/tubelink/tubelink/internal/cache"
	"github.com/tubelink/tubelink/internal/config"
	"github.com/tubelink/tubelink/internal/fetcher"
	"github.com/tubelink/tubelink/internal/models"
	"github.com/tubelink/tubelink/internal/server"
	"github.com/tubelink/tubelink/internal/service"
	"github.com/tubelink/tubelink/internal/store"
)

func main() {
	configPath := flag.String("config", "", "Optional config file path (YAML); else use environment")
	channelsPath := flag.String("channels", "channels.yaml", "Channels file (YAML or JSON)")
	adhocURL := flag.String("url", "", "One-off YouTube watch URL to extract in addition to the channel list")
	outDir := flag.String("out", "", "Output directory for playlist.m3u and status.json (overrides config)")
	serve := flag.Bool("serve", false, "Serve outputs and control API over HTTP after the initial run")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}

	channels, err := config.LoadChannels(*channelsPath)
	if err != nil {
		if *adhocURL == "" {
			fmt.Fprintf(os.Stderr, "channels: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "channels: %v (continuing with ad hoc url only)\n", err)
	}
	if *adhocURL != "" {
		channels = append(channels, models.Channel{
			ID:   "adhoc",
			Name: "Ad hoc",
			URL:  config.NormalizeWatchURL(*adhocURL),
		})
	}

	ctx := context.Background()

	// Connect to Postgres if DATABASE_URL is configured (run history).
	var st store.Store
	if cfg.DatabaseURL != "" {
		absMigrations, err := filepath.Abs("migrations")
		if err != nil {
			absMigrations = "migrations"
		}
		if _, err := os.Stat(absMigrations); err != nil {
			if exe, e := os.Executable(); e == nil {
				absMigrations = filepath.Join(filepath.Dir(exe), "migrations")
			}
		}
		if err := store.RunMigrations(cfg.DatabaseURL, "file://"+absMigrations); err != nil {
			fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
			os.Exit(1)
		}
		pg, err := store.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "db: %v\n", err)
			os.Exit(1)
		}
		defer pg.Close()
		st = pg
		fmt.Fprintln(os.Stderr, "run history enabled (Postgres)")
	} else {
		fmt.Fprintln(os.Stderr, "run history disabled (DATABASE_URL not set)")
	}

	// Connect to Redis if REDIS_URL is configured (manifest cache, run lock, refresh queue).
	var rds *cache.Redis
	if cfg.RedisURL != "" {
		rds, err = cache.New(cfg.RedisURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "redis: %v\n", err)
			os.Exit(1)
		}
		defer rds.Close()
		if err := rds.Ping(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "redis ping: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "redis connected (manifest cache and run lock enabled)")
	} else {
		fmt.Fprintln(os.Stderr, "redis disabled (REDIS_URL not set)")
	}

	runner := &service.Runner{
		Fetcher:       fetcher.New(cfg.UserAgent, cfg.Timeout),
		Cache:         rds,
		Store:         st,
		ProbeVariants: cfg.ProbeVariants,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := runOnce(ctx, runner, rds, channels, cfg.OutputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "run: %v\n", err)
		os.Exit(1)
	}

	if *adhocURL != "" {
		printAdhocResult(summary)
	}

	if !*serve {
		// Same convention as the upstream scheduler expects: success means
		// at least one channel resolved a live manifest.
		if summary.Live == 0 {
			os.Exit(1)
		}
		return
	}

	// Serve mode: background refresh worker (when Redis is available) plus
	// the HTTP surface for artifacts and the control API.
	if rds != nil {
		go runRefreshWorker(ctx, rds, runner, channels, cfg.OutputDir)
	}
	srv := server.New(cfg, channels, runner, rds, st)
	if err := srv.ListenAndServe(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

// runOnce executes a single extraction pass, guarded by the Redis run lock
// when Redis is configured so a scheduled run and a manual dispatch cannot
// overlap.
func runOnce(ctx context.Context, runner *service.Runner, rds *cache.Redis, channels []models.Channel, outDir string) (*service.Summary, error) {
	if rds != nil {
		unlock, err := cache.TryLock(ctx, rds, cache.RunLockKey, 10*time.Minute)
		if err != nil {
			if errors.Is(err, cache.ErrLocked) {
				return nil, errors.New("another run is in progress")
			}
			return nil, err
		}
		defer unlock()
	}
	return runner.Run(ctx, channels, outDir)
}

func printAdhocResult(summary *service.Summary) {
	for i := range summary.Results {
		r := &summary.Results[i]
		if r.Channel.ID != "adhoc" {
			continue
		}
		if r.Live() {
			fmt.Println(r.URL)
		} else {
			fmt.Fprintf(os.Stderr, "ad hoc url: %s %s\n", r.Status, r.Err)
		}
	}
}

// runRefreshWorker continuously dequeues refresh jobs from Redis and
// processes them. It stops when ctx is cancelled (graceful shutdown).
func runRefreshWorker(ctx context.Context, rds *cache.Redis, runner *service.Runner, channels []models.Channel, outDir string) {
	log.Println("refresh worker started")
	for {
		select {
		case <-ctx.Done():
			log.Println("refresh worker stopping")
			return
		default:
		}

		job, err := cache.Dequeue(ctx, rds, cache.RefreshQueue, 5*time.Second)
		if err != nil {
			log.Printf("refresh worker: dequeue error: %v", err)
			time.Sleep(2 * time.Second)
			continue
		}
		if job == nil {
			continue // timeout, loop back to check ctx
		}

		log.Printf("refresh worker: processing job url=%q requested_at=%s", job.URL, job.RequestedAt.Format(time.RFC3339))

		jobChannels := channels
		if job.URL != "" {
			jobChannels = append([]models.Channel{}, channels...)
			jobChannels = append(jobChannels, models.Channel{
				ID:   "adhoc",
				Name: "Ad hoc",
				URL:  config.NormalizeWatchURL(job.URL),
			})
		}
		if _, err := runOnce(ctx, runner, rds, jobChannels, outDir); err != nil {
			log.Printf("refresh worker: run error: %v", err)
		}
	}
}
