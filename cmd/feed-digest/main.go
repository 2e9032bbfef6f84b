package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/ryosukesatoh/feed-digest/internal/config"
	"github.com/ryosukesatoh/feed-digest/internal/digest"
	"github.com/ryosukesatoh/feed-digest/internal/fetcher"
	"github.com/ryosukesatoh/feed-digest/internal/runner"
	"github.com/ryosukesatoh/feed-digest/internal/store"
	"github.com/ryosukesatoh/feed-digest/internal/summarizer"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	once := flag.Bool("once", false, "run the pipeline once and exit")
	flag.Parse()

	// Best effort; the config file expands ${VAR} references itself.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	s, err := summarizer.New(cfg.Provider)
	if err != nil {
		log.Fatalf("Failed to build summarizer: %v", err)
	}
	if !s.Available() {
		log.Printf("Summarization provider %q is not configured; digests will use raw excerpts", cfg.Provider.Type)
	}

	st, err := store.New(cfg.Store)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	checkpoint, _ := st.(store.Checkpoint)

	r := runner.New(cfg, fetcher.NewRSSFetcher(), s, st, checkpoint)

	// Single-run mode: run the pipeline once, print the digest, and exit.
	if *once {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		log.Println("Running digest (once mode)...")
		d, err := r.Run(ctx, digest.KindManual)
		if err != nil {
			if errors.Is(err, runner.ErrNoFeeds) {
				log.Fatal("No feeds qualify for today; nothing to do")
			}
			log.Fatalf("Pipeline failed: %v", err)
		}
		fmt.Println(d.Content)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.RunOnStart {
		log.Println("Running initial digest...")
		if _, err := r.Run(ctx, digest.KindScheduled); err != nil {
			log.Printf("Initial run failed: %v", err)
		}
	}

	c := cron.New()
	_, err = c.AddFunc(cfg.Schedule, func() {
		log.Println("Cron triggered, running digest...")
		if _, err := r.Run(ctx, digest.KindScheduled); err != nil {
			log.Printf("Scheduled run failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to set up cron schedule %q: %v", cfg.Schedule, err)
	}
	c.Start()
	log.Printf("Scheduled digest with cron expression: %s", cfg.Schedule)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("Received signal %v, shutting down...", sig)

	cancel()
	c.Stop()

	log.Println("Shutdown complete")
}
