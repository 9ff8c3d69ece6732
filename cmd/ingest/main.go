// Command ingest runs one RSS ingestion pass over every active feed. It is
// meant to be scheduled by cron or a job runner.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sharehub/internal/bootstrap"
	"sharehub/internal/config"
	"sharehub/internal/feeds"
	"sharehub/internal/middleware"
	"sharehub/internal/repository"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}
	defer func() { _ = rt.Close() }()

	ingester := feeds.NewIngester(
		repository.NewPostRepository(rt.DB),
		repository.NewRssFeedRepository(rt.DB),
		feeds.Options{
			AuthorID: cfg.RSSAuthorID,
			MaxItems: cfg.RSSMaxItemsPerFeed,
			Timeout:  time.Duration(cfg.RSSFetchTimeoutSeconds) * time.Second,
		},
	)

	results, runErr := ingester.RunActive(ctx)
	created, skipped := 0, 0
	for id, res := range results {
		created += res.Created
		skipped += res.Skipped
		middleware.Logger.Info("feed ingested",
			slog.Uint64("feed_id", uint64(id)),
			slog.Int("created", res.Created),
			slog.Int("skipped", res.Skipped),
		)
	}
	middleware.Logger.Info("ingestion pass complete",
		slog.Int("feeds", len(results)),
		slog.Int("created", created),
		slog.Int("skipped", skipped),
	)
	if runErr != nil {
		middleware.Logger.Error("some feeds failed", slog.String("error", runErr.Error()))
		_ = rt.Close()
		os.Exit(1)
	}
}
