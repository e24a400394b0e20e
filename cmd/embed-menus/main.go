package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"eatery/internal/config"
	"eatery/internal/db"
	"eatery/internal/embedding"
	"eatery/internal/llm"
	"eatery/internal/menu"

	"github.com/redis/go-redis/v9"
)

func main() {
	force := flag.Bool("force", false, "re-embed items that already have an embedding")
	id := flag.Int64("id", 0, "embed only this menu id")
	interval := flag.Duration("interval", 0, "keep running and backfill on this interval")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ config: %v", err)
	}

	log.Println("🧠 Embedding worker starting...")

	pgDB := db.ConnectPostgres(ctx, cfg.DatabaseURL)
	defer pgDB.Close()

	gemini := llm.NewGeminiClient(
		cfg.GeminiAPIKey,
		cfg.GeminiModel,
		cfg.GeminiEmbedModel,
		llm.WithRequestsPerMinute(cfg.GeminiRPM),
	)

	var embedder embedding.Provider = gemini
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		embedder = embedding.NewCachedProvider(gemini, rdb, cfg.EmbedCacheTTL, cfg.GeminiEmbedModel)
	}

	service := menu.NewService(menu.NewPostgresRepository(pgDB), embedder, nil)

	run := func() {
		report, err := service.GenerateEmbeddings(ctx, *force, *id)
		if err != nil {
			log.Printf("⚠️  embedding run failed: %v", err)
			return
		}
		log.Printf("✅ processed=%d succeeded=%d failed=%d", report.Processed, report.Succeeded, report.Failed)
	}

	run()
	if *interval <= 0 {
		return
	}

	log.Printf("Backfilling every %s. Press Ctrl+C to stop.", *interval)
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Later passes only pick up items still missing an embedding.
			*force = false
			run()
		}
	}
}
