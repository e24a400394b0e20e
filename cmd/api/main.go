package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"eatery/internal/assistant"
	"eatery/internal/auth"
	"eatery/internal/cart"
	"eatery/internal/config"
	"eatery/internal/db"
	"eatery/internal/embedding"
	"eatery/internal/llm"
	"eatery/internal/menu"
	"eatery/internal/order"
	"eatery/internal/router"
	"eatery/internal/storage"

	"github.com/redis/go-redis/v9"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ───────────────────────── ENV ─────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ config: %v", err)
	}
	assistantCfg, err := config.LoadAssistant(cfg.AssistantConfigPath)
	if err != nil {
		log.Fatalf("❌ assistant config: %v", err)
	}

	// ───────────────────────── DB ─────────────────────────
	pgDB := db.ConnectPostgres(ctx, cfg.DatabaseURL)
	defer pgDB.Close()

	// ───────────────────────── LLM + EMBEDDINGS ─────────────────────────
	gemini := llm.NewGeminiClient(
		cfg.GeminiAPIKey,
		cfg.GeminiModel,
		cfg.GeminiEmbedModel,
		llm.WithTimeout(assistantCfg.Timeout),
		llm.WithRequestsPerMinute(cfg.GeminiRPM),
	)

	var embedder embedding.Provider = gemini
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		embedder = embedding.NewCachedProvider(gemini, rdb, cfg.EmbedCacheTTL, cfg.GeminiEmbedModel)
		log.Printf("[EMBED CACHE] redis at %s ttl=%s", cfg.RedisAddr, cfg.EmbedCacheTTL)
	}

	// ───────────────────────── STORAGE ─────────────────────────
	var images menu.Storage
	if cfg.R2.Enabled() {
		r2Client, err := storage.NewR2Client(ctx, cfg.R2)
		if err != nil {
			log.Fatalf("❌ R2 init failed: %v", err)
		}
		images = r2Client
	} else {
		log.Println("[STORAGE] R2 not configured, image uploads disabled")
	}

	// ───────────────────────── EVENTS ─────────────────────────
	var publisher order.Publisher
	if cfg.KafkaBroker != "" {
		kp := order.NewKafkaPublisher(cfg.KafkaBroker, cfg.KafkaOrderTopic)
		defer kp.Close()
		publisher = kp
		log.Printf("[ORDER] publishing to kafka topic=%s", cfg.KafkaOrderTopic)
	}

	// ───────────────────────── SERVICES ─────────────────────────
	menuRepo := menu.NewPostgresRepository(pgDB)
	cartRepo := cart.NewPostgresRepository(pgDB)
	orderRepo := order.NewPostgresRepository(pgDB)
	userRepo := auth.NewPostgresUserRepository(pgDB)

	menuService := menu.NewService(menuRepo, embedder, images)
	cartService := cart.NewService(cartRepo, menuRepo)
	orderService := order.NewService(orderRepo, cartRepo, publisher)
	authService := auth.NewService(userRepo)
	tokens := auth.NewTokenManager(cfg.JWTSecret, auth.DefaultTokenTTL)

	dispatcher := assistant.NewDispatcher(cartService, orderService)
	engine := assistant.NewEngine(gemini, embedder, menuRepo, dispatcher, assistantCfg)
	assistantService := assistant.NewService(engine, embedder, menuRepo, assistantCfg)

	// ───────────────────────── HTTP ─────────────────────────
	r := router.New(router.Dependencies{
		Auth:        auth.NewHandler(authService, tokens, cfg.StaffRegistrationKey),
		Tokens:      tokens,
		Menus:       menu.NewHandler(menuService),
		Carts:       cart.NewHandler(cartService),
		Orders:      order.NewHandler(orderService, order.NewQRGenerator(cfg.AppBaseURL)),
		Assistant:   assistant.NewHandler(assistantService),
		CORSOrigins: cfg.CORSOrigins,
		Ping:        pgDB.Ping,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🚀 API running at http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	menuService.Wait()
}
