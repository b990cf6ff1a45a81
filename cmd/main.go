package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/prudentjag/inventory-pos/internal/auth"
	"github.com/prudentjag/inventory-pos/internal/backend"
	"github.com/prudentjag/inventory-pos/internal/cache"
	"github.com/prudentjag/inventory-pos/internal/catalog"
	"github.com/prudentjag/inventory-pos/internal/events"
	h "github.com/prudentjag/inventory-pos/internal/http"
	"github.com/prudentjag/inventory-pos/internal/poller"
	"github.com/prudentjag/inventory-pos/internal/session"
)

type Config struct {
	HTTPPort        string
	BackendBaseURL  string
	BackendToken    string
	UnitID          int64
	CashierName     string
	RedisAddr       string
	KafkaBrokers    []string
	PollInterval    time.Duration
	PollMaxAttempts int
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		BackendBaseURL:  getEnv("BACKEND_BASE_URL", "http://localhost:9000/api"),
		BackendToken:    getEnv("BACKEND_TOKEN", ""),
		UnitID:          getEnvInt64("UNIT_ID", 1),
		CashierName:     getEnv("CASHIER_NAME", ""),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		KafkaBrokers:    splitList(getEnv("KAFKA_BROKERS", "")),
		PollInterval:    time.Duration(getEnvInt64("POLL_INTERVAL_SECONDS", 5)) * time.Second,
		PollMaxAttempts: int(getEnvInt64("POLL_MAX_ATTEMPTS", 60)),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return parsed
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func main() {
	_ = godotenv.Load()

	cfg := loadConfig()

	sess := auth.Session{
		Token:   cfg.BackendToken,
		UnitID:  cfg.UnitID,
		Cashier: cfg.CashierName,
	}
	client := backend.NewClient(cfg.BackendBaseURL, sess, cfg.RequestTimeout)

	var invCache cache.InventoryCache = cache.NewMemoryCache()
	if cfg.RedisAddr != "" {
		invCache = cache.NewRedisCache(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	}
	cat := catalog.New(client, invCache)

	listeners := poller.Listeners{catalog.NewInvalidationListener(cat, cfg.UnitID)}
	if len(cfg.KafkaBrokers) > 0 {
		publisher := events.NewPublisher(cfg.KafkaBrokers...)
		defer func() {
			if err := publisher.Close(); err != nil {
				log.Printf("error closing publisher: %v", err)
			}
		}()
		listeners = append(listeners, publisher)
	}

	pollCfg := poller.Config{
		Interval:    cfg.PollInterval,
		MaxAttempts: cfg.PollMaxAttempts,
	}
	sessions := session.NewManager(client, sess, pollCfg, listeners...)
	defer sessions.CloseAll()

	handler := h.NewHandler(sessions, cat, cfg.UnitID, cfg.RequestTimeout)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Mount("/api/v1", handler.Routes())

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: otelhttp.NewHandler(r, "pos-terminal"),
	}

	go func() {
		log.Printf("POS terminal listening on port %s (unit %d)", cfg.HTTPPort, cfg.UnitID)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down POS terminal...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	log.Println("POS terminal stopped")
}
