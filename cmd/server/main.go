package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dcastellanos/gestion_distribuidora/internal/config"
	"github.com/dcastellanos/gestion_distribuidora/internal/db"
	"github.com/dcastellanos/gestion_distribuidora/internal/es"
	"github.com/dcastellanos/gestion_distribuidora/internal/events"
	"github.com/dcastellanos/gestion_distribuidora/internal/handlers"
	"github.com/dcastellanos/gestion_distribuidora/internal/httpserver"
	"github.com/dcastellanos/gestion_distribuidora/internal/logging"
	"github.com/dcastellanos/gestion_distribuidora/internal/revocation"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx := context.Background()
	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close()

	revoked, err := revocation.New(cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer revoked.Close()

	deps := &httpserver.Deps{
		DB:        gdb,
		JWTSecret: cfg.JWTSecret,
		Producer:  producer,
		Revoked:   revoked,
	}

	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		deps.SearchHandler = &handlers.SearchHandler{ES: esClient}
	} else {
		logger.Warn("ES_URL not set, client search disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	httpserver.Register(e, deps)

	go func() {
		if err := e.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
}
