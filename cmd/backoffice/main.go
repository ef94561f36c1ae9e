package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dcastellanos/gestion_distribuidora/internal/backoffice"
	"github.com/dcastellanos/gestion_distribuidora/internal/config"
	"github.com/dcastellanos/gestion_distribuidora/internal/logging"
	"github.com/dcastellanos/gestion_distribuidora/pkg/authclient"
	"github.com/dcastellanos/gestion_distribuidora/pkg/session"
	"github.com/dcastellanos/gestion_distribuidora/pkg/tokenstore"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	stateDir := cfg.StateDir
	if stateDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			log.Fatalf("state dir: %v", err)
		}
		stateDir = filepath.Join(base, "gestion-backoffice")
	}

	store, err := tokenstore.New(stateDir)
	if err != nil {
		log.Fatalf("token store: %v", err)
	}

	client := authclient.New(cfg.APIURL, store, logger)
	sessions := session.NewManager(client, logger)

	// The guard serves the loading page until this finishes.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		sessions.Bootstrap(ctx)
		st := sessions.State()
		logger.Info("session bootstrap done", "authenticated", st.IsAuthenticated)
	}()

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	if err := backoffice.Register(e, &backoffice.Deps{
		Sessions: sessions,
		Store:    store,
		APIURL:   cfg.APIURL,
	}); err != nil {
		log.Fatal(err)
	}

	addr := config.EnvDefault("BACKOFFICE_ADDR", ":9090")
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
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
