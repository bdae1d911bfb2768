package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/youruser/eidqr/internal/api"
	"github.com/youruser/eidqr/internal/app"
	"github.com/youruser/eidqr/internal/config"
	"github.com/youruser/eidqr/internal/logger"
	"github.com/youruser/eidqr/internal/session"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	l := logger.New(os.Stderr, logger.ParseLevel(os.Getenv("LOG_LEVEL")))

	cfg, err := config.NewConfig()
	if err != nil {
		l.Fatal("failed to load config", "err", err)
	}
	l.SetLevel(logger.ParseLevel(cfg.LogLevel))
	ctx = logger.WithContext(ctx, l)

	a, err := app.New(cfg)
	if err != nil {
		l.Fatal("failed to initialize", "err", err)
	}
	l.Info("card pipeline ready",
		"templates", a.Registry.Len(),
		"raster", a.Raster.Name(),
		"scale", cfg.Export.Scale,
		"suppress_border", cfg.Export.SuppressBorder,
	)

	// fonts load in the background; report when they are usable
	go func() {
		if err := a.Fonts.Wait(ctx); err != nil {
			l.Error("failed to load fonts", "err", err)
			return
		}
		l.Debug("fonts loaded")
	}()

	store := session.NewStore(cfg.Session.IdleTimeout, a.NewSession)
	go store.Run(ctx, cfg.Session.SweepInterval)

	gin.SetMode(cfg.HTTP.Mode)
	r := gin.New()
	r.Use(gin.Recovery())
	api.RegisterRoutes(r, api.NewHandler(a.Registry, store, cfg.Session.IdleTimeout, l))

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		l.Info("starting server on http://localhost:" + cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("server failed", "err", err)
		}
	}()

	<-ctx.Done()
	l.Info("shutting down")

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error("graceful shutdown failed", "err", err)
	}
}
