package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	classifier "github.com/FrenchMajesty/zeroshot-classifier"
	"github.com/FrenchMajesty/zeroshot-classifier/adapters"
	"github.com/FrenchMajesty/zeroshot-classifier/internal/config"
	"github.com/FrenchMajesty/zeroshot-classifier/internal/httpapi"
	"github.com/FrenchMajesty/zeroshot-classifier/internal/logger"
)

// ServeAction runs the HTTP API until SIGINT or SIGTERM
func ServeAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	gin.SetMode(cfg.Server.Mode)

	pipeline, err := newPipeline(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	store, redisClient, err := newSessionStore(c.Context, cfg.Session)
	if err != nil {
		log.Error("Failed to initialize session store", zap.Error(err))
		return err
	}
	log.Info("Session store ready", zap.String("backend", cfg.Session.Backend))

	r := httpapi.Setup(pipeline, store, httpapi.SessionCookie{
		Name:   cfg.Session.CookieName,
		TTL:    cfg.Session.TTL,
		Secure: cfg.Session.SecureCookie,
	}, log)

	addr := cfg.Server.Address()
	srv := &http.Server{
		Addr:        addr,
		Handler:     r,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("address", addr), zap.String("model", cfg.Inference.Model))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if redisClient != nil {
		_ = redisClient.Close()
	}

	log.Info("Server exited")
	return nil
}

// newSessionStore returns the configured store, and the Redis client to close when one is used
func newSessionStore(ctx context.Context, cfg config.SessionConfig) (classifier.SessionStore, *redis.Client, error) {
	switch cfg.Backend {
	case "redis":
		client, err := adapters.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		return adapters.NewRedisSessionStore(client, cfg.TTL), client, nil
	default:
		return classifier.NewMemorySessionStore(cfg.TTL), nil, nil
	}
}
