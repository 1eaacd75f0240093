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
	"go.uber.org/zap"

	"trivia-app/internal/config"
	"trivia-app/internal/httpapi"
	"trivia-app/internal/logger"
	"trivia-app/internal/opentdb"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		Production: cfg.Production(),
	})
	defer func() { _ = log.Sync() }()

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	baseURL := cfg.API.BaseURL
	if cfg.API.Source != "opentdb" {
		// The feed always reads from Open Trivia DB.
		baseURL = opentdb.DefaultBaseURL
	}
	client := opentdb.NewClient(&http.Client{Timeout: cfg.API.Timeout},
		opentdb.WithBaseURL(baseURL),
		opentdb.WithMinInterval(cfg.API.MinInterval),
	)

	server := &http.Server{
		Addr:              cfg.Feed.Addr,
		Handler:           httpapi.NewRouter(client.FetchQuestions, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("trivia-feed listening", zap.String("addr", cfg.Feed.Addr), zap.String("upstream", baseURL))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", zap.Error(err))
		}
		return
	case <-ctx.Done():
	}

	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
