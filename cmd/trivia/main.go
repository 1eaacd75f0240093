package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"trivia-app/internal/api"
	"trivia-app/internal/config"
	"trivia-app/internal/history"
	"trivia-app/internal/logger"
	"trivia-app/internal/screen"
	"trivia-app/internal/trivia"
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

	err = run(context.Background(), cfg, log)
	_ = log.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	client, err := api.New(api.Config{
		Source:      cfg.API.Source,
		BaseURL:     cfg.API.BaseURL,
		Amount:      cfg.API.Amount,
		Timeout:     cfg.API.Timeout,
		MinInterval: cfg.API.MinInterval,
	}, &http.Client{Timeout: cfg.API.Timeout})
	if err != nil {
		return err
	}

	opts := []trivia.Option{trivia.WithLogger(log)}
	if !cfg.Screen.Shuffle {
		opts = append(opts, trivia.WithShuffle(nil))
	}
	store := trivia.NewStore(client, opts...)

	var journal screen.Journal
	if cfg.History.Path != "" {
		h, err := history.Open(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer h.Close()
		journal = h
	}

	log.Debug("starting trivia screen",
		zap.String("source", client.Source()),
		zap.String("base_url", cfg.API.BaseURL),
		zap.Bool("history", journal != nil),
	)

	s := screen.New(store, journal, log, os.Stdout, screen.Config{
		Prompt:       term.IsTerminal(int(os.Stdin.Fd())),
		HistoryLimit: cfg.History.Limit,
	})
	return s.Run(ctx, os.Stdin)
}
