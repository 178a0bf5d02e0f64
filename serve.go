package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openclaw/qrcode/api"
	"github.com/openclaw/qrcode/colorize"
	"github.com/openclaw/qrcode/config"
	"github.com/openclaw/qrcode/qr"
	"github.com/openclaw/qrcode/store"
)

// runServe wires the web colorizer and blocks until SIGINT or SIGTERM.
func runServe(configPath string) error {
	// 1. Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return &exitError{code: 2, err: fmt.Errorf("load config: %w", err)}
	}

	colorizeOpts, err := colorizeOptions(cfg)
	if err != nil {
		return &exitError{code: 2, err: fmt.Errorf("load config: %w", err)}
	}

	// 2. Setup logger
	log := newLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting openclaw-qr", "version", version, "port", cfg.Port, "brand", cfg.Brand)

	// 3. Open history store
	var history *store.HistoryStore
	if cfg.HistoryDB != "" {
		history, err = store.NewHistoryStore(cfg.HistoryDB)
		if err != nil {
			return &exitError{code: 1, err: fmt.Errorf("open history store: %w", err)}
		}
		defer history.Close()
	}

	// 4. Start HTTP server
	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: api.NewRouter(&api.Server{
			Colorize:     colorizeOpts,
			DownloadName: cfg.DownloadName(),
			LogoPath:     cfg.LogoPath,
			History:      history,
			Log:          log,
			Version:      version,
			StartTime:    time.Now(),
		}),
		ReadTimeout:  cfg.ReadTimeout.Duration,
		WriteTimeout: cfg.WriteTimeout.Duration,
		IdleTimeout:  cfg.IdleTimeout.Duration,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// 5. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case err := <-errCh:
		return &exitError{code: 1, err: fmt.Errorf("HTTP server: %w", err)}
	}

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	log.Info("goodbye")
	return nil
}

func colorizeOptions(cfg *config.Config) (colorize.Options, error) {
	start, err := qr.ParseColor(cfg.Gradient.Start)
	if err != nil {
		return colorize.Options{}, fmt.Errorf("gradient.start: %w", err)
	}
	end, err := qr.ParseColor(cfg.Gradient.End)
	if err != nil {
		return colorize.Options{}, fmt.Errorf("gradient.end: %w", err)
	}
	return colorize.Options{
		Start:     start,
		End:       end,
		Alpha:     cfg.Gradient.Alpha,
		LogoRatio: cfg.LogoRatio,
	}, nil
}
