package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cliplab/cliplab-agent/internal/api"
	"github.com/cliplab/cliplab-agent/internal/config"
	"github.com/cliplab/cliplab-agent/internal/logging"
	"github.com/cliplab/cliplab-agent/internal/media"
	"github.com/cliplab/cliplab-agent/internal/progress"
	"github.com/cliplab/cliplab-agent/internal/store"
	"github.com/cliplab/cliplab-agent/internal/ui"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	startTime := time.Now()

	// A .env next to the binary is a dev convenience; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir(), 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	if err := os.MkdirAll(cfg.MediaDir(), 0755); err != nil {
		return fmt.Errorf("failed to create media dir: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel())
	logger.Info("starting cliplab agent",
		"version", config.Version,
		"data_dir", cfg.DataDir(),
		"media_dir", cfg.MediaDir(),
	)

	db, err := store.Open(cfg.DBPath(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	authToken, err := ensureAuthToken(db)
	if err != nil {
		return fmt.Errorf("failed to ensure auth token: %w", err)
	}

	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════════════════════════╗")
	fmt.Printf("║                  CLIPLAB AGENT v%-26s ║\n", config.Version)
	fmt.Println("╠═══════════════════════════════════════════════════════════╣")
	fmt.Printf("║  API URL:    http://127.0.0.1:%-27d  ║\n", cfg.Port())
	fmt.Printf("║  Auth Token: %-45s ║\n", authToken)
	fmt.Println("╚═══════════════════════════════════════════════════════════╝")
	fmt.Println()

	library, err := media.NewLibrary(cfg.MediaDir(), logging.WithComponent(logger, "media"))
	if err != nil {
		return fmt.Errorf("failed to open media library: %w", err)
	}
	defer library.Close()

	trackerLogger := logging.WithComponent(logger, "progress")
	tracker := progress.NewTracker(progress.TrackerConfig{
		Origin:    cfg.BackendURL(),
		Backoff:   cfg.Backoff(),
		Logger:    trackerLogger,
		Smoothing: cfg.Smoothing(),
		OnUpdate: func(snap progress.Snapshot) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := db.SaveSnapshot(ctx, snap); err != nil {
				logging.WithJobID(trackerLogger, snap.JobID).Warn("failed to persist snapshot", "error", err)
			}
		},
		OnError: func(err error) {
			trackerLogger.Warn("progress channel error", "error", err)
		},
	})
	defer tracker.Close()

	apiServer := api.NewServer(api.ServerConfig{
		Port:      cfg.Port(),
		Library:   library,
		Tracker:   tracker,
		Store:     db,
		Logger:    logging.WithComponent(logger, "api"),
		StartTime: startTime,
		Version:   config.Version,
	})

	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	quitCh := make(chan struct{})

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig)
			close(quitCh)
		case <-quitCh:
		}
	}()

	if cfg.Headless() {
		logger.Info("running in headless mode (no system tray)")
	} else {
		tray := ui.NewTray(ui.TrayConfig{
			Logger:      logging.WithComponent(logger, "ui"),
			OnReconnect: tracker.Reconnect,
			OnQuit: func() {
				close(quitCh)
			},
		})
		go tray.Run()
		go refreshTray(tray, tracker, library, quitCh)
	}

	<-quitCh

	logger.Info("initiating graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

func refreshTray(tray *ui.Tray, tracker *progress.Tracker, library *media.Library, quitCh <-chan struct{}) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-quitCh:
			return
		case <-ticker.C:
			tray.UpdateSnapshot(tracker.Snapshot())
			tray.UpdateVideosCount(library.Count())
		}
	}
}

func ensureAuthToken(db *store.Store) (string, error) {
	ctx := context.Background()

	existing, err := db.GetConfig(ctx, "auth_token")
	if err == nil && existing != "" {
		return existing, nil
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(tokenBytes)

	if err := db.SetConfig(ctx, "auth_token", token); err != nil {
		return "", err
	}

	return token, nil
}
