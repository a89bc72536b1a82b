// Package api exposes the agent's local HTTP surface: health and status,
// the media library, and control of the tracked job's progress channel.
// The server binds to loopback only; every route except /health requires
// the agent's bearer token.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cliplab/cliplab-agent/internal/media"
	"github.com/cliplab/cliplab-agent/internal/progress"
	"github.com/cliplab/cliplab-agent/internal/store"
)

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// SnapshotStore is the part of the store the job routes need.
type SnapshotStore interface {
	ConfigStore
	GetSnapshot(ctx context.Context, jobID string) (*store.JobSnapshot, error)
	ListSnapshots(ctx context.Context, limit int) ([]*store.JobSnapshot, error)
}

type ServerConfig struct {
	Port      int
	Library   *media.Library
	Tracker   *progress.Tracker
	Store     SnapshotStore
	Logger    *slog.Logger
	StartTime time.Time
	Version   string
}

func NewServer(cfg ServerConfig) *Server {
	router := NewRouter(cfg)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("127.0.0.1:%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 0,
			IdleTimeout:  60 * time.Second,
		},
		logger: cfg.Logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}
