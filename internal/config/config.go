// Package config provides configuration management for the ClipLab Agent.
// Configuration is loaded from environment variables with sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cliplab/cliplab-agent/internal/progress"
)

const (
	// Default values
	DefaultPort       = 8673
	DefaultLogLevel   = "info"
	DefaultDataDir    = ".cliplab"
	DefaultBackendURL = "http://localhost:8000"

	// Environment variable names
	EnvPort       = "CLIPLAB_PORT"
	EnvLogLevel   = "CLIPLAB_LOG_LEVEL"
	EnvDataDir    = "CLIPLAB_DATA_DIR"
	EnvMediaDir   = "CLIPLAB_MEDIA_DIR"
	EnvBackendURL = "CLIPLAB_BACKEND_URL"
	EnvHeadless   = "CLIPLAB_HEADLESS"
	EnvSmoothing  = "CLIPLAB_PROGRESS_SMOOTHING"

	// Reconnect policy environment variable names
	EnvReconnectBaseMs      = "CLIPLAB_RECONNECT_BASE_MS"
	EnvReconnectMaxMs       = "CLIPLAB_RECONNECT_MAX_MS"
	EnvReconnectMultiplier  = "CLIPLAB_RECONNECT_MULTIPLIER"
	EnvReconnectMaxAttempts = "CLIPLAB_RECONNECT_MAX_ATTEMPTS"

	// Database filename
	DBFilename = "cliplab.db"
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	MediaDir() string
	BackendURL() string
	Backoff() progress.Backoff
	Headless() bool
	Smoothing() bool
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	port       int
	logLevel   string
	dataDir    string
	mediaDir   string
	backendURL string
	backoff    progress.Backoff
	headless   bool
	smoothing  bool
}

// New creates a new EnvConfig with defaults and environment variable overrides
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:       DefaultPort,
		logLevel:   DefaultLogLevel,
		dataDir:    defaultDataDir(),
		backendURL: DefaultBackendURL,
		backoff:    progress.DefaultBackoff,
		smoothing:  true,
	}

	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.port = port
	}

	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	cfg.mediaDir = os.Getenv(EnvMediaDir)
	if cfg.mediaDir == "" {
		cfg.mediaDir = defaultMediaDir()
	}

	if bu := os.Getenv(EnvBackendURL); bu != "" {
		cfg.backendURL = bu
	}

	if v := os.Getenv(EnvHeadless); v != "" {
		cfg.headless = v == "1" || v == "true"
	}
	if v := os.Getenv(EnvSmoothing); v != "" {
		cfg.smoothing = v != "0" && v != "false"
	}

	if err := cfg.loadBackoff(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *EnvConfig) loadBackoff() error {
	if v := os.Getenv(EnvReconnectBaseMs); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms <= 0 {
			return fmt.Errorf("invalid %s: must be a positive integer", EnvReconnectBaseMs)
		}
		c.backoff.BaseDelay = time.Duration(ms) * time.Millisecond
	}
	if v := os.Getenv(EnvReconnectMaxMs); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms <= 0 {
			return fmt.Errorf("invalid %s: must be a positive integer", EnvReconnectMaxMs)
		}
		c.backoff.MaxDelay = time.Duration(ms) * time.Millisecond
	}
	if v := os.Getenv(EnvReconnectMultiplier); v != "" {
		mult, err := strconv.ParseFloat(v, 64)
		if err != nil || mult <= 1 {
			return fmt.Errorf("invalid %s: must be greater than 1", EnvReconnectMultiplier)
		}
		c.backoff.Multiplier = mult
	}
	if v := os.Getenv(EnvReconnectMaxAttempts); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid %s: must be a positive integer", EnvReconnectMaxAttempts)
		}
		c.backoff.MaxAttempts = n
	}
	return nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// MediaDir returns the watched media directory
func (c *EnvConfig) MediaDir() string {
	return c.mediaDir
}

// BackendURL returns the ClipLab backend origin used for job channels
func (c *EnvConfig) BackendURL() string {
	return c.backendURL
}

// Backoff returns the reconnect policy for job channels
func (c *EnvConfig) Backoff() progress.Backoff {
	return c.backoff
}

// Headless reports whether the system tray is disabled
func (c *EnvConfig) Headless() bool {
	return c.headless
}

// Smoothing reports whether optimistic progress smoothing is enabled
func (c *EnvConfig) Smoothing() bool {
	return c.smoothing
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// defaultMediaDir returns the default media directory path
func defaultMediaDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "Videos"
	}
	return filepath.Join(home, "Videos")
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
