package config

import (
	"testing"
	"time"
)

func TestPort_Default(t *testing.T) {
	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != DefaultPort {
		t.Errorf("default Port = %d, want %d", cfg.Port(), DefaultPort)
	}
}

func TestPort_FromEnv(t *testing.T) {
	t.Setenv(EnvPort, "9000")

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port())
	}
}

func TestPort_Invalid(t *testing.T) {
	t.Setenv(EnvPort, "not-a-port")

	if _, err := New(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestPort_OutOfRange(t *testing.T) {
	t.Setenv(EnvPort, "70000")

	if _, err := New(); err == nil {
		t.Fatal("expected error for out of range port")
	}
}

func TestBackendURL_FromEnv(t *testing.T) {
	t.Setenv(EnvBackendURL, "https://api.cliplab.co")

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BackendURL() != "https://api.cliplab.co" {
		t.Errorf("BackendURL = %q", cfg.BackendURL())
	}
}

func TestBackoff_Defaults(t *testing.T) {
	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b := cfg.Backoff()
	if b.BaseDelay != time.Second {
		t.Errorf("BaseDelay = %v, want 1s", b.BaseDelay)
	}
	if b.MaxDelay != 30*time.Second {
		t.Errorf("MaxDelay = %v, want 30s", b.MaxDelay)
	}
	if b.MaxAttempts != 10 {
		t.Errorf("MaxAttempts = %d, want 10", b.MaxAttempts)
	}
}

func TestBackoff_FromEnv(t *testing.T) {
	t.Setenv(EnvReconnectBaseMs, "500")
	t.Setenv(EnvReconnectMaxMs, "10000")
	t.Setenv(EnvReconnectMultiplier, "1.5")
	t.Setenv(EnvReconnectMaxAttempts, "4")

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b := cfg.Backoff()
	if b.BaseDelay != 500*time.Millisecond {
		t.Errorf("BaseDelay = %v, want 500ms", b.BaseDelay)
	}
	if b.MaxDelay != 10*time.Second {
		t.Errorf("MaxDelay = %v, want 10s", b.MaxDelay)
	}
	if b.Multiplier != 1.5 {
		t.Errorf("Multiplier = %v, want 1.5", b.Multiplier)
	}
	if b.MaxAttempts != 4 {
		t.Errorf("MaxAttempts = %d, want 4", b.MaxAttempts)
	}
}

func TestBackoff_InvalidMultiplier(t *testing.T) {
	t.Setenv(EnvReconnectMultiplier, "0.5")

	if _, err := New(); err == nil {
		t.Fatal("expected error for multiplier <= 1")
	}
}

func TestBackoff_InvalidMaxAttempts(t *testing.T) {
	t.Setenv(EnvReconnectMaxAttempts, "0")

	if _, err := New(); err == nil {
		t.Fatal("expected error for non-positive max attempts")
	}
}

func TestHeadless_FromEnv(t *testing.T) {
	t.Setenv(EnvHeadless, "1")

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Headless() {
		t.Error("Headless() = false, want true")
	}
}

func TestSmoothing_DisabledFromEnv(t *testing.T) {
	t.Setenv(EnvSmoothing, "false")

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Smoothing() {
		t.Error("Smoothing() = true, want false")
	}
}

func TestDBPath_UnderDataDir(t *testing.T) {
	t.Setenv(EnvDataDir, "/tmp/cliplab-test")

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DBPath() != "/tmp/cliplab-test/"+DBFilename {
		t.Errorf("DBPath = %q", cfg.DBPath())
	}
}
