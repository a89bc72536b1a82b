package progress

import (
	"testing"
	"time"
)

func TestBackoff_DelaySequence(t *testing.T) {
	b := Backoff{
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
		Multiplier:  2,
		MaxAttempts: 10,
	}

	want := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
	}
	for attempt, expected := range want {
		if got := b.Delay(attempt); got != expected {
			t.Errorf("Delay(%d) = %v, want %v", attempt, got, expected)
		}
	}

	// Attempt 5 onward caps at MaxDelay.
	for attempt := 5; attempt <= 9; attempt++ {
		if got := b.Delay(attempt); got != 30*time.Second {
			t.Errorf("Delay(%d) = %v, want 30s cap", attempt, got)
		}
	}
}

func TestBackoff_NegativeAttempt(t *testing.T) {
	b := DefaultBackoff
	if got := b.Delay(-1); got != time.Second {
		t.Errorf("Delay(-1) = %v, want base delay", got)
	}
}

func TestBackoff_WithDefaults(t *testing.T) {
	b := Backoff{}.withDefaults()
	if b != DefaultBackoff {
		t.Errorf("zero backoff = %+v, want defaults %+v", b, DefaultBackoff)
	}

	// A caller-supplied MaxAttempts is authoritative, not repinned to 10.
	custom := Backoff{MaxAttempts: 3}.withDefaults()
	if custom.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want caller override 3", custom.MaxAttempts)
	}
	if custom.BaseDelay != time.Second {
		t.Errorf("BaseDelay = %v, want default 1s", custom.BaseDelay)
	}
}

func TestJobURL(t *testing.T) {
	tests := []struct {
		name    string
		origin  string
		jobID   string
		want    string
		wantErr bool
	}{
		{"http origin", "http://localhost:8000", "job-1", "ws://localhost:8000/ws/job/job-1", false},
		{"https origin", "https://clips.example.com", "abc", "wss://clips.example.com/ws/job/abc", false},
		{"ws origin", "ws://localhost:8000", "j", "ws://localhost:8000/ws/job/j", false},
		{"wss origin", "wss://clips.example.com", "j", "wss://clips.example.com/ws/job/j", false},
		{"strips path and query", "http://localhost:8000/app?x=1", "j", "ws://localhost:8000/ws/job/j", false},
		{"escapes job id", "http://localhost", "a b", "ws://localhost/ws/job/a%20b", false},
		{"unsupported scheme", "ftp://host", "j", "", true},
		{"missing host", "http://", "j", "", true},
		{"garbage", "://nope", "j", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := JobURL(tt.origin, tt.jobID)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("JobURL(%q) expected error, got %q", tt.origin, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("JobURL(%q) unexpected error: %v", tt.origin, err)
			}
			if got != tt.want {
				t.Errorf("JobURL(%q) = %q, want %q", tt.origin, got, tt.want)
			}
		})
	}
}

func TestClampProgress(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{50, 50},
		{0, 0},
		{100, 100},
		{-5, 0},
		{150, 100},
	}
	for _, tt := range tests {
		if got := clampProgress(tt.in); got != tt.want {
			t.Errorf("clampProgress(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
