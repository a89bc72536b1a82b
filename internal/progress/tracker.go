package progress

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// TrackerConfig configures a Tracker.
type TrackerConfig struct {
	// Origin is the backend base URL jobs connect against.
	Origin  string
	Backoff Backoff
	Dialer  *websocket.Dialer
	Logger  *slog.Logger

	// Smoothing enables optimistic progress between server updates.
	Smoothing bool
	// SmoothingInterval is how often the optimistic value advances.
	// Zero means one second.
	SmoothingInterval time.Duration

	OnUpdate func(Snapshot)
	OnError  func(error)
}

// Tracker follows at most one job at a time. Changing the tracked job
// tears down the previous channel and resets all state; setting an empty
// job id leaves the tracker disconnected with state reset.
type Tracker struct {
	cfg      TrackerConfig
	interval time.Duration

	mu       sync.Mutex
	channel  *Channel
	jobID    string
	last     Snapshot
	smoother *Smoother
	ticker   *time.Ticker
	tickStop chan struct{}
	closed   bool
}

// NewTracker creates an idle tracker.
func NewTracker(cfg TrackerConfig) *Tracker {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	interval := cfg.SmoothingInterval
	if interval <= 0 {
		interval = time.Second
	}
	t := &Tracker{
		cfg:      cfg,
		interval: interval,
		last:     Snapshot{State: StateDisconnected},
	}
	if cfg.Smoothing {
		t.smoother = &Smoother{}
	}
	return t
}

// SetJob points the tracker at a job. The previous channel, if any, is
// torn down first and all state resets. An empty id stops tracking.
func (t *Tracker) SetJob(jobID string) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.teardownLocked()
	t.jobID = jobID
	t.last = Snapshot{JobID: jobID, State: StateDisconnected}
	if jobID == "" {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()

	ch, err := Open(Options{
		Origin:   t.cfg.Origin,
		JobID:    jobID,
		Backoff:  t.cfg.Backoff,
		Dialer:   t.cfg.Dialer,
		Logger:   t.cfg.Logger,
		OnUpdate: func(s Snapshot) { t.handleUpdate(jobID, s) },
		OnError:  t.cfg.OnError,
	})
	if err != nil {
		return err
	}

	t.mu.Lock()
	// A concurrent SetJob may have won; if so this channel is obsolete.
	if t.jobID != jobID || t.closed {
		t.mu.Unlock()
		ch.Close()
		return nil
	}
	t.channel = ch
	t.startSmoothingLocked()
	t.mu.Unlock()
	return nil
}

// JobID returns the currently tracked job id, empty when idle.
func (t *Tracker) JobID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.jobID
}

// Snapshot returns the last channel snapshot, with smoothed progress
// when smoothing is enabled.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap := t.last
	if t.smoother != nil && snap.State == StateConnected && snap.Progress < 100 {
		snap.Progress = t.smoother.Value()
	}
	return snap
}

// Reconnect restarts the current channel from a clean slate.
func (t *Tracker) Reconnect() {
	t.mu.Lock()
	ch := t.channel
	if t.smoother != nil {
		t.smoother.Reset()
	}
	t.mu.Unlock()
	if ch != nil {
		ch.Reconnect()
	}
}

// Close tears down the channel and stops the smoothing ticker. The
// tracker cannot be reused afterwards.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.teardownLocked()
}

func (t *Tracker) teardownLocked() {
	if t.channel != nil {
		t.channel.Close()
		t.channel = nil
	}
	if t.tickStop != nil {
		close(t.tickStop)
		t.tickStop = nil
	}
	if t.ticker != nil {
		t.ticker.Stop()
		t.ticker = nil
	}
	if t.smoother != nil {
		t.smoother.Reset()
	}
}

func (t *Tracker) startSmoothingLocked() {
	if t.smoother == nil {
		return
	}
	t.ticker = time.NewTicker(t.interval)
	t.tickStop = make(chan struct{})
	ticker, stop := t.ticker, t.tickStop
	go func() {
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				t.mu.Lock()
				advance := t.last.State == StateConnected && t.last.Progress < 100
				t.mu.Unlock()
				if advance {
					t.smoother.Advance(1)
				}
			}
		}
	}()
}

func (t *Tracker) handleUpdate(jobID string, s Snapshot) {
	t.mu.Lock()
	if t.closed || t.jobID != jobID {
		t.mu.Unlock()
		return
	}
	t.last = s
	if t.smoother != nil {
		t.smoother.Observe(s.Progress)
	}
	fn := t.cfg.OnUpdate
	t.mu.Unlock()
	if fn != nil {
		fn(s)
	}
}
