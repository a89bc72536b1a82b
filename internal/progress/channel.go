package progress

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Close codes that must not trigger a reconnect: normal closure and the
// protocol-violation family where retrying cannot help.
var nonRetryableCloseCodes = map[int]bool{
	websocket.CloseNormalClosure:     true, // 1000
	websocket.CloseUnsupportedData:   true, // 1003
	websocket.ClosePolicyViolation:   true, // 1008
	websocket.CloseMessageTooBig:     true, // 1009
	websocket.CloseInternalServerErr: true, // 1011
	websocket.CloseServiceRestart:    true, // 1012
}

var pongFrame = []byte(`{"type":"pong"}`)

// Options configures a Channel.
type Options struct {
	// Origin is the backend base URL, e.g. http://localhost:8000.
	Origin string
	JobID  string

	Backoff Backoff
	Dialer  *websocket.Dialer
	Logger  *slog.Logger

	// OnUpdate receives a snapshot after every observable state change.
	OnUpdate func(Snapshot)
	// OnError receives channel errors: inbound error messages, dial
	// failures, and the terminal exhausted-retries error.
	OnError func(error)
}

// Channel is a job-progress connection to the backend. It owns exactly
// one live WebSocket and at most one pending reconnect timer at any
// instant; scheduling a reconnect always cancels the previous timer
// first. All state mutation is serialized under one mutex, so message
// handling is strictly sequential in arrival order.
type Channel struct {
	url     string
	jobID   string
	backoff Backoff
	dialer  *websocket.Dialer
	logger  *slog.Logger

	onUpdate func(Snapshot)
	onError  func(error)

	mu         sync.Mutex
	conn       *websocket.Conn
	timer      *time.Timer
	generation int
	manual     bool
	closed     bool

	state    State
	progress float64
	status   string
	errText  string
	attempts int
}

// Open validates the endpoint, resets all state, and starts connecting.
// An invalid origin is a construction failure: the error is returned and
// no channel exists, nothing is left in a connecting state.
func Open(opts Options) (*Channel, error) {
	endpoint, err := JobURL(opts.Origin, opts.JobID)
	if err != nil {
		return nil, fmt.Errorf("job channel url: %w", err)
	}

	dialer := opts.Dialer
	if dialer == nil {
		dialer = &websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Channel{
		url:      endpoint,
		jobID:    opts.JobID,
		backoff:  opts.Backoff.withDefaults(),
		dialer:   dialer,
		logger:   logger.With("job_id", opts.JobID),
		onUpdate: opts.OnUpdate,
		onError:  opts.OnError,
		state:    StateDisconnected,
	}

	go c.connect()
	return c, nil
}

// Snapshot returns the current channel state.
func (c *Channel) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// JobID returns the job this channel tracks.
func (c *Channel) JobID() string {
	return c.jobID
}

// Disconnect closes the channel intentionally: the pending reconnect
// timer is cancelled, the connection is closed with a normal-closure
// code, and no reconnect follows. Idempotent.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return
	}
	c.manual = true
	c.teardownLocked(true)
	c.state = StateClosed
	update := c.updateFnLocked()
	c.mu.Unlock()
	update()
}

// Close tears the channel down unconditionally: handlers detached,
// connection closed, pending timer cancelled. A reconnect timer firing
// after Close is a no-op. Idempotent.
func (c *Channel) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.manual = true
	c.teardownLocked(true)
	c.state = StateClosed
	c.mu.Unlock()
}

// Reconnect tears down any existing connection and pending timers,
// resets all counters and state, clears the manual-disconnect flag, and
// dials immediately, bypassing the backoff schedule. A closed channel
// stays closed: Close is final, only Disconnect can be undone.
func (c *Channel) Reconnect() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.teardownLocked(false)
	c.manual = false
	c.attempts = 0
	c.progress = 0
	c.status = ""
	c.errText = ""
	c.state = StateDisconnected
	c.mu.Unlock()

	go c.connect()
}

// teardownLocked cancels the reconnect timer, invalidates in-flight
// read loops and timer callbacks via the generation counter, and closes
// the live connection. graceful sends a normal-closure frame first.
func (c *Channel) teardownLocked(graceful bool) {
	c.generation++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.conn != nil {
		if graceful {
			deadline := time.Now().Add(time.Second)
			c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		}
		c.conn.Close()
		c.conn = nil
	}
}

func (c *Channel) connect() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.attempts > 0 {
		c.state = StateReconnecting
	} else {
		c.state = StateConnecting
	}
	gen := c.generation
	update := c.updateFnLocked()
	c.mu.Unlock()
	update()

	conn, _, err := c.dialer.Dial(c.url, nil)

	c.mu.Lock()
	if c.closed || gen != c.generation {
		c.mu.Unlock()
		if conn != nil {
			conn.Close()
		}
		return
	}

	if err != nil {
		// The dial error itself is advisory; the retry decision runs
		// through the same path as a connection close.
		c.logger.Warn("job channel dial failed", "error", err)
		c.mu.Unlock()
		c.handleClose(gen, websocket.CloseAbnormalClosure)
		return
	}

	c.conn = conn
	c.attempts = 0
	c.errText = ""
	c.state = StateConnected
	update = c.updateFnLocked()
	c.mu.Unlock()
	update()

	c.logger.Info("job channel connected", "url", c.url)
	go c.readLoop(conn, gen)
}

func (c *Channel) readLoop(conn *websocket.Conn, gen int) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			code := websocket.CloseAbnormalClosure
			if ce, ok := err.(*websocket.CloseError); ok {
				code = ce.Code
			}
			c.handleClose(gen, code)
			return
		}
		c.handleMessage(gen, data)
	}
}

// handleMessage dispatches one inbound frame. Malformed payloads degrade
// to a plain status string; an unrecognized kind applies whatever
// status/progress fields it carries. Bad input never closes the channel.
func (c *Channel) handleMessage(gen int, data []byte) {
	c.mu.Lock()
	if c.closed || gen != c.generation {
		c.mu.Unlock()
		return
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		c.status = strings.TrimSpace(string(data))
		update := c.updateFnLocked()
		c.mu.Unlock()
		update()
		return
	}

	changed := false
	var onError func(error)
	var errOut error

	switch msg.Type {
	case "progress":
		if msg.Progress != nil {
			c.progress = clampProgress(*msg.Progress)
			changed = true
		}
		if s := firstNonEmpty(msg.Status, msg.Message); s != "" {
			c.status = s
			changed = true
		}

	case "status":
		if s := firstNonEmpty(msg.Status, msg.Message); s != "" {
			c.status = s
			changed = true
		}

	case "error":
		c.errText = firstNonEmpty(msg.Error, msg.Message, "job error")
		onError = c.onError
		errOut = fmt.Errorf("job error: %s", c.errText)
		changed = true

	case "complete":
		c.progress = 100
		c.status = firstNonEmpty(msg.Status, msg.Message, "Complete")
		changed = true

	case "ping":
		// Keep-alive obligation: reply immediately or risk a
		// server-side idle timeout. No state change.
		if c.conn != nil {
			c.conn.WriteMessage(websocket.TextMessage, pongFrame)
		}

	case "pong":
		// Liveness confirmation only.

	default:
		if s := firstNonEmpty(msg.Status, msg.Message); s != "" {
			c.status = s
			changed = true
		}
		if msg.Progress != nil {
			c.progress = clampProgress(*msg.Progress)
			changed = true
		}
	}

	var update func()
	if changed {
		update = c.updateFnLocked()
	}
	c.mu.Unlock()

	if update != nil {
		update()
	}
	if onError != nil && errOut != nil {
		onError(errOut)
	}
}

// handleClose runs the retry decision after a connection drops. It is a
// no-op for stale generations. Reconnection happens only when the close
// was not manual, the close code is retryable, and attempts remain;
// otherwise the channel stays disconnected, surfacing a terminal error
// exactly once when retries are exhausted.
func (c *Channel) handleClose(gen int, code int) {
	c.mu.Lock()
	if c.closed || gen != c.generation {
		c.mu.Unlock()
		return
	}

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.state = StateDisconnected

	if c.manual {
		update := c.updateFnLocked()
		c.mu.Unlock()
		update()
		return
	}

	if nonRetryableCloseCodes[code] {
		c.logger.Info("job channel closed", "code", code)
		update := c.updateFnLocked()
		c.mu.Unlock()
		update()
		return
	}

	if c.attempts >= c.backoff.MaxAttempts {
		c.errText = fmt.Sprintf("connection failed after %d attempts", c.backoff.MaxAttempts)
		c.logger.Error("job channel gave up", "attempts", c.attempts)
		onError := c.onError
		errOut := fmt.Errorf("%s", c.errText)
		update := c.updateFnLocked()
		c.mu.Unlock()
		update()
		if onError != nil {
			onError(errOut)
		}
		return
	}

	delay := c.backoff.Delay(c.attempts)
	c.attempts++
	c.state = StateReconnecting
	c.scheduleReconnectLocked(delay)
	c.logger.Info("job channel reconnecting", "attempt", c.attempts, "delay", delay)
	update := c.updateFnLocked()
	c.mu.Unlock()
	update()
}

// scheduleReconnectLocked arms the reconnect timer, cancelling any
// previously pending one so at most a single timer exists.
func (c *Channel) scheduleReconnectLocked(delay time.Duration) {
	if c.timer != nil {
		c.timer.Stop()
	}
	gen := c.generation
	c.timer = time.AfterFunc(delay, func() {
		c.mu.Lock()
		live := !c.closed && gen == c.generation
		if live {
			c.timer = nil
		}
		c.mu.Unlock()
		if live {
			c.connect()
		}
	})
}

func (c *Channel) snapshotLocked() Snapshot {
	return Snapshot{
		JobID:    c.jobID,
		State:    c.state,
		Progress: c.progress,
		Status:   c.status,
		Err:      c.errText,
		Attempts: c.attempts,
	}
}

// updateFnLocked captures the snapshot and callback under the lock and
// returns a closure to invoke after unlocking.
func (c *Channel) updateFnLocked() func() {
	fn := c.onUpdate
	if fn == nil {
		return func() {}
	}
	snap := c.snapshotLocked()
	return func() { fn(snap) }
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
