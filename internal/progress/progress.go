// Package progress implements the job-progress WebSocket client: a
// persistent duplex channel to a backend job with an explicit connection
// state machine, exponential-backoff reconnection, message dispatch, and
// keep-alive handling.
package progress

import (
	"errors"
	"fmt"
	"net/url"
)

// State is the channel's connection state.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateReconnecting State = "reconnecting"
	StateClosed       State = "closed"
)

// Message is one JSON text frame on the job channel. Progress is a
// pointer so an absent field is distinguishable from zero.
type Message struct {
	Type     string   `json:"type"`
	Progress *float64 `json:"progress,omitempty"`
	Status   string   `json:"status,omitempty"`
	Message  string   `json:"message,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// Snapshot is the externally visible channel state. Progress is clamped
// to [0, 100]. Err is a plain display string; internal details never
// leak through it.
type Snapshot struct {
	JobID    string  `json:"job_id"`
	State    State   `json:"state"`
	Progress float64 `json:"progress"`
	Status   string  `json:"status,omitempty"`
	Err      string  `json:"error,omitempty"`
	Attempts int     `json:"reconnect_attempts"`
}

var errMissingHost = errors.New("origin missing host")

// JobURL derives the job channel endpoint from the backend origin:
// ws(s)://<host>/ws/job/<id>. http maps to ws and https to wss.
func JobURL(origin, jobID string) (string, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return "", fmt.Errorf("parse origin: %w", err)
	}

	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported origin scheme %q", u.Scheme)
	}

	if u.Host == "" {
		return "", errMissingHost
	}

	u.Path = "/ws/job/" + url.PathEscape(jobID)
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

func clampProgress(v float64) float64 {
	if v != v || v < 0 { // NaN clamps to 0
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
