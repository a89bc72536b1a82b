package subtitle

import (
	"sync"

	"github.com/cliplab/cliplab-agent/internal/timecode"
)

// Engine derives the active line/word indices from a playback time
// source. The lines slice may be swapped at any time with SetLines; the
// next notification reads the latest slice, never a snapshot captured at
// attach time. The engine only reads the lines it is given.
type Engine struct {
	mu       sync.Mutex
	lines    []Line
	state    State
	onChange func(State)
	unsubs   []func()
	closed   bool
}

// NewEngine creates an engine. onChange fires whenever the derived state
// actually changes; it may be nil.
func NewEngine(onChange func(State)) *Engine {
	return &Engine{
		state:    State{LineIndex: -1, WordIndex: -1},
		onChange: onChange,
	}
}

// Attach subscribes to the source's time-update and seek notifications.
// If the source already has a readable time (media metadata loaded), the
// initial state is computed immediately instead of waiting for the first
// notification. Call Close to release the subscriptions.
func (e *Engine) Attach(src TimeSource) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.unsubs = append(e.unsubs,
		src.OnTimeUpdate(e.handleTime),
		src.OnSeek(e.handleTime),
	)
	e.mu.Unlock()

	if src.Ready() {
		e.handleTime(src.CurrentTime())
	}
}

// SetLines replaces the subtitle lines wholesale, e.g. after the
// transcript was edited. The previous slice is untouched.
func (e *Engine) SetLines(lines []Line) {
	e.mu.Lock()
	e.lines = lines
	e.mu.Unlock()
}

// Current returns the last derived state.
func (e *Engine) Current() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Close detaches all subscriptions. Notifications arriving after Close
// are ignored. Safe to call more than once.
func (e *Engine) Close() {
	e.mu.Lock()
	unsubs := e.unsubs
	e.unsubs = nil
	e.closed = true
	e.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
}

func (e *Engine) handleTime(t float64) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}

	next := compute(e.lines, t)
	if next == e.state {
		e.mu.Unlock()
		return
	}
	e.state = next
	onChange := e.onChange
	e.mu.Unlock()

	if onChange != nil {
		onChange(next)
	}
}

// compute derives the highlight state for time t over lines. The line is
// located by exact containment; the word within the line uses the spoken
// fallback so pauses between words keep the last word highlighted.
func compute(lines []Line, t float64) State {
	state := State{CurrentTime: t, LineIndex: -1, WordIndex: -1}

	lineIdx := timecode.FindActiveFunc(len(lines), func(i int) (float64, float64) {
		return lines[i].Start, lines[i].End
	}, t)
	if lineIdx == -1 {
		return state
	}
	state.LineIndex = lineIdx

	words := lines[lineIdx].Words
	state.WordIndex = timecode.FindSpokenFunc(len(words), func(i int) (float64, float64) {
		return words[i].Start, words[i].End
	}, t)

	return state
}
