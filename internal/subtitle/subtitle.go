// Package subtitle keeps the active subtitle line and word in step with
// media playback. The engine subscribes to a playback time source and
// recomputes the highlight state on every time update or seek.
package subtitle

// Word is a single spoken token with its timing.
type Word struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Line is one subtitle cue: a time span and its words in playback order.
// Lines handed to the engine must be sorted ascending by start and
// non-overlapping; gaps between lines are valid.
type Line struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Words []Word  `json:"words"`
}

// State is the highlight state derived from the current playback time.
// LineIndex and WordIndex are -1 when nothing is active. The two indices
// are always recomputed together from CurrentTime.
type State struct {
	CurrentTime float64 `json:"current_time"`
	LineIndex   int     `json:"line_index"`
	WordIndex   int     `json:"word_index"`
}

// TimeSource is the playback element the engine follows. Implementations
// must fire the time-update callback on normal playback progress and the
// seek callback on explicit jumps, and both subscriptions must be
// releasable via the returned unsubscribe functions.
type TimeSource interface {
	CurrentTime() float64
	Ready() bool
	OnTimeUpdate(fn func(t float64)) (unsubscribe func())
	OnSeek(fn func(t float64)) (unsubscribe func())
}
