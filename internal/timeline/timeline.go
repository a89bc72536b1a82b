// Package timeline implements the editor timeline's interaction model:
// pixel-to-time mapping over a fixed duration, seek-on-click,
// drag-to-select, and marker hit-testing with hover tooltips.
package timeline

// MarkerType classifies where a timeline marker came from.
type MarkerType string

const (
	MarkerAIDetected MarkerType = "ai_detected"
	MarkerManual     MarkerType = "manual"
	MarkerHighlight  MarkerType = "highlight"
)

// Marker is a labeled span on the timeline, e.g. an AI-detected moment.
// Markers are created externally and read-only to the controller.
type Marker struct {
	ID          string     `json:"id"`
	Start       float64    `json:"start"`
	End         float64    `json:"end"`
	Label       string     `json:"label"`
	Description string     `json:"description,omitempty"`
	Confidence  float64    `json:"confidence,omitempty"`
	Type        MarkerType `json:"type"`
	Text        string     `json:"text,omitempty"`
}

// Range is a committed time selection, Start <= End.
type Range struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Geometry is the track's bounding box in client pixel coordinates.
type Geometry struct {
	Left  float64
	Width float64
}

// Tooltip describes the marker hover tooltip. OffsetX is the pixel
// offset of the marker midpoint relative to the track's left edge.
type Tooltip struct {
	Marker  Marker
	OffsetX float64
	Visible bool
}

// Callbacks are the events the controller emits. Any of them may be nil.
// OnRangeSelect receives nil when a committed selection is cleared; no
// event fires for the initial empty selection.
type Callbacks struct {
	OnSeek        func(t float64)
	OnRangeSelect func(r *Range)
	OnMarkerClick func(m Marker)
}
