package timeline

import (
	"sync"

	"github.com/cliplab/cliplab-agent/internal/timecode"
)

// MinSelectionSeconds is the minimum drag span that commits a range
// selection. Shorter drags degrade to a seek at the drag start time.
const MinSelectionSeconds = 0.5

// Controller maps pointer coordinates to time over a fixed duration and
// runs the three interaction modes: seek-on-click, drag-to-select, and
// marker click/hover. Pointer moves are expected from a global listener,
// so an active drag keeps updating even when the pointer leaves the
// track bounds.
type Controller struct {
	mu        sync.Mutex
	duration  float64
	geom      Geometry
	markers   []Marker
	callbacks Callbacks
	disabled  bool

	dragging  bool
	dragStart float64
	dragEnd   float64

	selection *Range
	tooltip   Tooltip
}

// NewController creates a controller for a track of the given duration.
func NewController(duration float64, geom Geometry, cb Callbacks) *Controller {
	return &Controller{
		duration:  duration,
		geom:      geom,
		callbacks: cb,
	}
}

// TimeAt converts a client X coordinate to a time on the track, clamped
// to [0, duration]. Degenerate geometry (zero width, non-positive
// duration) yields 0 rather than NaN or Inf.
func (c *Controller) TimeAt(clientX float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timeAtLocked(clientX)
}

func (c *Controller) timeAtLocked(clientX float64) float64 {
	if c.duration <= 0 || c.geom.Width <= 0 {
		return 0
	}
	frac := timecode.Clamp01((clientX - c.geom.Left) / c.geom.Width)
	return frac * c.duration
}

// PointerDown starts a drag at the given client X. Pointer-downs landing
// on a marker must go through MarkerClick instead; markers are layered
// above the track and stop propagation.
func (c *Controller) PointerDown(clientX float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disabled {
		return
	}
	t := c.timeAtLocked(clientX)
	c.dragging = true
	c.dragStart = t
	c.dragEnd = t
}

// PointerMove updates the live drag end time. No-op outside a drag.
func (c *Controller) PointerMove(clientX float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disabled || !c.dragging {
		return
	}
	c.dragEnd = c.timeAtLocked(clientX)
}

// PointerUp finishes the drag. A span above MinSelectionSeconds commits
// a range selection; anything shorter is treated as a plain click and
// seeks to the drag's start time.
func (c *Controller) PointerUp(clientX float64) {
	c.mu.Lock()
	if c.disabled || !c.dragging {
		c.mu.Unlock()
		return
	}
	c.dragging = false
	c.dragEnd = c.timeAtLocked(clientX)

	start, end := c.dragStart, c.dragEnd
	if end < start {
		start, end = end, start
	}

	if end-start > MinSelectionSeconds {
		r := &Range{Start: start, End: end}
		c.selection = r
		onSelect := c.callbacks.OnRangeSelect
		c.mu.Unlock()
		if onSelect != nil {
			selected := *r
			onSelect(&selected)
		}
		return
	}

	seekTo := c.dragStart
	onSeek := c.callbacks.OnSeek
	c.mu.Unlock()
	if onSeek != nil {
		onSeek(seekTo)
	}
}

// Click handles a bare click on the track (no drag in flight, not on a
// marker) by seeking to the clicked time.
func (c *Controller) Click(clientX float64) {
	c.mu.Lock()
	if c.disabled || c.dragging {
		c.mu.Unlock()
		return
	}
	t := c.timeAtLocked(clientX)
	onSeek := c.callbacks.OnSeek
	c.mu.Unlock()
	if onSeek != nil {
		onSeek(t)
	}
}

// MarkerClick emits the marker-selected event for the given marker id.
// It never seeks and never starts a drag.
func (c *Controller) MarkerClick(id string) {
	c.mu.Lock()
	if c.disabled {
		c.mu.Unlock()
		return
	}
	var marker *Marker
	for i := range c.markers {
		if c.markers[i].ID == id {
			marker = &c.markers[i]
			break
		}
	}
	onClick := c.callbacks.OnMarkerClick
	c.mu.Unlock()

	if marker != nil && onClick != nil {
		onClick(*marker)
	}
}

// MarkerEnter shows the tooltip for the hovered marker, anchored at the
// marker midpoint's pixel offset within the track.
func (c *Controller) MarkerEnter(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disabled {
		return
	}
	for i := range c.markers {
		if c.markers[i].ID != id {
			continue
		}
		m := c.markers[i]
		offset := 0.0
		if c.duration > 0 {
			mid := (m.Start + m.End) / 2
			offset = timecode.Clamp01(mid/c.duration) * c.geom.Width
		}
		c.tooltip = Tooltip{Marker: m, OffsetX: offset, Visible: true}
		return
	}
}

// MarkerLeave hides the tooltip.
func (c *Controller) MarkerLeave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tooltip = Tooltip{}
}

// Tooltip returns the current tooltip state.
func (c *Controller) Tooltip() Tooltip {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tooltip
}

// MarkerAt returns the first marker containing t, or nil. Overlapping
// markers resolve to the earliest by array order.
func (c *Controller) MarkerAt(t float64) *Marker {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.markers {
		if t >= c.markers[i].Start && t <= c.markers[i].End {
			m := c.markers[i]
			return &m
		}
	}
	return nil
}

// Selection returns the committed range, or nil when none.
func (c *Controller) Selection() *Range {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selection == nil {
		return nil
	}
	r := *c.selection
	return &r
}

// ClearSelection drops the committed range and emits a nil range-select,
// distinct from the silent empty selection at construction.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	if c.selection == nil {
		c.mu.Unlock()
		return
	}
	c.selection = nil
	onSelect := c.callbacks.OnRangeSelect
	c.mu.Unlock()
	if onSelect != nil {
		onSelect(nil)
	}
}

// SetDisabled toggles disabled mode: all pointer and marker handlers
// no-op while the rendered state stays readable. An in-flight drag is
// abandoned without emitting anything.
func (c *Controller) SetDisabled(disabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disabled = disabled
	if disabled {
		c.dragging = false
		c.tooltip = Tooltip{}
	}
}

// Disabled reports whether interaction is disabled.
func (c *Controller) Disabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disabled
}

// SetMarkers replaces the marker set.
func (c *Controller) SetMarkers(markers []Marker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.markers = markers
}

// SetDuration updates the track duration.
func (c *Controller) SetDuration(duration float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.duration = duration
}

// SetGeometry updates the track bounding box, e.g. after a resize.
func (c *Controller) SetGeometry(geom Geometry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.geom = geom
}
