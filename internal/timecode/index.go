// Package timecode provides time-interval lookup and display formatting
// shared by the subtitle sync engine and the timeline controller.
package timecode

// Interval is a span of media time in seconds, Start <= End.
type Interval struct {
	Start float64
	End   float64
}

// Contains reports whether t falls inside the interval. Both endpoints
// are inclusive.
func (iv Interval) Contains(t float64) bool {
	return t >= iv.Start && t <= iv.End
}

// FindActiveFunc binary-searches n intervals described by bounds and
// returns the index of the interval containing t, or -1. The sequence
// must be sorted ascending by start and non-overlapping; gaps are fine.
func FindActiveFunc(n int, bounds func(int) (start, end float64), t float64) int {
	lo, hi := 0, n-1
	for lo <= hi {
		mid := (lo + hi) / 2
		start, end := bounds(mid)
		switch {
		case t >= start && t <= end:
			return mid
		case t < start:
			hi = mid - 1
		default:
			lo = mid + 1
		}
	}
	return -1
}

// FindActive is FindActiveFunc over a concrete interval slice.
func FindActive(intervals []Interval, t float64) int {
	return FindActiveFunc(len(intervals), func(i int) (float64, float64) {
		return intervals[i].Start, intervals[i].End
	}, t)
}

// FindSpokenFunc locates the interval containing t, falling back to the
// most recent interval whose start precedes t when t lands in a gap
// (natural pauses between words). Returns -1 only when t is before the
// first interval's start or n is zero.
func FindSpokenFunc(n int, bounds func(int) (start, end float64), t float64) int {
	if idx := FindActiveFunc(n, bounds, t); idx != -1 {
		return idx
	}
	for i := n - 1; i >= 0; i-- {
		start, _ := bounds(i)
		if start <= t {
			return i
		}
	}
	return -1
}

// FindSpoken is FindSpokenFunc over a concrete interval slice.
func FindSpoken(intervals []Interval, t float64) int {
	return FindSpokenFunc(len(intervals), func(i int) (float64, float64) {
		return intervals[i].Start, intervals[i].End
	}, t)
}
