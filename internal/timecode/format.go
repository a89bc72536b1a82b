package timecode

import (
	"fmt"
	"math"
)

// FormatTime renders seconds as M:SS, or H:MM:SS once the duration
// reaches an hour. Non-finite and negative inputs render as 0:00.
// Units are floored, not rounded.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "0:00"
	}

	total := int(math.Floor(seconds))
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Clamp01 clamps f to [0, 1]. NaN clamps to 0 so pixel-to-time math
// never propagates invalid geometry.
func Clamp01(f float64) float64 {
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
