package timecode

import (
	"math"
	"testing"
)

func TestFindActive(t *testing.T) {
	intervals := []Interval{
		{Start: 0, End: 2},
		{Start: 3, End: 5},
		{Start: 5.5, End: 8},
		{Start: 10, End: 12},
	}

	tests := []struct {
		name string
		t    float64
		want int
	}{
		{"inside first", 1, 0},
		{"start boundary inclusive", 3, 1},
		{"end boundary inclusive", 5, 1},
		{"inside third", 6, 2},
		{"inside last", 11, 3},
		{"gap between intervals", 2.5, -1},
		{"gap before third", 5.25, -1},
		{"before all", -1, -1},
		{"after all", 13, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindActive(intervals, tt.t); got != tt.want {
				t.Errorf("FindActive(%v) = %d, want %d", tt.t, got, tt.want)
			}
		})
	}
}

func TestFindActive_Empty(t *testing.T) {
	if got := FindActive(nil, 1); got != -1 {
		t.Errorf("FindActive(nil) = %d, want -1", got)
	}
}

func TestFindActive_SingleElement(t *testing.T) {
	intervals := []Interval{{Start: 1, End: 2}}

	if got := FindActive(intervals, 1.5); got != 0 {
		t.Errorf("FindActive(1.5) = %d, want 0", got)
	}
	if got := FindActive(intervals, 0.5); got != -1 {
		t.Errorf("FindActive(0.5) = %d, want -1", got)
	}
	if got := FindActive(intervals, 2.5); got != -1 {
		t.Errorf("FindActive(2.5) = %d, want -1", got)
	}
}

func TestFindActive_NeverReturnsExcludingIndex(t *testing.T) {
	intervals := []Interval{
		{Start: 0, End: 1},
		{Start: 1.5, End: 2},
		{Start: 2.25, End: 4},
		{Start: 4.5, End: 4.5},
		{Start: 5, End: 9},
	}

	for q := -1.0; q <= 10.0; q += 0.05 {
		idx := FindActive(intervals, q)
		if idx == -1 {
			for i, iv := range intervals {
				if iv.Contains(q) {
					t.Fatalf("FindActive(%v) = -1 but interval %d contains it", q, i)
				}
			}
			continue
		}
		if !intervals[idx].Contains(q) {
			t.Fatalf("FindActive(%v) = %d but interval excludes it", q, idx)
		}
	}
}

func TestFindSpoken_GapFallback(t *testing.T) {
	words := []Interval{
		{Start: 0, End: 0.4},
		{Start: 0.5, End: 0.9},
		{Start: 2.0, End: 2.4},
	}

	tests := []struct {
		name string
		t    float64
		want int
	}{
		{"exact hit", 0.2, 0},
		{"pause after second word", 1.5, 1},
		{"pause after last word", 3.0, 2},
		{"before first word", -0.1, -1},
		{"boundary start", 2.0, 2},
		{"boundary end", 0.9, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindSpoken(words, tt.t); got != tt.want {
				t.Errorf("FindSpoken(%v) = %d, want %d", tt.t, got, tt.want)
			}
		})
	}
}

func TestFindSpoken_Empty(t *testing.T) {
	if got := FindSpoken(nil, 1); got != -1 {
		t.Errorf("FindSpoken(nil) = %d, want -1", got)
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{5, "0:05"},
		{59.9, "0:59"},
		{60, "1:00"},
		{90, "1:30"},
		{600, "10:00"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3661, "1:01:01"},
		{7322, "2:02:02"},
		{-5, "0:00"},
		{math.NaN(), "0:00"},
		{math.Inf(1), "0:00"},
		{math.Inf(-1), "0:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatTime(tt.seconds); got != tt.want {
				t.Errorf("FormatTime(%v) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestClamp01(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.5, 0.5},
		{0, 0},
		{1, 1},
		{-0.1, 0},
		{1.1, 1},
		{math.NaN(), 0},
		{math.Inf(1), 1},
		{math.Inf(-1), 0},
	}

	for _, tt := range tests {
		if got := Clamp01(tt.in); got != tt.want {
			t.Errorf("Clamp01(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
