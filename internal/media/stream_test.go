package media

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestParseRangeHeader(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		size      int64
		wantFirst int64
		wantLast  int64
		wantNil   bool
		wantErr   error
	}{
		{"no header", "", 1000, 0, 0, true, nil},
		{"full range", "bytes=0-999", 1000, 0, 999, false, nil},
		{"open ended", "bytes=500-", 1000, 500, 999, false, nil},
		{"suffix", "bytes=-200", 1000, 800, 999, false, nil},
		{"suffix bigger than file", "bytes=-5000", 1000, 0, 999, false, nil},
		{"single byte", "bytes=0-0", 1000, 0, 0, false, nil},
		{"clamps past EOF", "bytes=900-5000", 1000, 900, 999, false, nil},
		{"multi range takes first", "bytes=0-99, 500-599", 1000, 0, 99, false, nil},

		{"start at EOF", "bytes=1000-", 1000, 0, 0, false, ErrRangeBeyondEOF},
		{"inverted", "bytes=500-100", 1000, 0, 0, false, ErrRangeBeyondEOF},
		{"wrong unit", "chars=0-10", 1000, 0, 0, false, ErrBadRangeHeader},
		{"not a range", "bytes=oops", 1000, 0, 0, false, ErrBadRangeHeader},
		{"bad start", "bytes=x-10", 1000, 0, 0, false, ErrBadRangeHeader},
		{"bad end", "bytes=0-x", 1000, 0, 0, false, ErrBadRangeHeader},
		{"zero suffix", "bytes=-0", 1000, 0, 0, false, ErrBadRangeHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRangeHeader(tt.header, tt.size)

			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil {
				if got != nil {
					t.Fatalf("got %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("got nil, want range")
			}
			if got.First != tt.wantFirst || got.Last != tt.wantLast {
				t.Errorf("range = {%d %d}, want {%d %d}", got.First, got.Last, tt.wantFirst, tt.wantLast)
			}
		})
	}
}

func writeTestVideo(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write test video: %v", err)
	}
	return path
}

func TestServeVideo_FullBody(t *testing.T) {
	path := writeTestVideo(t, "0123456789")

	req := httptest.NewRequest("GET", "/stream", nil)
	rec := httptest.NewRecorder()

	if err := ServeVideo(rec, req, path); err != nil {
		t.Fatalf("ServeVideo() error = %v", err)
	}

	if rec.Code != 200 {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != "0123456789" {
		t.Errorf("body = %q", got)
	}
	if got := rec.Header().Get("Accept-Ranges"); got != "bytes" {
		t.Errorf("Accept-Ranges = %q, want bytes", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "video/mp4" {
		t.Errorf("Content-Type = %q, want video/mp4", got)
	}
}

func TestServeVideo_PartialContent(t *testing.T) {
	path := writeTestVideo(t, "0123456789")

	req := httptest.NewRequest("GET", "/stream", nil)
	req.Header.Set("Range", "bytes=2-5")
	rec := httptest.NewRecorder()

	if err := ServeVideo(rec, req, path); err != nil {
		t.Fatalf("ServeVideo() error = %v", err)
	}

	if rec.Code != 206 {
		t.Errorf("status = %d, want 206", rec.Code)
	}
	if got := rec.Body.String(); got != "2345" {
		t.Errorf("body = %q, want 2345", got)
	}
	if got := rec.Header().Get("Content-Range"); got != "bytes 2-5/10" {
		t.Errorf("Content-Range = %q, want bytes 2-5/10", got)
	}
}

func TestServeVideo_Unsatisfiable(t *testing.T) {
	path := writeTestVideo(t, "0123456789")

	req := httptest.NewRequest("GET", "/stream", nil)
	req.Header.Set("Range", "bytes=100-")
	rec := httptest.NewRecorder()

	if err := ServeVideo(rec, req, path); err != nil {
		t.Fatalf("ServeVideo() error = %v", err)
	}

	if rec.Code != 416 {
		t.Errorf("status = %d, want 416", rec.Code)
	}
	if got := rec.Header().Get("Content-Range"); got != "bytes */10" {
		t.Errorf("Content-Range = %q, want bytes */10", got)
	}
}

func TestServeVideo_MalformedRangeServesFull(t *testing.T) {
	path := writeTestVideo(t, "0123456789")

	req := httptest.NewRequest("GET", "/stream", nil)
	req.Header.Set("Range", "chars=0-4")
	rec := httptest.NewRecorder()

	if err := ServeVideo(rec, req, path); err != nil {
		t.Fatalf("ServeVideo() error = %v", err)
	}

	if rec.Code != 200 {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != "0123456789" {
		t.Errorf("body = %q, want full content", got)
	}
}

func TestServeVideo_Missing(t *testing.T) {
	req := httptest.NewRequest("GET", "/stream", nil)
	rec := httptest.NewRecorder()

	if err := ServeVideo(rec, req, filepath.Join(t.TempDir(), "none.mp4")); err != nil {
		t.Fatalf("ServeVideo() error = %v", err)
	}
	if rec.Code != 404 {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
