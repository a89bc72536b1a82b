package media

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestIsVideoFile(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"clip.mp4", true},
		{"clip.MP4", true},
		{"clip.mov", true},
		{"clip.mkv", true},
		{"clip.webm", true},
		{"clip.avi", false},
		{"notes.txt", false},
		{"noextension", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := IsVideoFile(tt.filename); got != tt.want {
				t.Errorf("IsVideoFile(%s) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestLibrary_ScanFindsVideos(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.mp4"), []byte("a"), 0644)
	os.WriteFile(filepath.Join(dir, "b.mov"), []byte("bb"), 0644)
	os.WriteFile(filepath.Join(dir, "skip.txt"), []byte("x"), 0644)

	lib, err := NewLibrary(dir, nil)
	if err != nil {
		t.Fatalf("NewLibrary() error = %v", err)
	}
	defer lib.Close()

	videos := lib.Videos()
	if len(videos) != 2 {
		t.Fatalf("found %d videos, want 2", len(videos))
	}
	if videos[0].Filename != "a.mp4" || videos[1].Filename != "b.mov" {
		t.Errorf("videos = %v, want sorted a.mp4, b.mov", videos)
	}
	if videos[0].ID == "" || videos[0].ID == videos[1].ID {
		t.Error("videos must have distinct non-empty ids")
	}
}

func TestLibrary_SkipsHiddenDirs(t *testing.T) {
	dir := t.TempDir()
	hidden := filepath.Join(dir, ".cache")
	os.Mkdir(hidden, 0755)
	os.WriteFile(filepath.Join(hidden, "h.mp4"), []byte("h"), 0644)
	os.WriteFile(filepath.Join(dir, "v.mp4"), []byte("v"), 0644)

	lib, err := NewLibrary(dir, nil)
	if err != nil {
		t.Fatalf("NewLibrary() error = %v", err)
	}
	defer lib.Close()

	if got := lib.Count(); got != 1 {
		t.Errorf("Count() = %d, want 1 (hidden dir skipped)", got)
	}
}

func TestLibrary_GetByID(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.mp4"), []byte("a"), 0644)

	lib, err := NewLibrary(dir, nil)
	if err != nil {
		t.Fatalf("NewLibrary() error = %v", err)
	}
	defer lib.Close()

	id := lib.Videos()[0].ID
	if v := lib.Get(id); v == nil || v.Filename != "a.mp4" {
		t.Errorf("Get(%s) = %+v, want a.mp4", id, v)
	}
	if v := lib.Get("unknown"); v != nil {
		t.Errorf("Get(unknown) = %+v, want nil", v)
	}
}

func TestLibrary_IDStableAcrossRescan(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.mp4"), []byte("a"), 0644)

	lib, err := NewLibrary(dir, nil)
	if err != nil {
		t.Fatalf("NewLibrary() error = %v", err)
	}
	defer lib.Close()

	before := lib.Videos()[0].ID
	if err := lib.Rescan(); err != nil {
		t.Fatalf("Rescan() error = %v", err)
	}
	if after := lib.Videos()[0].ID; after != before {
		t.Errorf("id changed across rescan: %s -> %s", before, after)
	}
}

func TestLibrary_WatcherPicksUpNewFile(t *testing.T) {
	dir := t.TempDir()

	lib, err := NewLibrary(dir, nil)
	if err != nil {
		t.Fatalf("NewLibrary() error = %v", err)
	}
	defer lib.Close()

	if got := lib.Count(); got != 0 {
		t.Fatalf("Count() = %d, want 0", got)
	}

	os.WriteFile(filepath.Join(dir, "new.mp4"), []byte("n"), 0644)

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if lib.Count() == 1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("watcher never picked up new.mp4")
}

func TestNewLibrary_MissingDir(t *testing.T) {
	if _, err := NewLibrary(filepath.Join(t.TempDir(), "nope"), nil); err == nil {
		t.Fatal("NewLibrary() should fail for a missing directory")
	}
}
