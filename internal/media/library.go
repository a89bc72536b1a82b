package media

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
)

// Library is the set of video files under a media directory. It rescans
// when the watcher reports a create, remove, or rename, so the picker
// stays current without polling. IDs are stable across rescans for files
// that keep their path.
type Library struct {
	dir    string
	logger *slog.Logger

	mu     sync.RWMutex
	byPath map[string]*Video

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewLibrary scans dir and starts watching it. The directory must exist.
func NewLibrary(dir string, logger *slog.Logger) (*Library, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("media dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("media dir %s is not a directory", dir)
	}

	l := &Library{
		dir:    dir,
		logger: logger,
		byPath: make(map[string]*Video),
		done:   make(chan struct{}),
	}

	if err := l.rescan(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("media watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	l.watcher = watcher
	go l.watchLoop()

	return l, nil
}

// Videos returns the library sorted by filename.
func (l *Library) Videos() []Video {
	l.mu.RLock()
	defer l.mu.RUnlock()

	videos := make([]Video, 0, len(l.byPath))
	for _, v := range l.byPath {
		videos = append(videos, *v)
	}
	sort.Slice(videos, func(i, j int) bool {
		return videos[i].Filename < videos[j].Filename
	})
	return videos
}

// Get returns the video with the given id, or nil.
func (l *Library) Get(id string) *Video {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, v := range l.byPath {
		if v.ID == id {
			video := *v
			return &video
		}
	}
	return nil
}

// Count returns the number of videos in the library.
func (l *Library) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.byPath)
}

// Rescan re-reads the media directory immediately.
func (l *Library) Rescan() error {
	return l.rescan()
}

// Close stops the watcher.
func (l *Library) Close() error {
	close(l.done)
	if l.watcher != nil {
		return l.watcher.Close()
	}
	return nil
}

func (l *Library) rescan() error {
	seen := make(map[string]bool)

	err := filepath.WalkDir(l.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != l.dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsVideoFile(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		seen[path] = true
		l.mu.Lock()
		if existing, ok := l.byPath[path]; ok {
			existing.Size = info.Size()
			existing.ModTime = info.ModTime()
		} else {
			l.byPath[path] = &Video{
				ID:       uuid.NewString(),
				Path:     path,
				Filename: d.Name(),
				Size:     info.Size(),
				ModTime:  info.ModTime(),
			}
		}
		l.mu.Unlock()
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan %s: %w", l.dir, err)
	}

	l.mu.Lock()
	for path := range l.byPath {
		if !seen[path] {
			delete(l.byPath, path)
		}
	}
	l.mu.Unlock()
	return nil
}

func (l *Library) watchLoop() {
	for {
		select {
		case <-l.done:
			return
		case event, ok := <-l.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if err := l.rescan(); err != nil && l.logger != nil {
				l.logger.Warn("media rescan failed", "error", err)
			}
		case err, ok := <-l.watcher.Errors:
			if !ok {
				return
			}
			if l.logger != nil {
				l.logger.Warn("media watcher error", "error", err)
			}
		}
	}
}
