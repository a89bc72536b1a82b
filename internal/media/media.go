// Package media maintains the local video library behind the editor's
// file picker and streams video files with HTTP range support.
package media

import (
	"path/filepath"
	"strings"
	"time"
)

// Video is one playable file in the library.
type Video struct {
	ID       string    `json:"id"`
	Path     string    `json:"path"`
	Filename string    `json:"filename"`
	Size     int64     `json:"size"`
	ModTime  time.Time `json:"mod_time"`
}

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
}

// IsVideoFile reports whether the filename has a playable video extension.
func IsVideoFile(filename string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(filename))]
}
