package media

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	ErrBadRangeHeader = errors.New("malformed range header")
	ErrRangeBeyondEOF = errors.New("range not satisfiable")
)

// ByteRange is an inclusive byte span within a file.
type ByteRange struct {
	First int64
	Last  int64
}

// Length returns the number of bytes covered by the range.
func (r ByteRange) Length() int64 {
	return r.Last - r.First + 1
}

func (r ByteRange) contentRange(size int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", r.First, r.Last, size)
}

// ParseRangeHeader parses a Range request header against a file of the
// given size. A missing header yields (nil, nil). Only the first range
// of a multi-range header is honored. A last position beyond the file is
// clamped; a first position at or past EOF is ErrRangeBeyondEOF.
func ParseRangeHeader(header string, size int64) (*ByteRange, error) {
	if header == "" {
		return nil, nil
	}

	spec, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return nil, ErrBadRangeHeader
	}
	if first, _, found := strings.Cut(spec, ","); found {
		spec = strings.TrimSpace(first)
	}

	fromStr, toStr, ok := strings.Cut(spec, "-")
	if !ok {
		return nil, ErrBadRangeHeader
	}

	// Suffix form: "-N" means the final N bytes.
	if fromStr == "" {
		n, err := strconv.ParseInt(toStr, 10, 64)
		if err != nil || n <= 0 {
			return nil, ErrBadRangeHeader
		}
		first := size - n
		if first < 0 {
			first = 0
		}
		return &ByteRange{First: first, Last: size - 1}, nil
	}

	first, err := strconv.ParseInt(fromStr, 10, 64)
	if err != nil || first < 0 {
		return nil, ErrBadRangeHeader
	}

	last := size - 1
	if toStr != "" {
		if last, err = strconv.ParseInt(toStr, 10, 64); err != nil {
			return nil, ErrBadRangeHeader
		}
	}

	if first > last || first >= size {
		return nil, ErrRangeBeyondEOF
	}
	if last >= size {
		last = size - 1
	}

	return &ByteRange{First: first, Last: last}, nil
}

// ServeVideo streams a video file honoring the request's Range header:
// 206 with Content-Range for a valid partial request, 416 for an
// unsatisfiable one, 200 full-body otherwise. A malformed Range header
// is ignored and the full file is served.
func ServeVideo(w http.ResponseWriter, r *http.Request, path string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "video not found", http.StatusNotFound)
			return nil
		}
		return fmt.Errorf("open video: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat video: %w", err)
	}
	size := stat.Size()

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Content-Type", contentType)

	br, err := ParseRangeHeader(r.Header.Get("Range"), size)
	if errors.Is(err, ErrRangeBeyondEOF) {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		http.Error(w, "range not satisfiable", http.StatusRequestedRangeNotSatisfiable)
		return nil
	}

	if br == nil {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
		w.WriteHeader(http.StatusOK)
		_, err = io.Copy(w, file)
		return err
	}

	if _, err := file.Seek(br.First, io.SeekStart); err != nil {
		return fmt.Errorf("seek video: %w", err)
	}

	w.Header().Set("Content-Length", strconv.FormatInt(br.Length(), 10))
	w.Header().Set("Content-Range", br.contentRange(size))
	w.WriteHeader(http.StatusPartialContent)
	_, err = io.CopyN(w, file, br.Length())
	return err
}
