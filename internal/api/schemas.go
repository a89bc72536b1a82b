package api

import (
	"time"

	"github.com/cliplab/cliplab-agent/internal/media"
	"github.com/cliplab/cliplab-agent/internal/progress"
	"github.com/cliplab/cliplab-agent/internal/store"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

type StatusResponse struct {
	State       string  `json:"state"`
	JobID       string  `json:"job_id,omitempty"`
	Progress    float64 `json:"progress"`
	StatusText  string  `json:"status_text,omitempty"`
	LastError   string  `json:"last_error,omitempty"`
	Attempts    int     `json:"reconnect_attempts"`
	VideosCount int     `json:"videos_count"`
}

type VideoResponse struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	ModTime  string `json:"mod_time"`
}

type VideosResponse struct {
	Videos []VideoResponse `json:"videos"`
}

type JobResponse struct {
	JobID     string  `json:"job_id"`
	State     string  `json:"state"`
	Progress  float64 `json:"progress"`
	Status    string  `json:"status,omitempty"`
	Error     string  `json:"error,omitempty"`
	Attempts  int     `json:"reconnect_attempts"`
	UpdatedAt string  `json:"updated_at"`
}

type JobsResponse struct {
	Jobs []JobResponse `json:"jobs"`
}

type TrackResponse struct {
	JobID string `json:"job_id"`
	State string `json:"state"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func VideoToResponse(v media.Video) VideoResponse {
	return VideoResponse{
		ID:       v.ID,
		Filename: v.Filename,
		Size:     v.Size,
		ModTime:  v.ModTime.Format(time.RFC3339),
	}
}

func SnapshotToResponse(s *store.JobSnapshot) JobResponse {
	return JobResponse{
		JobID:     s.JobID,
		State:     s.State,
		Progress:  s.Progress,
		Status:    s.Status,
		Error:     s.Error,
		Attempts:  s.Attempts,
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
}

func LiveSnapshotToResponse(s progress.Snapshot) JobResponse {
	return JobResponse{
		JobID:    s.JobID,
		State:    string(s.State),
		Progress: s.Progress,
		Status:   s.Status,
		Error:    s.Err,
		Attempts: s.Attempts,
	}
}
