package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cliplab/cliplab-agent/internal/media"
	"github.com/cliplab/cliplab-agent/internal/progress"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(LoopbackGuard())
	r.Use(CORSAllowlist())

	r.Get("/health", healthHandler(cfg))

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Store, cfg.Logger))

		r.Get("/status", statusHandler(cfg))
		r.Get("/videos", listVideosHandler(cfg))
		r.Get("/videos/{id}/stream", streamVideoHandler(cfg))
		r.Get("/jobs", listJobsHandler(cfg))
		r.Get("/jobs/{id}", getJobHandler(cfg))
		r.Post("/jobs/{id}/track", trackJobHandler(cfg))
		r.Delete("/jobs/track", untrackJobHandler(cfg))
		r.Post("/jobs/reconnect", reconnectHandler(cfg))
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: cfg.Version,
			UptimeS: uptime,
		})
	}
}

func statusHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := cfg.Tracker.Snapshot()

		state := string(snap.State)
		if snap.JobID == "" {
			state = "idle"
		}

		WriteJSON(w, http.StatusOK, StatusResponse{
			State:       state,
			JobID:       snap.JobID,
			Progress:    snap.Progress,
			StatusText:  snap.Status,
			LastError:   snap.Err,
			Attempts:    snap.Attempts,
			VideosCount: cfg.Library.Count(),
		})
	}
}

func listVideosHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videos := cfg.Library.Videos()

		resp := VideosResponse{Videos: make([]VideoResponse, len(videos))}
		for i, v := range videos {
			resp.Videos[i] = VideoToResponse(v)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func streamVideoHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			WriteError(w, http.StatusBadRequest, "video id required", "BAD_REQUEST")
			return
		}

		video := cfg.Library.Get(id)
		if video == nil {
			WriteError(w, http.StatusNotFound, "video not found", "NOT_FOUND")
			return
		}

		if err := media.ServeVideo(w, r, video.Path); err != nil {
			cfg.Logger.Error("stream error", "error", err, "video_id", id)
		}
	}
}

func listJobsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snaps, err := cfg.Store.ListSnapshots(r.Context(), 50)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list jobs", "INTERNAL_ERROR")
			return
		}

		resp := JobsResponse{Jobs: make([]JobResponse, len(snaps))}
		for i, s := range snaps {
			resp.Jobs[i] = SnapshotToResponse(s)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func getJobHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			WriteError(w, http.StatusBadRequest, "job id required", "BAD_REQUEST")
			return
		}

		// The live snapshot wins over the persisted one for the tracked job.
		if live := cfg.Tracker.Snapshot(); live.JobID == id {
			WriteJSON(w, http.StatusOK, LiveSnapshotToResponse(live))
			return
		}

		snap, err := cfg.Store.GetSnapshot(r.Context(), id)
		if err != nil {
			cfg.Logger.Error("failed to get job", "error", err, "job_id", id)
			WriteError(w, http.StatusInternalServerError, "failed to get job", "INTERNAL_ERROR")
			return
		}
		if snap == nil {
			WriteError(w, http.StatusNotFound, "job not found", "NOT_FOUND")
			return
		}

		WriteJSON(w, http.StatusOK, SnapshotToResponse(snap))
	}
}

func trackJobHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			WriteError(w, http.StatusBadRequest, "job id required", "BAD_REQUEST")
			return
		}

		if err := cfg.Tracker.SetJob(id); err != nil {
			cfg.Logger.Error("failed to track job", "error", err, "job_id", id)
			WriteError(w, http.StatusBadRequest, "failed to open job channel", "BAD_REQUEST")
			return
		}

		WriteJSON(w, http.StatusAccepted, TrackResponse{
			JobID: id,
			State: string(progress.StateConnecting),
		})
	}
}

func untrackJobHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := cfg.Tracker.SetJob(""); err != nil {
			cfg.Logger.Error("failed to stop tracking", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to stop tracking", "INTERNAL_ERROR")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func reconnectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := cfg.Tracker.JobID()
		if jobID == "" {
			WriteError(w, http.StatusConflict, "no job is being tracked", "NO_ACTIVE_JOB")
			return
		}

		cfg.Tracker.Reconnect()
		WriteJSON(w, http.StatusAccepted, TrackResponse{
			JobID: jobID,
			State: string(progress.StateConnecting),
		})
	}
}
