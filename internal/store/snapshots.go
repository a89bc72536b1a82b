package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cliplab/cliplab-agent/internal/progress"
)

// JobSnapshot is a persisted progress.Snapshot with its update time.
type JobSnapshot struct {
	JobID     string    `json:"job_id"`
	State     string    `json:"state"`
	Progress  float64   `json:"progress"`
	Status    string    `json:"status,omitempty"`
	Error     string    `json:"error,omitempty"`
	Attempts  int       `json:"reconnect_attempts"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SaveSnapshot upserts the snapshot for its job id.
func (s *Store) SaveSnapshot(ctx context.Context, snap progress.Snapshot) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO job_snapshots (job_id, state, progress, status, error, attempts, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(job_id) DO UPDATE SET
			state = excluded.state,
			progress = excluded.progress,
			status = excluded.status,
			error = excluded.error,
			attempts = excluded.attempts,
			updated_at = excluded.updated_at`,
		snap.JobID, string(snap.State), snap.Progress, snap.Status, snap.Err, snap.Attempts)
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", snap.JobID, err)
	}
	return nil
}

// GetSnapshot returns the snapshot for jobID, or nil if unknown.
func (s *Store) GetSnapshot(ctx context.Context, jobID string) (*JobSnapshot, error) {
	row := s.conn.QueryRowContext(ctx, `
		SELECT job_id, state, progress, status, error, attempts, updated_at
		FROM job_snapshots WHERE job_id = ?`, jobID)

	snap, err := scanSnapshot(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot %s: %w", jobID, err)
	}
	return snap, nil
}

// ListSnapshots returns up to limit snapshots, most recently updated first.
func (s *Store) ListSnapshots(ctx context.Context, limit int) ([]*JobSnapshot, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT job_id, state, progress, status, error, attempts, updated_at
		FROM job_snapshots ORDER BY updated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []*JobSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// DeleteSnapshot removes the snapshot for jobID if present.
func (s *Store) DeleteSnapshot(ctx context.Context, jobID string) error {
	_, err := s.conn.ExecContext(ctx, "DELETE FROM job_snapshots WHERE job_id = ?", jobID)
	if err != nil {
		return fmt.Errorf("delete snapshot %s: %w", jobID, err)
	}
	return nil
}

// GetConfig returns the value for key, or empty string if unset.
func (s *Store) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := s.conn.QueryRowContext(ctx, "SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get config %s: %w", key, err)
	}
	return value, nil
}

// SetConfig upserts a config entry.
func (s *Store) SetConfig(ctx context.Context, key, value string) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("set config %s: %w", key, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*JobSnapshot, error) {
	var snap JobSnapshot
	var updatedAt string
	if err := row.Scan(&snap.JobID, &snap.State, &snap.Progress, &snap.Status,
		&snap.Error, &snap.Attempts, &updatedAt); err != nil {
		return nil, err
	}
	if t, err := time.Parse("2006-01-02 15:04:05", updatedAt); err == nil {
		snap.UpdatedAt = t
	}
	return &snap, nil
}
