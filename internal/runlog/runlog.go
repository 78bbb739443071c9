// Package runlog persists scheduler job runs in a local SQLite database.
package runlog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS job_runs (
	run_id     TEXT PRIMARY KEY,
	job_name   TEXT NOT NULL,
	status     TEXT NOT NULL,
	started_at TIMESTAMP NOT NULL,
	duration_ms INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_job_runs_name ON job_runs(job_name, started_at);
`

// Run is one recorded scheduler job execution.
type Run struct {
	RunID      string    `json:"run_id"`
	JobName    string    `json:"job_name"`
	Status     string    `json:"status"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
}

// Service wraps the run log database.
type Service struct {
	db *sql.DB
}

// New opens (creating if needed) the run log database at dbPath.
func New(dbPath string) (*Service, error) {
	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open run log db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply run log schema: %w", err)
	}
	return &Service{db: db}, nil
}

// Close closes the underlying database.
func (s *Service) Close() error {
	return s.db.Close()
}

// RecordRun inserts a job run and returns its generated run ID.
func (s *Service) RecordRun(jobName, status string, startedAt time.Time, duration time.Duration) (string, error) {
	runID := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO job_runs (run_id, job_name, status, started_at, duration_ms) VALUES (?, ?, ?, ?, ?)`,
		runID, jobName, status, startedAt.UTC(), duration.Milliseconds(),
	)
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	return runID, nil
}

// LastRun returns the most recent run for a job, or nil if none exists.
func (s *Service) LastRun(jobName string) (*Run, error) {
	row := s.db.QueryRow(
		`SELECT run_id, job_name, status, started_at, duration_ms
		 FROM job_runs WHERE job_name = ? ORDER BY started_at DESC LIMIT 1`,
		jobName,
	)
	var r Run
	if err := row.Scan(&r.RunID, &r.JobName, &r.Status, &r.StartedAt, &r.DurationMS); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("query last run: %w", err)
	}
	return &r, nil
}

// RecentRuns returns up to limit runs across all jobs, newest first.
func (s *Service) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT run_id, job_name, status, started_at, duration_ms
		 FROM job_runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.JobName, &r.Status, &r.StartedAt, &r.DurationMS); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
