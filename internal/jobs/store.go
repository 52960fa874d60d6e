package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"webready/internal/analyzer"
	"webready/internal/db"
	"webready/internal/engine"
)

// ErrNotFound is returned when a job id does not exist.
var ErrNotFound = errors.New("job not found")

// Store provides CRUD operations for analysis jobs.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Create inserts a new pending job. If job.ID is empty a UUID is
// generated. The persisted record is returned.
func (s *Store) Create(ctx context.Context, job Job) (*Job, error) {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.Status == "" {
		job.Status = engine.StatusPending
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analysis_jobs (id, project_name, source, status, progress, file_count)
		VALUES (?, ?, ?, ?, ?, ?)`,
		job.ID, job.ProjectName, string(job.Source), string(job.Status), job.Progress, job.FileCount,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting job: %w", err)
	}
	return s.Get(ctx, job.ID)
}

// Get retrieves a single job by id.
func (s *Store) Get(ctx context.Context, id string) (*Job, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, project_name, source, status, progress, file_count, error,
		       created_at, updated_at, completed_at
		FROM analysis_jobs WHERE id = ?`, id)
	return scanJob(row)
}

// List returns jobs newest-first.
func (s *Store) List(ctx context.Context, limit, offset int) ([]Job, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_name, source, status, progress, file_count, error,
		       created_at, updated_at, completed_at
		FROM analysis_jobs ORDER BY created_at DESC, id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// SetProgress records a progress checkpoint for a running job.
func (s *Store) SetProgress(ctx context.Context, id string, status engine.Status, progress float64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE analysis_jobs
		SET status = ?, progress = ?, updated_at = datetime('now')
		WHERE id = ?`, string(status), progress, id)
	if err != nil {
		return fmt.Errorf("updating job progress: %w", err)
	}
	return checkFound(res)
}

// Complete stores the result document and marks the job completed.
func (s *Store) Complete(ctx context.Context, id string, result *analyzer.ProjectResult) error {
	doc, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshalling result: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE analysis_jobs
		SET status = ?, progress = 100, file_count = ?, result = ?,
		    updated_at = datetime('now'), completed_at = datetime('now')
		WHERE id = ?`, string(engine.StatusCompleted), result.TotalFiles, string(doc), id)
	if err != nil {
		return fmt.Errorf("completing job: %w", err)
	}
	return checkFound(res)
}

// Fail marks the job failed with an error message.
func (s *Store) Fail(ctx context.Context, id, msg string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE analysis_jobs
		SET status = ?, error = ?, updated_at = datetime('now'), completed_at = datetime('now')
		WHERE id = ?`, string(engine.StatusFailed), msg, id)
	if err != nil {
		return fmt.Errorf("failing job: %w", err)
	}
	return checkFound(res)
}

// Result loads the stored result document of a completed job.
func (s *Store) Result(ctx context.Context, id string) (*analyzer.ProjectResult, error) {
	var doc sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT result FROM analysis_jobs WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading result: %w", err)
	}
	if !doc.Valid {
		return nil, fmt.Errorf("job %s has no result", id)
	}

	var result analyzer.ProjectResult
	if err := json.Unmarshal([]byte(doc.String), &result); err != nil {
		return nil, fmt.Errorf("unmarshalling result: %w", err)
	}
	return &result, nil
}

// Delete removes a job and its result document.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM analysis_jobs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting job: %w", err)
	}
	return checkFound(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*Job, error) {
	var job Job
	var source, status string
	var createdAt, updatedAt string
	var completedAt sql.NullString

	err := row.Scan(&job.ID, &job.ProjectName, &source, &status, &job.Progress,
		&job.FileCount, &job.Error, &createdAt, &updatedAt, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning job: %w", err)
	}

	job.Source = Source(source)
	job.Status = engine.Status(status)
	job.CreatedAt = parseTime(createdAt)
	job.UpdatedAt = parseTime(updatedAt)
	if completedAt.Valid {
		t := parseTime(completedAt.String)
		job.CompletedAt = &t
	}
	return &job, nil
}

// parseTime handles SQLite's datetime('now') format.
func parseTime(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func checkFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
