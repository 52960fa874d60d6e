// Package jobs persists analysis runs and exposes the HTTP API for
// starting, watching and reading them. The engine itself knows nothing
// about jobs; this package is the lifecycle glue around it.
package jobs

import (
	"time"

	"webready/internal/engine"
)

// Source says where a job's files came from.
type Source string

const (
	SourceUpload Source = "upload" // ZIP archive upload
	SourcePath   Source = "path"   // local directory walk
)

// Job is one analysis run's lifecycle record. The result document is
// stored separately and fetched on demand.
type Job struct {
	ID          string        `json:"id"`
	ProjectName string        `json:"project_name"`
	Source      Source        `json:"source"`
	Status      engine.Status `json:"status"`
	Progress    float64       `json:"progress"`
	FileCount   int           `json:"file_count"`
	Error       string        `json:"error,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}

// Terminal reports whether the job reached a final state.
func (j *Job) Terminal() bool {
	return j.Status == engine.StatusCompleted || j.Status == engine.StatusFailed
}
