// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/gradeflow/repograde/schema"
)

// Cloner defines the operations needed to materialize a remote repository on
// the local filesystem. This allows the batch grading logic to be tested
// without needing a real git executable or network access.
type Cloner interface {
	// Clone fetches the repository at repoURL into a fresh directory and
	// returns the absolute path to it. The implementation owns timeout
	// handling; the returned path is a fully materialized, readable tree.
	Clone(ctx context.Context, repoURL string) (string, error)

	// Cleanup removes a previously cloned repository tree.
	Cleanup(clonePath string) error
}

// GradeStore defines the interface for tracking batch grading runs and
// persisting grade records. This allows the store layer to be mocked for
// testing.
type GradeStore interface {
	// BeginBatch creates a new batch run and returns its unique ID
	BeginBatch(startTime time.Time, configParams map[string]any) (int64, error)

	// EndBatch updates the batch run with completion data
	EndBatch(batchID int64, endTime time.Time, graded, failed int) error

	// RecordGrade stores one grade record under the given batch
	RecordGrade(batchID int64, rec schema.GradeRecord) error

	// ListBatches returns all persisted batch runs
	ListBatches() ([]schema.BatchRunRecord, error)

	// ListGrades returns all grade records, optionally filtered by batch ID
	// (batchID <= 0 means all batches)
	ListGrades(batchID int64) ([]schema.StoredGradeRecord, error)

	// GetStatus returns status information about the grade store
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection
	Close() error
}

// FeedbackGenerator produces a reply draft for a graded submission in the
// requested persona. Implementations may call an external model or render a
// local template.
type FeedbackGenerator interface {
	Generate(ctx context.Context, rec schema.GradeRecord, style schema.FeedbackStyle) (string, error)
}
