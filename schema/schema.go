// Package schema has configs, models and constants for all parts of repograde.
package schema

import "time"

// SourceFile represents one source file discovered during a repository scan.
// RawLines counts every physical line; EffectiveLines counts only the lines
// that survive the configured exclusion rules (blanks, comments, docstrings).
type SourceFile struct {
	Path           string `json:"path"`            // Path relative to the repository root, forward-slash normalized
	RawLines       int    `json:"raw_lines"`       // Total physical lines (informational only)
	EffectiveLines int    `json:"effective_lines"` // Lines counted after exclusion rules
	AboveThreshold bool   `json:"above_threshold"` // Set by the grading calculator; false until then
}

// AnalysisResult is the aggregate outcome of grading a single repository.
// It is created fresh per grading request and is read-only once returned.
type AnalysisResult struct {
	TotalFiles          int          `json:"total_files"`
	TotalLines          int          `json:"total_lines"`           // Sum of effective lines across all files
	LinesAboveThreshold int          `json:"lines_above_threshold"` // Sum of effective lines of over-threshold files
	Grade               float64      `json:"grade"`                 // Percentage of lines in over-threshold files, 0-100
	FileDetails         []SourceFile `json:"file_details"`          // Discovery order, not sorted
	Status              Status       `json:"status"`
	Error               string       `json:"error,omitempty"` // Set only when Status is Failed
}

// SubmissionRecord is one row of the batch input sheet: a student submission
// that references a repository to grade.
type SubmissionRecord struct {
	EmailID string `json:"email_id"`
	RepoURL string `json:"repo_url"`
	Status  Status `json:"status"`
}

// GradeRecord is the per-submission output of the grade manager. It is what
// the downstream feedback stage consumes.
type GradeRecord struct {
	EmailID string  `json:"email_id"`
	RepoURL string  `json:"repo_url,omitempty"`
	Grade   float64 `json:"grade"`
	Status  Status  `json:"status"` // Ready when graded, Failed otherwise
	Error   string  `json:"error,omitempty"`
}

// IsReady reports whether the record can flow into feedback generation.
func (r *GradeRecord) IsReady() bool {
	return r.Status == ReadyStatus
}

// BatchSummary aggregates the outcome of one batch grading run.
type BatchSummary struct {
	Grades      []GradeRecord `json:"grades"`
	GradedCount int           `json:"graded_count"`
	FailedCount int           `json:"failed_count"`
	OutputFile  string        `json:"output_file,omitempty"`
}

// FeedbackDraft is a generated reply draft for a graded submission.
type FeedbackDraft struct {
	EmailID string  `json:"email_id"`
	Grade   float64 `json:"grade"`
	Style   string  `json:"style"`
	Body    string  `json:"body"`
}

// BatchRunRecord describes one persisted batch grading run.
type BatchRunRecord struct {
	BatchID      int64      `json:"batch_id"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	GradedCount  int32      `json:"graded_count"`
	FailedCount  int32      `json:"failed_count"`
	ConfigParams *string    `json:"config_params,omitempty"`
}

// StoredGradeRecord is a GradeRecord as persisted by the grade store,
// annotated with its batch and record time.
type StoredGradeRecord struct {
	BatchID    int64     `json:"batch_id"`
	EmailID    string    `json:"email_id"`
	RepoURL    string    `json:"repo_url"`
	Grade      float64   `json:"grade"`
	Status     string    `json:"status"`
	Error      *string   `json:"error,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// StoreStatus holds status information about the grade store.
type StoreStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalBatches    int64     `json:"total_batches"`
	TotalGrades     int64     `json:"total_grades"`
	LastBatchTime   time.Time `json:"last_batch_time,omitempty"`
	OldestBatchTime time.Time `json:"oldest_batch_time,omitempty"`
}
