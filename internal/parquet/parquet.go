// Package parquet provides data structures and functions for exporting
// grading data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/gradeflow/repograde/schema"
)

// FileDetailRow is one scanned source file in the analysis export.
type FileDetailRow struct {
	// RepoPath is the repository the file belongs to
	RepoPath string `parquet:"repo_path,snappy"`

	// FilePath is the relative path to the file in the repository
	FilePath string `parquet:"file_path,snappy"`

	// RawLines is the physical line count
	RawLines int32 `parquet:"raw_lines,snappy"`

	// EffectiveLines is the line count after exclusion rules
	EffectiveLines int32 `parquet:"effective_lines,snappy"`

	// AboveThreshold marks files exceeding the configured line threshold
	AboveThreshold bool `parquet:"above_threshold,snappy"`
}

// GradeRow is one graded submission in the batch export.
type GradeRow struct {
	// EmailID identifies the student submission
	EmailID string `parquet:"email_id,snappy"`

	// RepoURL is the submitted repository URL
	RepoURL string `parquet:"repo_url,snappy"`

	// Grade is the penalty percentage, 0-100
	Grade float64 `parquet:"grade,snappy"`

	// Status is Ready for graded rows and Failed otherwise
	Status string `parquet:"status,snappy"`

	// Error carries the failure cause (nullable)
	Error *string `parquet:"error,optional,snappy"`
}

// BatchRunRow is one persisted batch grading run in the store export.
// It maps to the grade_batches database table.
type BatchRunRow struct {
	// BatchID is the unique identifier for this batch run
	BatchID int64 `parquet:"batch_id,snappy"`

	// StartTime is when the batch began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the batch completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// GradedCount is the number of submissions graded successfully
	GradedCount int32 `parquet:"graded_count,snappy"`

	// FailedCount is the number of submissions that failed
	FailedCount int32 `parquet:"failed_count,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// StoredGradeRow is one persisted grade record in the store export.
// It maps to the grade_records database table.
type StoredGradeRow struct {
	// BatchID references the parent batch run
	BatchID int64 `parquet:"batch_id,snappy"`

	// EmailID identifies the student submission
	EmailID string `parquet:"email_id,snappy"`

	// RepoURL is the submitted repository URL
	RepoURL string `parquet:"repo_url,snappy"`

	// Grade is the penalty percentage, 0-100
	Grade float64 `parquet:"grade,snappy"`

	// Status is Ready for graded rows and Failed otherwise
	Status string `parquet:"status,snappy"`

	// Error carries the failure cause (nullable)
	Error *string `parquet:"error,optional,snappy"`

	// RecordedAt is when the grade was persisted
	RecordedAt time.Time `parquet:"recorded_at,snappy"`
}

// FromSourceFiles converts scanned files into export rows.
func FromSourceFiles(repoPath string, files []schema.SourceFile) []FileDetailRow {
	rows := make([]FileDetailRow, len(files))
	for i, f := range files {
		rows[i] = FileDetailRow{
			RepoPath:       repoPath,
			FilePath:       f.Path,
			RawLines:       int32(f.RawLines),
			EffectiveLines: int32(f.EffectiveLines),
			AboveThreshold: f.AboveThreshold,
		}
	}
	return rows
}

// FromGradeRecords converts batch grades into export rows.
func FromGradeRecords(grades []schema.GradeRecord) []GradeRow {
	rows := make([]GradeRow, len(grades))
	for i, g := range grades {
		row := GradeRow{
			EmailID: g.EmailID,
			RepoURL: g.RepoURL,
			Grade:   g.Grade,
			Status:  string(g.Status),
		}
		if g.Error != "" {
			errCopy := g.Error
			row.Error = &errCopy
		}
		rows[i] = row
	}
	return rows
}

// FromBatchRuns converts persisted batch runs into export rows.
func FromBatchRuns(batches []schema.BatchRunRecord) []BatchRunRow {
	rows := make([]BatchRunRow, len(batches))
	for i, b := range batches {
		rows[i] = BatchRunRow{
			BatchID:      b.BatchID,
			StartTime:    b.StartTime,
			EndTime:      b.EndTime,
			GradedCount:  b.GradedCount,
			FailedCount:  b.FailedCount,
			ConfigParams: b.ConfigParams,
		}
	}
	return rows
}

// FromStoredGrades converts persisted grade records into export rows.
func FromStoredGrades(grades []schema.StoredGradeRecord) []StoredGradeRow {
	rows := make([]StoredGradeRow, len(grades))
	for i, g := range grades {
		rows[i] = StoredGradeRow{
			BatchID:    g.BatchID,
			EmailID:    g.EmailID,
			RepoURL:    g.RepoURL,
			Grade:      g.Grade,
			Status:     g.Status,
			Error:      g.Error,
			RecordedAt: g.RecordedAt,
		}
	}
	return rows
}

// WriteFileDetailsParquet writes file detail rows to a Parquet file.
func WriteFileDetailsParquet(data []FileDetailRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteGradesParquet writes grade rows to a Parquet file.
func WriteGradesParquet(data []GradeRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteStoredGradesParquet writes stored grade rows to a Parquet file.
func WriteStoredGradesParquet(data []StoredGradeRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteBatchRunsParquet writes batch run rows to a Parquet file.
func WriteBatchRunsParquet(data []BatchRunRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet creates the output file and writes all rows with a writer
// whose schema is inferred from the row struct tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}

	return nil
}
