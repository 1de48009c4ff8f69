package core

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gradeflow/repograde/internal/contract"
	"github.com/gradeflow/repograde/schema"
)

// ReadSubmissions parses the batch input sheet. Each row is an email ID and a
// repository URL; a header row is detected and skipped. Rows with missing
// fields come back Failed rather than aborting the whole sheet.
func ReadSubmissions(path string) ([]schema.SubmissionRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open submissions file: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // Validate per row instead
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot parse submissions file: %w", err)
	}

	var subs []schema.SubmissionRecord
	for i, row := range rows {
		if i == 0 && isHeaderRow(row) {
			continue
		}
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}

		sub := schema.SubmissionRecord{Status: schema.ReadyStatus}
		if len(row) > 0 {
			sub.EmailID = strings.TrimSpace(row[0])
		}
		if len(row) > 1 {
			sub.RepoURL = strings.TrimSpace(row[1])
		}
		if sub.EmailID == "" || sub.RepoURL == "" {
			sub.Status = schema.FailedStatus
		}
		subs = append(subs, sub)
	}

	if len(subs) == 0 {
		return nil, fmt.Errorf("submissions file %s has no rows", path)
	}
	return subs, nil
}

// isHeaderRow detects a header like "email_id,repo_url". A real address
// contains "@", which no header cell does, so addresses are never mistaken
// for a header even on a one-row sheet.
func isHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(row[0]))
	if strings.Contains(first, "@") {
		return false
	}
	return strings.HasPrefix(first, "email") || first == "id" || first == "student_id"
}

// GradeSubmissions grades every submission concurrently and returns the
// per-submission grades in input order. Failures are recorded per row; the
// batch itself only fails when nothing could even be attempted.
func GradeSubmissions(ctx context.Context, cfg *contract.Config, cloner contract.Cloner, store contract.GradeStore, subs []schema.SubmissionRecord) (*schema.BatchSummary, error) {
	if len(subs) == 0 {
		return nil, fmt.Errorf("no submissions to grade")
	}

	// --- 0. Begin batch tracking (if configured) ---
	var batchID int64
	if store != nil {
		configParams := map[string]any{
			"threshold":  cfg.LineThreshold,
			"extensions": strings.Join(cfg.Extensions, ","),
			"workers":    cfg.Workers,
			"input_file": cfg.InputFile,
		}
		var err error
		batchID, err = store.BeginBatch(time.Now(), configParams)
		if err != nil {
			contract.LogWarn("Batch tracking initialization failed", err)
			batchID = 0
		}
	}

	// --- 1. Grade all submissions with a worker pool ---
	grades := make([]schema.GradeRecord, len(subs))
	indexCh := make(chan int, len(subs))

	var wg sync.WaitGroup
	for range cfg.Workers {
		wg.Go(func() {
			for i := range indexCh {
				grades[i] = gradeSubmission(ctx, cfg, cloner, subs[i])
				if store != nil && batchID > 0 {
					if err := store.RecordGrade(batchID, grades[i]); err != nil {
						contract.LogWarn("Cannot record grade for "+grades[i].EmailID, err)
					}
				}
			}
		})
	}

	for i := range subs {
		indexCh <- i
	}
	close(indexCh)
	wg.Wait()

	// --- 2. Summarize ---
	summary := &schema.BatchSummary{Grades: grades}
	for _, g := range grades {
		if g.IsReady() {
			summary.GradedCount++
		} else {
			summary.FailedCount++
		}
	}

	// --- 3. End batch tracking ---
	if store != nil && batchID > 0 {
		if err := store.EndBatch(batchID, time.Now(), summary.GradedCount, summary.FailedCount); err != nil {
			contract.LogWarn("Cannot finalize batch tracking", err)
		}
	}

	return summary, nil
}

// gradeSubmission clones, analyzes, and cleans up one submission. Every
// failure path produces a Failed record with the cause attached.
func gradeSubmission(ctx context.Context, cfg *contract.Config, cloner contract.Cloner, sub schema.SubmissionRecord) schema.GradeRecord {
	rec := schema.GradeRecord{
		EmailID: sub.EmailID,
		RepoURL: sub.RepoURL,
		Status:  schema.FailedStatus,
	}

	if sub.Status == schema.FailedStatus {
		rec.Error = "submission row is missing email ID or repository URL"
		return rec
	}

	clonePath, err := cloner.Clone(ctx, sub.RepoURL)
	if err != nil {
		rec.Error = err.Error()
		return rec
	}
	if !cfg.KeepClones {
		defer func() {
			if err := cloner.Cleanup(clonePath); err != nil {
				contract.LogWarn("Cannot clean up clone "+clonePath, err)
			}
		}()
	}

	result := AnalyzeRepository(ctx, cfg, clonePath)
	if result.Status == schema.FailedStatus {
		rec.Error = result.Error
		return rec
	}

	rec.Grade = result.Grade
	rec.Status = schema.ReadyStatus
	return rec
}
