package core

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gradeflow/repograde/internal/contract"
	"github.com/gradeflow/repograde/schema"
)

// ExecuteFeedback loads grade records and generates feedback drafts for them.
// Records come from a grades CSV when one is given, otherwise from the most
// recent batch in the grade store. It serves as the main entry point for the
// 'feedback' command.
func ExecuteFeedback(ctx context.Context, cfg *contract.Config, gen contract.FeedbackGenerator, store contract.GradeStore) error {
	var records []schema.GradeRecord
	var err error

	if cfg.InputFile != "" {
		records, err = ReadGradeRecords(cfg.InputFile)
	} else {
		records, err = LoadLatestGrades(store)
	}
	if err != nil {
		return err
	}

	return ExecuteFeedbackDrafts(ctx, cfg, gen, records)
}

// ReadGradeRecords parses a grades CSV as written by a batch run. Expected
// columns are email_id, repo_url, grade, status, error with an optional
// header row.
func ReadGradeRecords(path string) ([]schema.GradeRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open grades file: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records []schema.GradeRecord
	for row := 0; ; row++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot parse grades file: %w", err)
		}
		if row == 0 && isHeaderRow(fields) {
			continue
		}
		if len(fields) == 0 || strings.TrimSpace(fields[0]) == "" {
			continue
		}
		if len(fields) < 4 {
			return nil, fmt.Errorf("grades file row %d has %d columns, expected at least 4", row+1, len(fields))
		}

		grade, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("grades file row %d has invalid grade '%s'", row+1, fields[2])
		}

		rec := schema.GradeRecord{
			EmailID: strings.TrimSpace(fields[0]),
			RepoURL: strings.TrimSpace(fields[1]),
			Grade:   grade,
			Status:  schema.Status(strings.TrimSpace(fields[3])),
		}
		if len(fields) > 4 {
			rec.Error = strings.TrimSpace(fields[4])
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("grades file %s has no grade rows", path)
	}
	return records, nil
}

// LoadLatestGrades fetches the grade records of the most recent batch run.
func LoadLatestGrades(store contract.GradeStore) ([]schema.GradeRecord, error) {
	batches, err := store.ListBatches()
	if err != nil {
		return nil, fmt.Errorf("cannot list batch runs: %w", err)
	}
	if len(batches) == 0 {
		return nil, fmt.Errorf("grade store has no batch runs; run a batch first or pass a grades CSV")
	}

	latest := batches[len(batches)-1].BatchID
	stored, err := store.ListGrades(latest)
	if err != nil {
		return nil, fmt.Errorf("cannot list grades for batch %d: %w", latest, err)
	}

	records := make([]schema.GradeRecord, 0, len(stored))
	for _, s := range stored {
		rec := schema.GradeRecord{
			EmailID: s.EmailID,
			RepoURL: s.RepoURL,
			Grade:   s.Grade,
			Status:  schema.Status(s.Status),
		}
		if s.Error != nil {
			rec.Error = *s.Error
		}
		records = append(records, rec)
	}
	return records, nil
}
