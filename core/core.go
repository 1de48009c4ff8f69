// Package core has core logic for scanning, grading and batch orchestration.
package core

import (
	"context"
	"errors"
	"time"

	"github.com/gradeflow/repograde/internal/contract"
	"github.com/gradeflow/repograde/internal/outwriter"
	"github.com/gradeflow/repograde/schema"
)

// ExecuteAnalyze runs the single-repository analysis and prints the report.
// It serves as the main entry point for the 'analyze' command.
func ExecuteAnalyze(ctx context.Context, cfg *contract.Config) error {
	start := time.Now()
	result := AnalyzeRepository(ctx, cfg, cfg.RepoPath)
	if result.Status == schema.FailedStatus {
		return errors.New(result.Error)
	}
	duration := time.Since(start)
	return outwriter.PrintAnalysisResult(result, cfg, duration)
}

// ExecuteGradeBatch grades every submission in the input sheet and prints the
// grade summary. It serves as the main entry point for the 'batch' command.
func ExecuteGradeBatch(ctx context.Context, cfg *contract.Config, cloner contract.Cloner, store contract.GradeStore) error {
	start := time.Now()

	subs, err := ReadSubmissions(cfg.InputFile)
	if err != nil {
		return err
	}

	summary, err := GradeSubmissions(ctx, cfg, cloner, store, subs)
	if err != nil {
		return err
	}
	summary.OutputFile = cfg.OutputFile

	duration := time.Since(start)
	return outwriter.PrintGradeSummary(summary, cfg, duration)
}

// ExecuteFeedbackDrafts generates reply drafts for graded submissions and
// prints them. Records that are not Ready are skipped, and a draft that
// cannot be generated is logged without sinking the rest of the run.
func ExecuteFeedbackDrafts(ctx context.Context, cfg *contract.Config, gen contract.FeedbackGenerator, records []schema.GradeRecord) error {
	var drafts []schema.FeedbackDraft
	for _, rec := range records {
		if !rec.IsReady() {
			continue
		}

		style := cfg.FeedbackStyle
		if style == "" {
			style = schema.StyleForGrade(rec.Grade)
		}

		body, err := gen.Generate(ctx, rec, style)
		if err != nil {
			contract.LogWarn("Cannot generate feedback for "+rec.EmailID, err)
			continue
		}

		drafts = append(drafts, schema.FeedbackDraft{
			EmailID: rec.EmailID,
			Grade:   rec.Grade,
			Style:   string(style),
			Body:    body,
		})
	}

	if len(drafts) == 0 {
		return errors.New("no feedback drafts could be generated")
	}
	return outwriter.PrintFeedbackDrafts(drafts, cfg)
}
