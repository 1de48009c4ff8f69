package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/gradeflow/repograde/internal/contract"
	"github.com/gradeflow/repograde/schema"
)

// PrintFeedbackDrafts outputs generated feedback drafts, dispatching based on
// the output format configured. Parquet is not supported here since draft
// bodies are free-form text meant for humans.
func PrintFeedbackDrafts(drafts []schema.FeedbackDraft, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, drafts)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFeedbackCSV(w, drafts, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for feedback drafts")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFeedbackText(w, drafts, fmtFloat)
		}, "Wrote drafts")
	}
}

// writeFeedbackText renders each draft as a titled section.
func writeFeedbackText(w io.Writer, drafts []schema.FeedbackDraft, fmtFloat func(float64) string) error {
	for i, d := range drafts {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "--- %s (grade %s, %s) ---\n", d.EmailID, fmtFloat(d.Grade), d.Style); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, d.Body); err != nil {
			return err
		}
	}
	return nil
}

// writeFeedbackCSV writes one row per draft.
func writeFeedbackCSV(w io.Writer, drafts []schema.FeedbackDraft, fmtFloat func(float64) string) error {
	header := []string{"email_id", "grade", "style", "body"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, d := range drafts {
			rec := []string{
				d.EmailID,
				fmtFloat(d.Grade),
				d.Style,
				d.Body,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
