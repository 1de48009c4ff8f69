package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/gradeflow/repograde/internal/contract"
	"github.com/gradeflow/repograde/internal/parquet"
	"github.com/gradeflow/repograde/schema"
)

// PrintGradeSummary outputs the batch grading results, dispatching based on
// the output format configured.
func PrintGradeSummary(summary *schema.BatchSummary, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summary)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeGradesCSV(w, summary.Grades, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if err := requireOutputFile(cfg, "parquet"); err != nil {
			return err
		}
		rows := parquet.FromGradeRecords(summary.Grades)
		if err := parquet.WriteGradesParquet(rows, cfg.OutputFile); err != nil {
			return err
		}
		fmt.Printf("Wrote %d grade rows to %s\n", len(rows), cfg.OutputFile)
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeGradeTable(w, summary, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
}

// writeGradeTable renders the per-submission grades and the run summary.
func writeGradeTable(w io.Writer, summary *schema.BatchSummary, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Email", "Grade", "Label", "Status", "Error"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, g := range summary.Grades {
		grade := fmtFloat(g.Grade)
		label := gradeLabel(g.Grade, cfg)
		if !g.IsReady() {
			grade = "-"
			label = "-"
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			g.EmailID,
			grade,
			label,
			string(g.Status),
			contract.TruncatePath(g.Error, 40),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Graded %d submissions, %d failed\n", summary.GradedCount, summary.FailedCount); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Batch completed in %v with %d workers. Store backend: %s\n", duration, cfg.Workers, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}

// writeGradesCSV writes one row per submission, the shape the feedback
// command reads back in.
func writeGradesCSV(w io.Writer, grades []schema.GradeRecord, fmtFloat func(float64) string) error {
	header := []string{"email_id", "repo_url", "grade", "status", "error"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, g := range grades {
			rec := []string{
				g.EmailID,
				g.RepoURL,
				fmtFloat(g.Grade),
				string(g.Status),
				g.Error,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
