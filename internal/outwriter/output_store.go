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

// timeFormat is how store timestamps are rendered in tables and CSV.
const timeFormat = time.RFC3339

// PrintBatchRuns outputs persisted batch runs, dispatching based on the
// output format configured.
func PrintBatchRuns(batches []schema.BatchRunRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, batches)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBatchRunsCSV(w, batches)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if err := requireOutputFile(cfg, "parquet"); err != nil {
			return err
		}
		rows := parquet.FromBatchRuns(batches)
		if err := parquet.WriteBatchRunsParquet(rows, cfg.OutputFile); err != nil {
			return err
		}
		fmt.Printf("Wrote %d batch rows to %s\n", len(rows), cfg.OutputFile)
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBatchRunsTable(w, batches)
		}, "Wrote table")
	}
}

// PrintStoredGrades outputs persisted grade records, dispatching based on the
// output format configured.
func PrintStoredGrades(grades []schema.StoredGradeRecord, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, grades)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStoredGradesCSV(w, grades, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if err := requireOutputFile(cfg, "parquet"); err != nil {
			return err
		}
		rows := parquet.FromStoredGrades(grades)
		if err := parquet.WriteStoredGradesParquet(rows, cfg.OutputFile); err != nil {
			return err
		}
		fmt.Printf("Wrote %d grade rows to %s\n", len(rows), cfg.OutputFile)
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStoredGradesTable(w, grades, cfg, fmtFloat)
		}, "Wrote table")
	}
}

// PrintStoreStatus outputs grade store status information.
func PrintStoreStatus(status schema.StoreStatus, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON")
	}

	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, "Backend: %s\n", status.Backend); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "Connected: %t\n", status.Connected); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "Batches: %d, grades: %d\n", status.TotalBatches, status.TotalGrades); err != nil {
			return err
		}
		if !status.LastBatchTime.IsZero() {
			if _, err := fmt.Fprintf(w, "Last batch: %s\n", status.LastBatchTime.Format(timeFormat)); err != nil {
				return err
			}
		}
		if !status.OldestBatchTime.IsZero() {
			if _, err := fmt.Fprintf(w, "Oldest batch: %s\n", status.OldestBatchTime.Format(timeFormat)); err != nil {
				return err
			}
		}
		return nil
	}, "Wrote status")
}

// writeBatchRunsTable renders the batch run listing.
func writeBatchRunsTable(w io.Writer, batches []schema.BatchRunRecord) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Batch", "Start", "End", "Graded", "Failed"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, b := range batches {
		end := "-"
		if b.EndTime != nil {
			end = b.EndTime.Format(timeFormat)
		}
		data = append(data, []string{
			strconv.FormatInt(b.BatchID, 10),
			b.StartTime.Format(timeFormat),
			end,
			strconv.Itoa(int(b.GradedCount)),
			strconv.Itoa(int(b.FailedCount)),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d batch runs\n", len(batches))
	return err
}

// writeStoredGradesTable renders the persisted grade listing.
func writeStoredGradesTable(w io.Writer, grades []schema.StoredGradeRecord, cfg *contract.Config, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Batch", "Email", "Grade", "Label", "Status", "Recorded"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, g := range grades {
		data = append(data, []string{
			strconv.FormatInt(g.BatchID, 10),
			g.EmailID,
			fmtFloat(g.Grade),
			gradeLabel(g.Grade, cfg),
			g.Status,
			g.RecordedAt.Format(timeFormat),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d grade records\n", len(grades))
	return err
}

// writeBatchRunsCSV writes one row per batch run.
func writeBatchRunsCSV(w io.Writer, batches []schema.BatchRunRecord) error {
	header := []string{"batch_id", "start_time", "end_time", "graded_count", "failed_count", "config_params"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, b := range batches {
			end := ""
			if b.EndTime != nil {
				end = b.EndTime.Format(timeFormat)
			}
			params := ""
			if b.ConfigParams != nil {
				params = *b.ConfigParams
			}
			rec := []string{
				strconv.FormatInt(b.BatchID, 10),
				b.StartTime.Format(timeFormat),
				end,
				strconv.Itoa(int(b.GradedCount)),
				strconv.Itoa(int(b.FailedCount)),
				params,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeStoredGradesCSV writes one row per persisted grade.
func writeStoredGradesCSV(w io.Writer, grades []schema.StoredGradeRecord, fmtFloat func(float64) string) error {
	header := []string{"batch_id", "email_id", "repo_url", "grade", "status", "error", "recorded_at"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, g := range grades {
			errMsg := ""
			if g.Error != nil {
				errMsg = *g.Error
			}
			rec := []string{
				strconv.FormatInt(g.BatchID, 10),
				g.EmailID,
				g.RepoURL,
				fmtFloat(g.Grade),
				g.Status,
				errMsg,
				g.RecordedAt.Format(timeFormat),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
