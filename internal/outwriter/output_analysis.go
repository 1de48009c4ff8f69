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

// PrintAnalysisResult outputs a single-repository analysis, dispatching based
// on the output format configured.
func PrintAnalysisResult(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAnalysisCSV(w, result, intFmt)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if err := requireOutputFile(cfg, "parquet"); err != nil {
			return err
		}
		rows := parquet.FromSourceFiles(cfg.RepoPath, result.FileDetails)
		if err := parquet.WriteFileDetailsParquet(rows, cfg.OutputFile); err != nil {
			return err
		}
		fmt.Printf("Wrote %d file rows to %s\n", len(rows), cfg.OutputFile)
		return nil
	default:
		// Default to human-readable report
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAnalysisReport(w, result, cfg, fmtFloat, intFmt, duration)
		}, "Wrote report")
	}
}

// writeAnalysisReport generates the human-readable summary plus an optional
// per-file table.
func writeAnalysisReport(w io.Writer, result *schema.AnalysisResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	if cfg.Detail && len(result.FileDetails) > 0 {
		if err := writeFileDetailTable(w, result, cfg, fmtFloat, intFmt); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "Grade: %s (%s)\n", fmtFloat(result.Grade), gradeLabel(result.Grade, cfg)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Files: %d, effective lines: %d, lines in oversized files: %d (threshold %d)\n",
		result.TotalFiles, result.TotalLines, result.LinesAboveThreshold, cfg.LineThreshold); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Analysis completed in %v with %d workers\n", duration, cfg.Workers); err != nil {
		return err
	}
	return nil
}

// writeFileDetailTable renders the per-file breakdown.
func writeFileDetailTable(w io.Writer, result *schema.AnalysisResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Path", "Effective", "Raw", "Oversized"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	maxPathWidth := GetMaxTablePathWidth(cfg)
	var data [][]string
	for i, f := range result.FileDetails {
		over := ""
		if f.AboveThreshold {
			over = "yes"
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(f.Path, maxPathWidth),
			fmt.Sprintf(intFmt, f.EffectiveLines),
			fmt.Sprintf(intFmt, f.RawLines),
			over,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeAnalysisCSV writes per-file rows followed by nothing else; the
// result-level fields live in the JSON format.
func writeAnalysisCSV(w io.Writer, result *schema.AnalysisResult, intFmt string) error {
	header := []string{"file", "raw_lines", "effective_lines", "above_threshold"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, f := range result.FileDetails {
			rec := []string{
				f.Path,
				fmt.Sprintf(intFmt, f.RawLines),
				fmt.Sprintf(intFmt, f.EffectiveLines),
				strconv.FormatBool(f.AboveThreshold),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
