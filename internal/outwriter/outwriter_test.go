package outwriter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradeflow/repograde/internal/contract"
	"github.com/gradeflow/repograde/schema"
)

// outputConfig builds a config writing to a temp file in the given format.
func outputConfig(t *testing.T, output schema.OutputMode, ext string) *contract.Config {
	t.Helper()
	return &contract.Config{
		Output:        output,
		OutputFile:    filepath.Join(t.TempDir(), "out"+ext),
		Precision:     2,
		Workers:       2,
		LineThreshold: 150,
		Width:         100,
	}
}

func sampleResult() *schema.AnalysisResult {
	return &schema.AnalysisResult{
		TotalFiles:          2,
		TotalLines:          250,
		LinesAboveThreshold: 200,
		Grade:               80.0,
		FileDetails: []schema.SourceFile{
			{Path: "small.py", RawLines: 60, EffectiveLines: 50},
			{Path: "big.py", RawLines: 220, EffectiveLines: 200, AboveThreshold: true},
		},
		Status: schema.SuccessStatus,
	}
}

func sampleSummary() *schema.BatchSummary {
	return &schema.BatchSummary{
		Grades: []schema.GradeRecord{
			{EmailID: "alice@school.edu", RepoURL: "https://github.com/alice/hw1", Grade: 80.0, Status: schema.ReadyStatus},
			{EmailID: "eve@school.edu", RepoURL: "https://github.com/eve/hw1", Status: schema.FailedStatus, Error: "clone failed"},
		},
		GradedCount: 1,
		FailedCount: 1,
	}
}

func readOutput(t *testing.T, cfg *contract.Config) string {
	t.Helper()
	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	return string(data)
}

func TestPrintAnalysisResultText(t *testing.T) {
	cfg := outputConfig(t, schema.TextOut, ".txt")
	cfg.Detail = true

	require.NoError(t, PrintAnalysisResult(sampleResult(), cfg, time.Second))

	out := readOutput(t, cfg)
	assert.Contains(t, out, "Grade: 80.00")
	assert.Contains(t, out, "Critical")
	assert.Contains(t, out, "big.py")
	assert.Contains(t, out, "threshold 150")
	assert.Contains(t, out, "2 workers")
}

func TestPrintAnalysisResultJSON(t *testing.T) {
	cfg := outputConfig(t, schema.JSONOut, ".json")
	require.NoError(t, PrintAnalysisResult(sampleResult(), cfg, time.Second))

	var got schema.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(readOutput(t, cfg)), &got))
	assert.InDelta(t, 80.0, got.Grade, 1e-9)
	assert.Len(t, got.FileDetails, 2)
}

func TestPrintAnalysisResultCSV(t *testing.T) {
	cfg := outputConfig(t, schema.CSVOut, ".csv")
	require.NoError(t, PrintAnalysisResult(sampleResult(), cfg, time.Second))

	out := readOutput(t, cfg)
	assert.Contains(t, out, "file,raw_lines,effective_lines,above_threshold")
	assert.Contains(t, out, "big.py,220,200,true")
	assert.Contains(t, out, "small.py,60,50,false")
}

func TestPrintAnalysisResultParquet(t *testing.T) {
	cfg := outputConfig(t, schema.ParquetOut, ".parquet")
	require.NoError(t, PrintAnalysisResult(sampleResult(), cfg, time.Second))

	info, err := os.Stat(cfg.OutputFile)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	// Parquet cannot stream to stdout
	cfg.OutputFile = ""
	assert.Error(t, PrintAnalysisResult(sampleResult(), cfg, time.Second))
}

func TestPrintGradeSummaryText(t *testing.T) {
	cfg := outputConfig(t, schema.TextOut, ".txt")
	require.NoError(t, PrintGradeSummary(sampleSummary(), cfg, time.Second))

	out := readOutput(t, cfg)
	assert.Contains(t, out, "alice@school.edu")
	assert.Contains(t, out, "80.00")
	assert.Contains(t, out, "clone failed")
	assert.Contains(t, out, "Graded 1 submissions, 1 failed")
}

func TestPrintGradeSummaryCSV(t *testing.T) {
	cfg := outputConfig(t, schema.CSVOut, ".csv")
	require.NoError(t, PrintGradeSummary(sampleSummary(), cfg, time.Second))

	out := readOutput(t, cfg)
	assert.Contains(t, out, "email_id,repo_url,grade,status,error")
	assert.Contains(t, out, "alice@school.edu,https://github.com/alice/hw1,80.00,Ready,")
	assert.Contains(t, out, "eve@school.edu,https://github.com/eve/hw1,0.00,Failed,clone failed")
}

func TestPrintFeedbackDrafts(t *testing.T) {
	drafts := []schema.FeedbackDraft{
		{EmailID: "alice@school.edu", Grade: 80.0, Style: "direct", Body: "Split up big.py."},
		{EmailID: "bob@school.edu", Grade: 10.0, Style: "encouraging", Body: "Nice work."},
	}

	cfg := outputConfig(t, schema.TextOut, ".txt")
	require.NoError(t, PrintFeedbackDrafts(drafts, cfg))
	out := readOutput(t, cfg)
	assert.Contains(t, out, "--- alice@school.edu (grade 80.00, direct) ---")
	assert.Contains(t, out, "Split up big.py.")
	assert.Contains(t, out, "Nice work.")

	cfg = outputConfig(t, schema.ParquetOut, ".parquet")
	assert.Error(t, PrintFeedbackDrafts(drafts, cfg))
}

func TestPrintBatchRuns(t *testing.T) {
	end := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	batches := []schema.BatchRunRecord{
		{BatchID: 1, StartTime: end.Add(-time.Minute), EndTime: &end, GradedCount: 9, FailedCount: 1},
		{BatchID: 2, StartTime: end.Add(time.Hour)},
	}

	cfg := outputConfig(t, schema.TextOut, ".txt")
	require.NoError(t, PrintBatchRuns(batches, cfg))
	out := readOutput(t, cfg)
	assert.Contains(t, out, "Showing 2 batch runs")

	cfg = outputConfig(t, schema.CSVOut, ".csv")
	require.NoError(t, PrintBatchRuns(batches, cfg))
	out = readOutput(t, cfg)
	assert.Contains(t, out, "batch_id,start_time,end_time,graded_count,failed_count,config_params")
	assert.Contains(t, out, "1,")
}

func TestPrintStoredGrades(t *testing.T) {
	grades := []schema.StoredGradeRecord{
		{BatchID: 1, EmailID: "alice@school.edu", RepoURL: "https://github.com/alice/hw1", Grade: 42.5, Status: "Ready", RecordedAt: time.Now()},
	}

	cfg := outputConfig(t, schema.TextOut, ".txt")
	require.NoError(t, PrintStoredGrades(grades, cfg))
	out := readOutput(t, cfg)
	assert.Contains(t, out, "alice@school.edu")
	assert.Contains(t, out, "42.50")
	assert.Contains(t, out, "Showing 1 grade records")
}

func TestPrintStoreStatus(t *testing.T) {
	status := schema.StoreStatus{
		Backend:      "sqlite",
		Connected:    true,
		TotalBatches: 3,
		TotalGrades:  27,
	}

	cfg := outputConfig(t, schema.TextOut, ".txt")
	require.NoError(t, PrintStoreStatus(status, cfg))
	out := readOutput(t, cfg)
	assert.Contains(t, out, "Backend: sqlite")
	assert.Contains(t, out, "Batches: 3, grades: 27")

	cfg = outputConfig(t, schema.JSONOut, ".json")
	require.NoError(t, PrintStoreStatus(status, cfg))
	var got schema.StoreStatus
	require.NoError(t, json.Unmarshal([]byte(readOutput(t, cfg)), &got))
	assert.Equal(t, int64(27), got.TotalGrades)
}

func TestGetMaxTablePathWidth(t *testing.T) {
	assert.Equal(t, 55, GetMaxTablePathWidth(&contract.Config{Width: 100}))
	assert.Equal(t, 15, GetMaxTablePathWidth(&contract.Config{Width: 40}), "narrow terminals floor at 15")
	assert.Equal(t, 70, GetMaxTablePathWidth(&contract.Config{Width: 500}), "wide terminals cap at 70")
}
