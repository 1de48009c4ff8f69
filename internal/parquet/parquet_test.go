package parquet

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradeflow/repograde/schema"
)

func TestFromSourceFiles(t *testing.T) {
	files := []schema.SourceFile{
		{Path: "src/main.py", RawLines: 120, EffectiveLines: 90},
		{Path: "src/big.py", RawLines: 300, EffectiveLines: 250, AboveThreshold: true},
	}

	rows := FromSourceFiles("/tmp/repo", files)
	require.Len(t, rows, 2)
	assert.Equal(t, "/tmp/repo", rows[0].RepoPath)
	assert.Equal(t, int32(90), rows[0].EffectiveLines)
	assert.True(t, rows[1].AboveThreshold)
}

func TestFromGradeRecords(t *testing.T) {
	grades := []schema.GradeRecord{
		{EmailID: "alice@school.edu", RepoURL: "https://github.com/alice/hw1", Grade: 80.0, Status: schema.ReadyStatus},
		{EmailID: "eve@school.edu", Status: schema.FailedStatus, Error: "clone failed"},
	}

	rows := FromGradeRecords(grades)
	require.Len(t, rows, 2)
	assert.Nil(t, rows[0].Error)
	require.NotNil(t, rows[1].Error)
	assert.Equal(t, "clone failed", *rows[1].Error)
}

func TestWriteGradesParquetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grades.parquet")
	rows := FromGradeRecords([]schema.GradeRecord{
		{EmailID: "alice@school.edu", RepoURL: "https://github.com/alice/hw1", Grade: 66.67, Status: schema.ReadyStatus},
	})

	require.NoError(t, WriteGradesParquet(rows, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	info, err := f.Stat()
	require.NoError(t, err)

	reader := parquet.NewGenericReader[GradeRow](f)
	defer func() { _ = reader.Close() }()

	got := make([]GradeRow, 1)
	n, _ := reader.Read(got)
	require.Equal(t, 1, n)
	assert.Equal(t, "alice@school.edu", got[0].EmailID)
	assert.InDelta(t, 66.67, got[0].Grade, 1e-9)
	assert.Positive(t, info.Size())
}

func TestWriteBatchRunsParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batches.parquet")
	end := time.Now()
	params := `{"threshold":150}`
	rows := FromBatchRuns([]schema.BatchRunRecord{
		{BatchID: 1, StartTime: end.Add(-time.Minute), EndTime: &end, GradedCount: 9, FailedCount: 1, ConfigParams: &params},
	})

	require.NoError(t, WriteBatchRunsParquet(rows, path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
