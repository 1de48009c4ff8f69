package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradeflow/repograde/schema"
)

// fakeCloner materializes a single-file repository per known URL and fails
// for unknown ones.
type fakeCloner struct {
	mu      sync.Mutex
	lines   map[string]int // URL -> countable lines in the cloned repo
	cleaned []string
}

func (f *fakeCloner) Clone(_ context.Context, repoURL string) (string, error) {
	f.mu.Lock()
	n, ok := f.lines[repoURL]
	f.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("git clone %s failed: repository not found", repoURL)
	}

	dir, err := os.MkdirTemp("", "fake-clone-")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, "main.py"), []byte(pyLines(n)), 0o644); err != nil {
		return "", err
	}
	return dir, nil
}

func (f *fakeCloner) Cleanup(clonePath string) error {
	f.mu.Lock()
	f.cleaned = append(f.cleaned, clonePath)
	f.mu.Unlock()
	return os.RemoveAll(clonePath)
}

// stubStore records store calls for assertions.
type stubStore struct {
	mu       sync.Mutex
	batchID  int64
	began    int
	ended    int
	recorded []schema.GradeRecord
}

func (s *stubStore) BeginBatch(_ time.Time, _ map[string]any) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.began++
	s.batchID = 7
	return s.batchID, nil
}

func (s *stubStore) EndBatch(_ int64, _ time.Time, _, _ int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ended++
	return nil
}

func (s *stubStore) RecordGrade(_ int64, rec schema.GradeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorded = append(s.recorded, rec)
	return nil
}

func (s *stubStore) ListBatches() ([]schema.BatchRunRecord, error)        { return nil, nil }
func (s *stubStore) ListGrades(int64) ([]schema.StoredGradeRecord, error) { return nil, nil }
func (s *stubStore) GetStatus() (schema.StoreStatus, error)               { return schema.StoreStatus{}, nil }
func (s *stubStore) Close() error                                         { return nil }

func writeSubmissionsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "submissions.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadSubmissions(t *testing.T) {
	path := writeSubmissionsFile(t,
		"email_id,repo_url\n"+
			"alice@school.edu,https://github.com/alice/hw1\n"+
			"bob@school.edu,https://github.com/bob/hw1\n"+
			"carol@school.edu,\n")

	subs, err := ReadSubmissions(path)
	require.NoError(t, err)
	require.Len(t, subs, 3)

	assert.Equal(t, "alice@school.edu", subs[0].EmailID)
	assert.Equal(t, "https://github.com/alice/hw1", subs[0].RepoURL)
	assert.Equal(t, schema.ReadyStatus, subs[0].Status)
	assert.Equal(t, schema.FailedStatus, subs[2].Status, "missing URL fails the row")
}

func TestReadSubmissionsNoHeader(t *testing.T) {
	path := writeSubmissionsFile(t, "alice@school.edu,https://github.com/alice/hw1\n")

	subs, err := ReadSubmissions(path)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "alice@school.edu", subs[0].EmailID)
}

func TestReadSubmissionsHeaderlessAddressWithID(t *testing.T) {
	// "david" contains "id"; the address must still be read as data
	path := writeSubmissionsFile(t, "david@example.com,https://github.com/d/hw\n")

	subs, err := ReadSubmissions(path)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "david@example.com", subs[0].EmailID)
	assert.Equal(t, schema.ReadyStatus, subs[0].Status)
}

func TestReadSubmissionsErrors(t *testing.T) {
	_, err := ReadSubmissions(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	empty := writeSubmissionsFile(t, "email_id,repo_url\n")
	_, err = ReadSubmissions(empty)
	assert.Error(t, err)
}

func TestGradeSubmissions(t *testing.T) {
	cfg := newTestConfig(t)
	cloner := &fakeCloner{lines: map[string]int{
		"https://github.com/alice/hw1": 200, // One oversized file grades 100.0
		"https://github.com/bob/hw1":   50,  // One compliant file grades 0.0
	}}
	store := &stubStore{}
	subs := []schema.SubmissionRecord{
		{EmailID: "alice@school.edu", RepoURL: "https://github.com/alice/hw1", Status: schema.ReadyStatus},
		{EmailID: "bob@school.edu", RepoURL: "https://github.com/bob/hw1", Status: schema.ReadyStatus},
		{EmailID: "eve@school.edu", RepoURL: "https://github.com/eve/missing", Status: schema.ReadyStatus},
	}

	summary, err := GradeSubmissions(context.Background(), cfg, cloner, store, subs)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.GradedCount)
	assert.Equal(t, 1, summary.FailedCount)
	require.Len(t, summary.Grades, 3)

	// Input order is preserved regardless of worker scheduling
	assert.Equal(t, "alice@school.edu", summary.Grades[0].EmailID)
	assert.InDelta(t, 100.0, summary.Grades[0].Grade, 1e-9)
	assert.Equal(t, schema.ReadyStatus, summary.Grades[0].Status)

	assert.Equal(t, "bob@school.edu", summary.Grades[1].EmailID)
	assert.Zero(t, summary.Grades[1].Grade)

	assert.Equal(t, schema.FailedStatus, summary.Grades[2].Status)
	assert.Contains(t, summary.Grades[2].Error, "clone")
	assert.Zero(t, summary.Grades[2].Grade)

	// Clones were cleaned up and the store saw the whole run
	assert.Len(t, cloner.cleaned, 2)
	assert.Equal(t, 1, store.began)
	assert.Equal(t, 1, store.ended)
	assert.Len(t, store.recorded, 3)
}

func TestGradeSubmissionsWithoutStore(t *testing.T) {
	cfg := newTestConfig(t)
	cloner := &fakeCloner{lines: map[string]int{
		"https://github.com/alice/hw1": 10,
	}}
	subs := []schema.SubmissionRecord{
		{EmailID: "alice@school.edu", RepoURL: "https://github.com/alice/hw1", Status: schema.ReadyStatus},
	}

	summary, err := GradeSubmissions(context.Background(), cfg, cloner, nil, subs)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.GradedCount)
}

func TestGradeSubmissionsKeepClones(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.KeepClones = true
	cloner := &fakeCloner{lines: map[string]int{
		"https://github.com/alice/hw1": 10,
	}}
	subs := []schema.SubmissionRecord{
		{EmailID: "alice@school.edu", RepoURL: "https://github.com/alice/hw1", Status: schema.ReadyStatus},
	}

	summary, err := GradeSubmissions(context.Background(), cfg, cloner, nil, subs)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.GradedCount)
	assert.Empty(t, cloner.cleaned)
}

func TestGradeSubmissionsBadRow(t *testing.T) {
	cfg := newTestConfig(t)
	subs := []schema.SubmissionRecord{
		{EmailID: "dave@school.edu", Status: schema.FailedStatus},
	}

	summary, err := GradeSubmissions(context.Background(), cfg, &fakeCloner{}, nil, subs)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.FailedCount)
	assert.Contains(t, summary.Grades[0].Error, "missing email ID or repository URL")
}

func TestGradeSubmissionsEmpty(t *testing.T) {
	_, err := GradeSubmissions(context.Background(), newTestConfig(t), &fakeCloner{}, nil, nil)
	assert.Error(t, err)
}
