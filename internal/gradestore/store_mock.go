package gradestore

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gradeflow/repograde/internal/contract"
	"github.com/gradeflow/repograde/schema"
)

// MockGradeStore is an in-memory GradeStore for tests and dry runs.
type MockGradeStore struct {
	mu      sync.Mutex
	nextID  int64
	batches map[int64]*schema.BatchRunRecord
	grades  []schema.StoredGradeRecord
}

var _ contract.GradeStore = &MockGradeStore{} // Compile-time check

// NewMockGradeStore creates an empty in-memory store.
func NewMockGradeStore() *MockGradeStore {
	return &MockGradeStore{batches: make(map[int64]*schema.BatchRunRecord)}
}

// BeginBatch creates a new batch run and returns its unique ID.
func (ms *MockGradeStore) BeginBatch(startTime time.Time, configParams map[string]any) (int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.nextID++
	record := &schema.BatchRunRecord{BatchID: ms.nextID, StartTime: startTime}
	if configParams != nil {
		if data, err := json.Marshal(configParams); err == nil {
			s := string(data)
			record.ConfigParams = &s
		}
	}
	ms.batches[ms.nextID] = record
	return ms.nextID, nil
}

// EndBatch updates the batch run with completion data.
func (ms *MockGradeStore) EndBatch(batchID int64, endTime time.Time, graded, failed int) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if b, ok := ms.batches[batchID]; ok {
		b.EndTime = &endTime
		b.GradedCount = int32(graded)
		b.FailedCount = int32(failed)
	}
	return nil
}

// RecordGrade stores one grade record under the given batch.
func (ms *MockGradeStore) RecordGrade(batchID int64, rec schema.GradeRecord) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	stored := schema.StoredGradeRecord{
		BatchID:    batchID,
		EmailID:    rec.EmailID,
		RepoURL:    rec.RepoURL,
		Grade:      rec.Grade,
		Status:     string(rec.Status),
		RecordedAt: time.Now(),
	}
	if rec.Error != "" {
		errCopy := rec.Error
		stored.Error = &errCopy
	}
	ms.grades = append(ms.grades, stored)
	return nil
}

// ListBatches returns all batch runs ordered by ID.
func (ms *MockGradeStore) ListBatches() ([]schema.BatchRunRecord, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	results := make([]schema.BatchRunRecord, 0, len(ms.batches))
	for id := int64(1); id <= ms.nextID; id++ {
		if b, ok := ms.batches[id]; ok {
			results = append(results, *b)
		}
	}
	return results, nil
}

// ListGrades returns grade records, optionally filtered by batch ID.
func (ms *MockGradeStore) ListGrades(batchID int64) ([]schema.StoredGradeRecord, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var results []schema.StoredGradeRecord
	for _, g := range ms.grades {
		if batchID > 0 && g.BatchID != batchID {
			continue
		}
		results = append(results, g)
	}
	return results, nil
}

// GetStatus returns status information about the in-memory store.
func (ms *MockGradeStore) GetStatus() (schema.StoreStatus, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	status := schema.StoreStatus{
		Backend:      "mock",
		Connected:    true,
		TotalBatches: int64(len(ms.batches)),
		TotalGrades:  int64(len(ms.grades)),
	}
	for id := int64(1); id <= ms.nextID; id++ {
		if b, ok := ms.batches[id]; ok {
			if status.OldestBatchTime.IsZero() {
				status.OldestBatchTime = b.StartTime
			}
			status.LastBatchTime = b.StartTime
		}
	}
	return status, nil
}

// Close is a no-op for the in-memory store.
func (ms *MockGradeStore) Close() error {
	return nil
}
