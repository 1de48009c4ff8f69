package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gradeflow/repograde/internal/contract"
	"github.com/gradeflow/repograde/schema"
)

func gradingConfig(threshold int) *contract.Config {
	return &contract.Config{LineThreshold: threshold}
}

func TestCalculateGradeMixed(t *testing.T) {
	files := []schema.SourceFile{
		{Path: "small.py", EffectiveLines: 50},
		{Path: "big.py", EffectiveLines: 200},
	}

	result := CalculateGrade(gradingConfig(150), files)

	assert.Equal(t, 2, result.TotalFiles)
	assert.Equal(t, 250, result.TotalLines)
	// The full 200 lines of the oversized file count, not just the overage
	assert.Equal(t, 200, result.LinesAboveThreshold)
	assert.InDelta(t, 80.0, result.Grade, 1e-9)
	assert.Equal(t, schema.SuccessStatus, result.Status)
	assert.False(t, result.FileDetails[0].AboveThreshold)
	assert.True(t, result.FileDetails[1].AboveThreshold)
}

func TestCalculateGradeThresholdBoundary(t *testing.T) {
	files := []schema.SourceFile{
		{Path: "exact.py", EffectiveLines: 150},
		{Path: "over.py", EffectiveLines: 151},
	}

	result := CalculateGrade(gradingConfig(150), files)

	assert.False(t, result.FileDetails[0].AboveThreshold, "file at threshold is compliant")
	assert.True(t, result.FileDetails[1].AboveThreshold)
	assert.Equal(t, 151, result.LinesAboveThreshold)
}

func TestCalculateGradeEmpty(t *testing.T) {
	result := CalculateGrade(gradingConfig(150), nil)

	assert.Zero(t, result.TotalFiles)
	assert.Zero(t, result.TotalLines)
	assert.Zero(t, result.Grade)
	assert.Equal(t, schema.SuccessStatus, result.Status)
	assert.NotNil(t, result.FileDetails)
}

func TestCalculateGradeZeroLineFiles(t *testing.T) {
	files := []schema.SourceFile{
		{Path: "empty.py", EffectiveLines: 0},
		{Path: "also_empty.py", EffectiveLines: 0},
	}

	result := CalculateGrade(gradingConfig(150), files)
	assert.Equal(t, 2, result.TotalFiles)
	assert.Zero(t, result.Grade, "no effective lines means nothing to penalize")
}

func TestCalculateGradeBounds(t *testing.T) {
	allOver := []schema.SourceFile{
		{Path: "a.py", EffectiveLines: 300},
		{Path: "b.py", EffectiveLines: 400},
	}
	result := CalculateGrade(gradingConfig(150), allOver)
	assert.InDelta(t, 100.0, result.Grade, 1e-9)

	allUnder := []schema.SourceFile{
		{Path: "a.py", EffectiveLines: 30},
		{Path: "b.py", EffectiveLines: 40},
	}
	result = CalculateGrade(gradingConfig(150), allUnder)
	assert.Zero(t, result.Grade)
}

func TestCalculateGradeRounding(t *testing.T) {
	files := []schema.SourceFile{
		{Path: "a.py", EffectiveLines: 100},
		{Path: "b.py", EffectiveLines: 200},
	}

	// 200/300 = 66.666... rounds to 66.67
	result := CalculateGrade(gradingConfig(150), files)
	assert.InDelta(t, 66.67, result.Grade, 1e-9)
}

func TestCalculateGradePreservesInputOrder(t *testing.T) {
	files := []schema.SourceFile{
		{Path: "z.py", EffectiveLines: 10},
		{Path: "a.py", EffectiveLines: 20},
		{Path: "m.py", EffectiveLines: 30},
	}

	result := CalculateGrade(gradingConfig(150), files)
	assert.Equal(t, "z.py", result.FileDetails[0].Path)
	assert.Equal(t, "a.py", result.FileDetails[1].Path)
	assert.Equal(t, "m.py", result.FileDetails[2].Path)
}
