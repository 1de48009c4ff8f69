package feedback

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradeflow/repograde/schema"
)

func sampleRecord() schema.GradeRecord {
	return schema.GradeRecord{
		EmailID: "alice@school.edu",
		RepoURL: "https://github.com/alice/hw1",
		Grade:   80.0,
		Status:  schema.ReadyStatus,
	}
}

func TestTemplateGeneratorAllStyles(t *testing.T) {
	gen := &TemplateGenerator{}
	rec := sampleRecord()

	seen := map[string]bool{}
	for style := range templateBodies {
		body, err := gen.Generate(context.Background(), rec, style)
		require.NoError(t, err)
		assert.Contains(t, body, "80.00%")
		assert.False(t, seen[body], "styles must render distinct drafts")
		seen[body] = true
	}
}

func TestTemplateGeneratorUnknownStyle(t *testing.T) {
	gen := &TemplateGenerator{}
	_, err := gen.Generate(context.Background(), sampleRecord(), schema.FeedbackStyle("sarcastic"))
	assert.Error(t, err)
}

func TestStyleBandsHaveTones(t *testing.T) {
	for _, grade := range []float64{0.0, 54.9, 55.0, 69.9, 70.0, 89.9, 90.0, 100.0} {
		style := schema.StyleForGrade(grade)
		assert.Contains(t, styleTones, style, "grade %v", grade)
		assert.Contains(t, templateBodies, style, "grade %v", grade)
	}
}

type failingGenerator struct{}

func (failingGenerator) Generate(context.Context, schema.GradeRecord, schema.FeedbackStyle) (string, error) {
	return "", fmt.Errorf("model unavailable")
}

func TestFallbackGenerator(t *testing.T) {
	gen := &fallbackGenerator{primary: failingGenerator{}, backup: &TemplateGenerator{}}
	body, err := gen.Generate(context.Background(), sampleRecord(), schema.StrictStyle)
	require.NoError(t, err)
	assert.Contains(t, body, "80.00%")
}

func TestNewGeneratorWithoutAPIKey(t *testing.T) {
	t.Setenv(APIKeyEnv, "")
	gen := NewGenerator(context.Background(), nil)
	_, ok := gen.(*TemplateGenerator)
	assert.True(t, ok, "no API key means template drafts")
}
