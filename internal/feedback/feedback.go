// Package feedback generates reply drafts for graded submissions, either
// through the Gemini API or a local template fallback.
package feedback

import (
	"context"
	"fmt"
	"os"

	"github.com/gradeflow/repograde/internal/contract"
	"github.com/gradeflow/repograde/schema"
)

// DefaultModel is used when no feedback model is configured.
const DefaultModel = "gemini-2.0-flash"

// APIKeyEnv is the environment variable holding the Gemini API key.
const APIKeyEnv = "GEMINI_API_KEY"

// styleTones holds the persona instruction for each feedback style.
var styleTones = map[schema.FeedbackStyle]string{
	schema.StrictStyle:       "You are a strict grader. Be firm and unambiguous about what must change before the next submission.",
	schema.DirectStyle:       "You are a direct grader. State the problems plainly and say exactly what to fix.",
	schema.ConstructiveStyle: "You are a constructive grader. Acknowledge what works, then explain the structural problems and how to address them.",
	schema.EncouragingStyle:  "You are an encouraging grader. Celebrate the result and offer one or two light suggestions.",
}

// templateBodies holds the local fallback draft for each feedback style.
// The single format argument is the grade.
var templateBodies = map[schema.FeedbackStyle]string{
	schema.StrictStyle: "Your submission scored a structure penalty of %.2f%%. Nearly all of your code " +
		"sits in files over the line limit. Split those files into focused modules and resubmit; " +
		"this must be fixed before the next assignment is accepted.",
	schema.DirectStyle: "Your submission scored a structure penalty of %.2f%%. Most of your code lives in " +
		"oversized files. Break the largest files into smaller modules, each with a single responsibility.",
	schema.ConstructiveStyle: "Your submission scored a structure penalty of %.2f%%. The logic works, but a " +
		"good share of it is concentrated in files over the line limit. Try extracting helpers into their own " +
		"modules; it will make the code easier to review and test.",
	schema.EncouragingStyle: "Your submission scored a structure penalty of %.2f%%. Your files are well sized " +
		"and the code is easy to navigate. Keep structuring your work this way.",
}

// NewGenerator builds the feedback generator for the given config. When a
// Gemini API key is available the drafts come from the model with the local
// template as fallback; otherwise the template alone is used.
func NewGenerator(ctx context.Context, cfg *contract.Config) contract.FeedbackGenerator {
	template := &TemplateGenerator{}

	apiKey := os.Getenv(APIKeyEnv)
	if apiKey == "" {
		return template
	}

	gemini, err := NewGeminiGenerator(ctx, apiKey, cfg.FeedbackModel)
	if err != nil {
		contract.LogWarn("Cannot initialize Gemini client, using template drafts", err)
		return template
	}
	return &fallbackGenerator{primary: gemini, backup: template}
}

// TemplateGenerator renders local drafts without any external calls.
type TemplateGenerator struct{}

var _ contract.FeedbackGenerator = &TemplateGenerator{} // Compile-time check

// Generate renders the template draft for the style.
func (tg *TemplateGenerator) Generate(_ context.Context, rec schema.GradeRecord, style schema.FeedbackStyle) (string, error) {
	body, ok := templateBodies[style]
	if !ok {
		return "", fmt.Errorf("unknown feedback style: %s", style)
	}
	return fmt.Sprintf(body, rec.Grade), nil
}

// fallbackGenerator tries the primary generator and falls back on error, so
// a model outage never blocks a feedback run.
type fallbackGenerator struct {
	primary contract.FeedbackGenerator
	backup  contract.FeedbackGenerator
}

func (fg *fallbackGenerator) Generate(ctx context.Context, rec schema.GradeRecord, style schema.FeedbackStyle) (string, error) {
	body, err := fg.primary.Generate(ctx, rec, style)
	if err != nil {
		contract.LogWarn("Falling back to template draft for "+rec.EmailID, err)
		return fg.backup.Generate(ctx, rec, style)
	}
	return body, nil
}
