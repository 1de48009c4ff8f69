package feedback

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/gradeflow/repograde/schema"
)

// GeminiGenerator drafts feedback through the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini-backed generator. The model defaults
// to DefaultModel when empty.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiGenerator{client: client, model: model}, nil
}

// Generate asks the model for a short feedback draft in the given style.
func (gg *GeminiGenerator) Generate(ctx context.Context, rec schema.GradeRecord, style schema.FeedbackStyle) (string, error) {
	tone, ok := styleTones[style]
	if !ok {
		return "", fmt.Errorf("unknown feedback style: %s", style)
	}

	systemInstruction := genai.Text(tone +
		" Write a short email body of at most three sentences for a student. " +
		"The grade is a structure penalty from 0 to 100 where higher means more code " +
		"in oversized files. Do not include a subject line or signature.")[0]

	prompt := fmt.Sprintf(
		"Student: %s\nRepository: %s\nStructure penalty: %.2f%%\nDraft the feedback.",
		rec.EmailID, rec.RepoURL, rec.Grade)

	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction,
		Temperature:       ptrFloat32(0.4),
		MaxOutputTokens:   400,
	}

	resp, err := gg.client.Models.GenerateContent(ctx, gg.model, genai.Text(prompt), genConfig)
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned an empty response")
	}

	body := strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text)
	if body == "" {
		return "", fmt.Errorf("gemini returned an empty draft")
	}
	return body, nil
}

func ptrFloat32(f float32) *float32 {
	return &f
}
