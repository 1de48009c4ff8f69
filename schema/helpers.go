package schema

import "math"

// Round2 rounds a float to two decimal places. Grades are reported with two
// decimals everywhere: output sheets, the store, and feedback prompts.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// NewFailedResult builds the structured result used when a repository cannot
// be analyzed at all. Batch callers record it instead of propagating the
// underlying error, so one bad repository never aborts a grading run.
func NewFailedResult(err error) *AnalysisResult {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &AnalysisResult{
		Grade:       0.0,
		FileDetails: []SourceFile{},
		Status:      FailedStatus,
		Error:       msg,
	}
}
