package core

import (
	"github.com/gradeflow/repograde/internal/contract"
	"github.com/gradeflow/repograde/schema"
)

// CalculateGrade computes the penalty grade for a scanned repository: the
// percentage of effective lines that live in files strictly above the line
// threshold. Files at exactly the threshold are compliant. An empty
// repository grades 0.0, since there is nothing to penalize.
func CalculateGrade(cfg *contract.Config, files []schema.SourceFile) *schema.AnalysisResult {
	totalLines := 0
	linesAbove := 0

	details := make([]schema.SourceFile, len(files))
	for i, sf := range files {
		sf.AboveThreshold = sf.EffectiveLines > cfg.LineThreshold
		totalLines += sf.EffectiveLines
		if sf.AboveThreshold {
			// The whole file counts against the grade, not just the overage
			linesAbove += sf.EffectiveLines
		}
		details[i] = sf
	}

	grade := 0.0
	if totalLines > 0 {
		grade = schema.Round2(float64(linesAbove) / float64(totalLines) * 100)
	}

	return &schema.AnalysisResult{
		TotalFiles:          len(details),
		TotalLines:          totalLines,
		LinesAboveThreshold: linesAbove,
		Grade:               grade,
		FileDetails:         details,
		Status:              schema.SuccessStatus,
	}
}
