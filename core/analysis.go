package core

import (
	"context"

	"github.com/gradeflow/repograde/internal/contract"
	"github.com/gradeflow/repograde/schema"
)

// AnalyzeRepository scans and grades a single repository tree. It never
// returns an error: any failure to access the tree becomes a Failed result,
// so batch callers can record it and keep going.
func AnalyzeRepository(ctx context.Context, cfg *contract.Config, repoPath string) *schema.AnalysisResult {
	files, err := ScanRepository(ctx, cfg, repoPath)
	if err != nil {
		return schema.NewFailedResult(err)
	}
	return CalculateGrade(cfg, files)
}
