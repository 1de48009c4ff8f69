package cmd

import (
	"github.com/gradeflow/repograde/core"
	"github.com/gradeflow/repograde/internal/contract"
	"github.com/spf13/cobra"
)

// analyzeCmd grades a single local repository.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [repo-path]",
	Short: "Grade a single local repository.",
	Long: `Count effective lines in a repository and compute its grade.

Effective lines are physical lines minus comments, blank lines, and
docstrings, depending on the counting toggles. The grade is the percentage
of effective lines that live in files over the line threshold, so a higher
grade means more code is hiding in oversized files.

Examples:
  # Grade the current directory with defaults
  repograde analyze

  # Grade another checkout with a stricter threshold
  repograde analyze ~/hw/alice --threshold 100

  # Show per-file counts and export to CSV
  repograde analyze --detail --output csv --output-file report.csv

  # Count raw code only, keeping comments
  repograde analyze --exclude-comments no`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: analyzeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAnalyze(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot run analysis", err)
		}
	},
}
