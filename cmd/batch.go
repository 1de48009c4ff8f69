package cmd

import (
	"github.com/gradeflow/repograde/core"
	"github.com/gradeflow/repograde/internal/contract"
	"github.com/spf13/cobra"
)

// batchCmd grades every submission listed in a CSV sheet.
var batchCmd = &cobra.Command{
	Use:   "batch <submissions-csv>",
	Short: "Clone and grade every submission in a CSV sheet.",
	Long: `Grade a whole class from a submissions sheet.

The sheet is a CSV with one row per student: email ID in the first column
and an HTTPS GitHub URL in the second. A header row is detected and
skipped. Each repository is cloned shallowly, analyzed, graded, and the
checkout is removed afterwards unless --keep-clones is set.

Every run is recorded in the grade store so grades can be listed, exported,
and fed into the feedback command later.

Examples:
  # Grade a class roster
  repograde batch submissions.csv

  # Export the grades for mail merge
  repograde batch submissions.csv --output csv --output-file grades.csv

  # Slow network, generous clone timeout
  repograde batch submissions.csv --clone-timeout 10m`,
	Args:    cobra.ExactArgs(1),
	PreRunE: batchSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		cloner := contract.NewGitCloner(cfg)
		if err := core.ExecuteGradeBatch(rootCtx, cfg, cloner, gradeStore); err != nil {
			contract.LogFatal("Cannot run batch grading", err)
		}
	},
}
