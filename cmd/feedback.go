package cmd

import (
	"github.com/gradeflow/repograde/core"
	"github.com/gradeflow/repograde/internal/contract"
	"github.com/gradeflow/repograde/internal/feedback"
	"github.com/spf13/cobra"
)

// feedbackCmd drafts reply emails for graded submissions.
var feedbackCmd = &cobra.Command{
	Use:   "feedback [grades-csv]",
	Short: "Draft feedback emails for graded submissions.",
	Long: `Generate a short feedback draft for every graded submission.

Grades come from the most recent batch in the grade store, or from a
grades CSV produced by a batch run when one is given. The persona adapts
to the grade unless --feedback-style pins one: high penalties get strict
notes, low penalties get encouragement.

Drafts come from the Gemini API when GEMINI_API_KEY is set and from local
templates otherwise, so the command works offline.

Examples:
  # Draft feedback for the latest batch
  repograde feedback

  # Draft from an exported grades sheet with one persona for everyone
  repograde feedback grades.csv --feedback-style direct

  # Export drafts for mail merge
  repograde feedback --output csv --output-file drafts.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: batchSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		gen := feedback.NewGenerator(rootCtx, cfg)
		if err := core.ExecuteFeedback(rootCtx, cfg, gen, gradeStore); err != nil {
			contract.LogFatal("Cannot draft feedback", err)
		}
	},
}
