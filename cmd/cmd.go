// Package cmd defines the command-line interface for repograde.
package cmd

import (
	"github.com/gradeflow/repograde/internal/contract"
	"github.com/gradeflow/repograde/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(feedbackCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(storeCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeBatchesCmd)
	storeCmd.AddCommand(storeGradesCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("extensions", "e", "", "Comma-separated list of file extensions to analyze (default .py)")
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of glob patterns to ignore")
	rootCmd.PersistentFlags().Bool("no-default-excludes", false, "Disable the built-in exclusion patterns")
	rootCmd.PersistentFlags().IntP("threshold", "t", contract.DefaultLineThreshold, "Line threshold above which a file counts as oversized")
	rootCmd.PersistentFlags().String("exclude-comments", "yes", "Skip comment lines when counting (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("exclude-blank", "yes", "Skip blank lines when counting (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("exclude-docstrings", "yes", "Skip docstring lines when counting (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Bool("detail", false, "Print per-file line counts")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Grade store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of batchCmd to Viper
	batchCmd.Flags().String("clone-timeout", "5m", "Timeout per repository clone (e.g., 90s, 5m)")
	batchCmd.Flags().String("clone-dir", "", "Parent directory for clone checkouts (default system temp)")
	batchCmd.Flags().Bool("keep-clones", false, "Keep clone checkouts on disk after grading")
	if err := viper.BindPFlags(batchCmd.Flags()); err != nil {
		contract.LogFatal("Error binding batch flags", err)
	}

	// Bind all flags of feedbackCmd to Viper
	feedbackCmd.Flags().String("feedback-model", "", "Gemini model for drafting feedback (default gemini-2.0-flash)")
	feedbackCmd.Flags().String("feedback-style", "auto", "Feedback persona: strict, direct, constructive, encouraging, auto")
	if err := viper.BindPFlags(feedbackCmd.Flags()); err != nil {
		contract.LogFatal("Error binding feedback flags", err)
	}

	// Bind all flags of storeGradesCmd to Viper
	storeGradesCmd.Flags().Int64("batch-id", 0, "Restrict results to one batch (0 means all batches)")
	if err := viper.BindPFlags(storeGradesCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store grades flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
