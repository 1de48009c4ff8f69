package cmd

import (
	"fmt"

	"github.com/gradeflow/repograde/internal/contract"
	"github.com/gradeflow/repograde/internal/gradestore"
	"github.com/gradeflow/repograde/internal/outwriter"
	"github.com/gradeflow/repograde/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeSetup loads minimal configuration needed for store operations.
// This is used by commands that need store access without full shared setup.
func storeSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backend := schema.DatabaseBackend(viper.GetString("store-backend"))
	connStr := viper.GetString("store-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Get output-related config values used by the listing commands
	cfg.Output = schema.OutputMode(viper.GetString("output"))
	cfg.OutputFile = viper.GetString("output-file")
	cfg.Precision = viper.GetInt("precision")
	cfg.Width = viper.GetInt("width")
	colors, err := contract.ParseBoolString(viper.GetString("color"))
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// Initialize the store with the loaded config
	store, err := gradestore.NewGradeStore(backend, connStr)
	if err != nil {
		return fmt.Errorf("failed to initialize grade store: %w", err)
	}
	gradeStore = store

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr

	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize the store or create
// tables, allowing migrations to run on a fresh database.
func storeMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("store-backend"))
	connStr := viper.GetString("store-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetStoreDBFilePath()
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr

	return nil
}

// storeMigrateSetupWrapper wraps storeMigrateSetup to provide PreRunE for migrate command.
func storeMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeMigrateSetup()
}

// storeCmd focused on grade store management.
//
// Note: Store subcommands use minimal initialization (storeSetup) instead of
// the full sharedSetup used by grading commands. This avoids repository
// validation and complex config processing for simple store operations.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage persisted grades and batch runs",
	Long: `Manage the grade store that records every batch run.

Each batch run stores its start and end time, its configuration, and one
grade record per submission. This history supports re-sending grades,
drafting feedback later, and auditing what a student was graded against.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show store statistics and connection info
  batches - List recorded batch runs
  grades  - List persisted grade records
  clear   - Remove all persisted data
  migrate - Run database schema migrations

Examples:
  # Check store status
  repograde store status

  # Export all grades ever recorded
  repograde store grades --output parquet --output-file grades.parquet`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show detailed information about the grade store.

Displays:
- Backend type and connection status
- Total number of batch runs and grade records
- Last and oldest batch run timestamps

Examples:
  # Check store status
  repograde store status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := gradeStore.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		if err := outwriter.PrintStoreStatus(status, cfg); err != nil {
			contract.LogFatal("Failed to print store status", err)
		}
	},
}

// storeBatchesCmd lists recorded batch runs.
var storeBatchesCmd = &cobra.Command{
	Use:   "batches",
	Short: "List recorded batch runs",
	Long: `List every recorded batch run with its timing and outcome counts.

Examples:
  # Show batch history
  repograde store batches

  # Export run history for reporting
  repograde store batches --output parquet --output-file runs.parquet`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		batches, err := gradeStore.ListBatches()
		if err != nil {
			contract.LogFatal("Failed to list batch runs", err)
		}
		if err := outwriter.PrintBatchRuns(batches, cfg); err != nil {
			contract.LogFatal("Failed to print batch runs", err)
		}
	},
}

// storeGradesCmd lists persisted grade records.
var storeGradesCmd = &cobra.Command{
	Use:   "grades",
	Short: "List persisted grade records",
	Long: `List grade records across all batch runs, or one run with --batch-id.

Examples:
  # Show every grade ever recorded
  repograde store grades

  # Show grades from one batch run
  repograde store grades --batch-id 3

  # Export for analysis in pandas/DuckDB
  repograde store grades --output parquet --output-file grades.parquet`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		grades, err := gradeStore.ListGrades(viper.GetInt64("batch-id"))
		if err != nil {
			contract.LogFatal("Failed to list grades", err)
		}
		if err := outwriter.PrintStoredGrades(grades, cfg); err != nil {
			contract.LogFatal("Failed to print grades", err)
		}
	},
}

// storeClearCmd clears the grade store.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all persisted grades and batch runs",
	Long: `Delete all stored batch runs and grade records from the configured backend.

WARNING: This action cannot be undone. Consider exporting grades first.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the grade tables

Examples:
  # Export before clearing
  repograde store grades --output csv --output-file backup.csv
  repograde store clear`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := gradestore.ClearStore(cfg.StoreBackend, contract.GetStoreDBFilePath(), cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear grade store", err)
		}
		fmt.Println("Grade store cleared successfully.")
	},
}

// storeMigrateCmd runs database migrations for the grade store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the grade store.

By default, migrates to the latest version. Use --target-version for
specific versions.

Examples:
  # Migrate to latest version (default)
  repograde store migrate

  # Migrate to specific version
  repograde store migrate --target-version 1

  # Rollback to initial state
  repograde store migrate --target-version 0`,
	PreRunE: storeMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := gradestore.Migrate(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
