package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/gradeflow/repograde/internal/contract"
	"github.com/gradeflow/repograde/internal/gradestore"
	"github.com/gradeflow/repograde/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// gradeStore is the global grade persistence instance.
var gradeStore contract.GradeStore

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "repograde",
	Short:              "Grade homework repositories by how much code hides in oversized files.",
	Long:               `Repograde counts effective lines of student code and penalizes repositories that concentrate their logic in files over the line threshold.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Set config file name and paths
		viper.SetConfigName(".repograde") // Name of config file (without extension)
		viper.SetConfigType("yaml")       // We'll use YAML format
		viper.AddConfigPath(".")          // Look in the current directory
		viper.AddConfigPath("$HOME")      // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("REPOGRADE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("threshold", contract.DefaultLineThreshold)
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("exclude-comments", "yes")
	viper.SetDefault("exclude-blank", "yes")
	viper.SetDefault("exclude-docstrings", "yes")
	viper.SetDefault("store-backend", schema.SQLiteBackend)
	viper.SetDefault("store-db-connect", "")
	viper.SetDefault("color", "yes")
	viper.SetDefault("clone-timeout", "5m")
	viper.SetDefault("feedback-style", "auto")
}

// positionalArg says what a command's single positional argument means.
type positionalArg int

const (
	repoPathArg positionalArg = iota
	inputFileArg
)

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ context.Context, arg positionalArg, args []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	switch arg {
	case repoPathArg:
		if len(args) == 1 {
			input.RepoPathStr = args[0]
		} else {
			input.RepoPathStr = "."
		}
	case inputFileArg:
		if len(args) == 1 {
			input.InputFileStr = args[0]
		}
	}

	// 4. Run all validation and complex parsing.
	// This function now populates the global 'cfg' from 'input'.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// 5. Initialize the grade store with validated config
	store, err := gradestore.NewGradeStore(cfg.StoreBackend, cfg.StoreDBConnect)
	if err != nil {
		return fmt.Errorf("failed to initialize grade store: %w", err)
	}
	gradeStore = store

	return nil
}

// analyzeSetupWrapper provides PreRunE for commands that take a repo path.
func analyzeSetupWrapper(_ *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, repoPathArg, args)
}

// batchSetupWrapper provides PreRunE for commands that take a CSV path.
func batchSetupWrapper(_ *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, inputFileArg, args)
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	// Handle config file
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".repograde")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	// Load config file if present
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// Execute runs the root command.
func Execute() error {
	defer func() {
		if gradeStore != nil {
			_ = gradeStore.Close()
		}
	}()
	return rootCmd.Execute()
}
