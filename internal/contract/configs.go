package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/gradeflow/repograde/schema"
)

// Default values for configuration.
const (
	DefaultLineThreshold = 150
	DefaultPrecision     = 2
	DefaultCloneTimeout  = 5 * time.Minute
	MaxLineThreshold     = 100000
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DefaultExtensions holds the file extensions analyzed when none are given.
var DefaultExtensions = []string{".py"}

// DefaultExcludePatterns holds the exclusion globs applied when none are
// given. They skip virtual environments, bytecode caches, test files, and
// packaging scaffolding so that grades reflect the code students wrote.
var DefaultExcludePatterns = []string{
	"**/venv/**",
	"**/__pycache__/**",
	"**/test_*.py",
	"**/*_test.py",
	"**/setup.py",
	"**/conftest.py",
}

// Config holds the runtime configuration for grading.
// This struct remains the "final, validated" config.
type Config struct {
	RepoPath  string // Single-repository analysis target
	InputFile string // Batch submissions CSV

	Extensions      []string
	ExcludePatterns []string
	Matcher         *ExcludeMatcher
	LineThreshold   int

	ExcludeComments   bool
	ExcludeBlankLines bool
	ExcludeDocstrings bool

	Workers   int
	Detail    bool
	Precision int

	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	CloneTimeout time.Duration
	CloneDir     string // Parent directory for clones ("" = system temp)
	KeepClones   bool

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	FeedbackModel string
	FeedbackStyle schema.FeedbackStyle // Empty means pick per grade
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args, so no tag
	RepoPathStr  string
	InputFileStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Extensions        string `mapstructure:"extensions"`
	Exclude           string `mapstructure:"exclude"`
	NoDefaultExcludes bool   `mapstructure:"no-default-excludes"`
	Threshold         int    `mapstructure:"threshold"`
	ExcludeComments   string `mapstructure:"exclude-comments"`
	ExcludeBlank      string `mapstructure:"exclude-blank"`
	ExcludeDocstrings string `mapstructure:"exclude-docstrings"`
	Workers           int    `mapstructure:"workers"`
	Detail            bool   `mapstructure:"detail"`
	Precision         int    `mapstructure:"precision"`
	Output            string `mapstructure:"output"`
	OutputFile        string `mapstructure:"output-file"`
	Width             int    `mapstructure:"width"`
	Color             string `mapstructure:"color"`
	StoreBackend      string `mapstructure:"store-backend"`
	StoreDBConnect    string `mapstructure:"store-db-connect"`

	// --- Fields from batchCmd.Flags() ---
	CloneTimeout string `mapstructure:"clone-timeout"`
	CloneDir     string `mapstructure:"clone-dir"`
	KeepClones   bool   `mapstructure:"keep-clones"`

	// --- Fields from feedbackCmd.Flags() ---
	FeedbackModel string `mapstructure:"feedback-model"`
	FeedbackStyle string `mapstructure:"feedback-style"`
}

// Clone returns a deep copy of the Config struct. The compiled matcher is
// shared since it is immutable after construction.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Extensions != nil {
		clone.Extensions = make([]string, len(c.Extensions))
		copy(clone.Extensions, c.Extensions)
	}
	if c.ExcludePatterns != nil {
		clone.ExcludePatterns = make([]string, len(c.ExcludePatterns))
		copy(clone.ExcludePatterns, c.ExcludePatterns)
	}
	return &clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// All validation functions read from 'input' and populate 'cfg'.
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processCountingRules(cfg, input); err != nil {
		return err
	}
	if err := processFileFilters(cfg, input); err != nil {
		return err
	}
	if err := processCloneOptions(cfg, input); err != nil {
		return err
	}
	if err := processFeedbackOptions(cfg, input); err != nil {
		return err
	}
	if err := resolveTargetPaths(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.Width = input.Width

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Threshold Validation ---
	if input.Threshold <= 0 || input.Threshold > MaxLineThreshold {
		return fmt.Errorf("threshold must be greater than 0 and cannot exceed %d (received %d)", MaxLineThreshold, input.Threshold)
	}
	cfg.LineThreshold = input.Threshold

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. Precision and Output Validation ---
	if input.Precision < 0 || input.Precision > 4 {
		return fmt.Errorf("precision must be between 0 and 4 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	// --- 4. Store Backend Validation ---
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	if err := ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return err
	}

	return nil
}

// processCountingRules parses the three line-counting toggles. Each accepts
// yes/no style strings so they can be flipped from flags, env, or the config
// file without boolean-flag ambiguity.
func processCountingRules(cfg *Config, input *ConfigRawInput) error {
	comments, err := ParseBoolString(input.ExcludeComments)
	if err != nil {
		return fmt.Errorf("invalid --exclude-comments value: %w", err)
	}
	cfg.ExcludeComments = comments

	blank, err := ParseBoolString(input.ExcludeBlank)
	if err != nil {
		return fmt.Errorf("invalid --exclude-blank value: %w", err)
	}
	cfg.ExcludeBlankLines = blank

	docstrings, err := ParseBoolString(input.ExcludeDocstrings)
	if err != nil {
		return fmt.Errorf("invalid --exclude-docstrings value: %w", err)
	}
	cfg.ExcludeDocstrings = docstrings

	return nil
}

// processFileFilters builds the extension list and the compiled exclusion
// matcher. User patterns are appended to the defaults unless the defaults are
// explicitly disabled.
func processFileFilters(cfg *Config, input *ConfigRawInput) error {
	// --- Extensions ---
	cfg.Extensions = nil
	for ext := range strings.SplitSeq(input.Extensions, ",") {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.Extensions = append(cfg.Extensions, strings.ToLower(ext))
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = append([]string{}, DefaultExtensions...)
	}

	// --- Exclusion patterns ---
	cfg.ExcludePatterns = nil
	if !input.NoDefaultExcludes {
		cfg.ExcludePatterns = append(cfg.ExcludePatterns, DefaultExcludePatterns...)
	}
	for pat := range strings.SplitSeq(input.Exclude, ",") {
		pat = strings.TrimSpace(pat)
		if pat != "" {
			cfg.ExcludePatterns = append(cfg.ExcludePatterns, pat)
		}
	}

	matcher, err := NewExcludeMatcher(cfg.ExcludePatterns)
	if err != nil {
		return err
	}
	cfg.Matcher = matcher

	return nil
}

// processCloneOptions parses the batch clone settings.
func processCloneOptions(cfg *Config, input *ConfigRawInput) error {
	cfg.CloneTimeout = DefaultCloneTimeout
	if input.CloneTimeout != "" {
		d, err := time.ParseDuration(input.CloneTimeout)
		if err != nil {
			return fmt.Errorf("invalid --clone-timeout value '%s': %w", input.CloneTimeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("--clone-timeout must be positive (received %s)", d)
		}
		cfg.CloneTimeout = d
	}

	cfg.CloneDir = strings.TrimSpace(input.CloneDir)
	cfg.KeepClones = input.KeepClones
	return nil
}

// processFeedbackOptions validates the feedback model and the optional
// persona override.
func processFeedbackOptions(cfg *Config, input *ConfigRawInput) error {
	cfg.FeedbackModel = strings.TrimSpace(input.FeedbackModel)

	style := strings.ToLower(strings.TrimSpace(input.FeedbackStyle))
	if style == "" || style == "auto" {
		cfg.FeedbackStyle = ""
		return nil
	}
	switch schema.FeedbackStyle(style) {
	case schema.StrictStyle, schema.DirectStyle, schema.ConstructiveStyle, schema.EncouragingStyle:
		cfg.FeedbackStyle = schema.FeedbackStyle(style)
	default:
		return fmt.Errorf("invalid feedback style '%s'. must be strict, direct, constructive, encouraging, auto", input.FeedbackStyle)
	}
	return nil
}

// resolveTargetPaths resolves the repository path or batch input file,
// depending on which one the invoked command supplied.
func resolveTargetPaths(cfg *Config, input *ConfigRawInput) error {
	if input.RepoPathStr != "" {
		absPath, err := filepath.Abs(input.RepoPathStr)
		if err != nil {
			return err
		}
		cfg.RepoPath = filepath.Clean(absPath)
	}

	if input.InputFileStr != "" {
		absPath, err := filepath.Abs(input.InputFileStr)
		if err != nil {
			return err
		}
		if _, err := os.Stat(absPath); err != nil {
			return fmt.Errorf("submissions file %s is not accessible: %w", absPath, err)
		}
		cfg.InputFile = absPath
	}

	return nil
}
