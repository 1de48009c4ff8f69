package schema

// Custom string types for type safety.
type (
	// Status represents the lifecycle state of a submission, grade or analysis.
	Status string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for grade storage.
	DatabaseBackend string

	// FeedbackStyle represents the persona used for feedback drafts.
	FeedbackStyle string
)

// All statuses supported.
const (
	ReadyStatus   Status = "Ready"   // Submission graded, or input row eligible for grading
	SuccessStatus Status = "Success" // Analysis completed
	FailedStatus  Status = "Failed"
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All feedback styles supported. The grade is a penalty metric, so higher
// grades get the harsher personas.
const (
	StrictStyle       FeedbackStyle = "strict"
	DirectStyle       FeedbackStyle = "direct"
	ConstructiveStyle FeedbackStyle = "constructive"
	EncouragingStyle  FeedbackStyle = "encouraging"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// StyleForGrade selects the feedback persona for a grade. Bands follow the
// course rubric: the more code concentrated in oversized files, the sterner
// the reply.
func StyleForGrade(grade float64) FeedbackStyle {
	switch {
	case grade >= 90:
		return StrictStyle
	case grade >= 70:
		return DirectStyle
	case grade >= 55:
		return ConstructiveStyle
	default:
		return EncouragingStyle
	}
}
