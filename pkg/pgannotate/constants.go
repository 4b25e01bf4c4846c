package pgannotate

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess          = 0  // Run completed successfully
	ExitGeneralError     = 1  // Unknown or unclassified error
	ExitUsageError       = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic            = 3  // Internal panic (unexpected crash)
	ExitStaleAnnotations = 4  // check found files with outdated annotations
	ExitConfigError      = 10 // Invalid configuration
	ExitConnectionError  = 11 // Failed to connect to database
	ExitFileConflict     = 12 // File modified by someone else during the run
)

const (
	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 10 * time.Second

	// DefaultRetryMaxAttempts is the default maximum number of retry attempts.
	DefaultRetryMaxAttempts = 3

	// DefaultTimeout bounds a whole annotate/check run, including schema loading.
	DefaultTimeout = 2 * time.Minute

	// DefaultLockTimeout is how long the writer waits for a per-file lock.
	DefaultLockTimeout = 5 * time.Second

	// DefaultSchema is the PostgreSQL schema inspected when none is configured.
	DefaultSchema = "public"

	// DefaultManagementDB is the database used when none is configured.
	DefaultManagementDB = "postgres"

	// ApplicationName is reported to PostgreSQL as application_name.
	ApplicationName = "pgannotate"

	// ConfigFileName is the project configuration file looked up in the project directory.
	ConfigFileName = "pgannotate.yaml"
)
