// Package errors provides typed errors with exit codes for forage-dev.
//
// # Error Types
//
// Error is the base error type that wraps an error with an exit code and an
// optional remediation hint shown to the user:
//
//	type Error struct {
//	    Code    int    // Exit code
//	    Message string // User-facing message
//	    Hint    string // What the user can do about it
//	    Cause   error  // Wrapped error
//	}
//
// # Exit Codes
//
//	ExitSuccess         = 0 // Success
//	ExitGeneralError    = 1 // General/unknown errors
//	ExitUserError       = 2 // Invalid or missing input
//	ExitSystemError     = 3 // External tool exited abnormally
//	ExitNetworkError    = 4 // Online service unreachable
//	ExitParseError      = 5 // Malformed payload
//	ExitIOError         = 6 // Local file access failure
//	ExitNotFound        = 7 // Unknown registry entry, repository, app...
//	ExitConfigError     = 8 // Configuration error
//	ExitCredentialError = 9 // Credential store failure
//
// # Error Constructors
//
//	errors.User("no template id given", "Run `forage-dev config list` to see ids.")
//	errors.System("git checkout failed", "Check the output printed by git.")
//	errors.Network("failed to fetch registry index", err)
//	errors.NotFound("registry entry", "vscode")
//
// # Extracting Exit Codes
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
