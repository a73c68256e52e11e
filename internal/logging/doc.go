// Package logging provides logging utilities for forage-dev.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings:
//
//	logging.Debug("running task", "task", "git-checkout", "target", repo.Name())
//	logging.Warn("git exited without a status", "path", repo.Path())
//
// With --log-file the same calls are routed to a rotating JSON file through
// zap and lumberjack instead of stderr.
//
// # User Output
//
// User-facing messages are formatted with status indicators:
//
//	logging.UserInfo("Applying %s", entry.Name)
//	logging.UserSuccess("Created %s", repo.Name())
//	logging.UserWarning("No compatible configs in %s", entry.Name)
//	logging.UserError("%v", err)
//
// Output destinations:
//   - UserInfo, UserSuccess: stdout
//   - UserWarning, UserError: stderr
//
// # Status Indicators
//
// User functions prepend status indicators:
//   - ℹ (info)
//   - ✓ (success)
//   - ⚠ (warning)
//   - ✗ (error)
package logging
