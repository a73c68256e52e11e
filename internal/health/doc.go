// Package health provides the checks behind 'forage-dev doctor'.
//
// # Health Status
//
// Check results are summarised as a Status:
//
//	StatusHealthy   - git works, config valid, dev directory present
//	StatusDegraded  - usable, but the dev directory is missing or the
//	                  registry cannot be reached
//	StatusUnhealthy - git is missing or the config is invalid
//
// # Usage
//
//	result := health.Check(ctx, a, health.CheckOptions{Registry: reg})
//	switch result.Summary() {
//	case health.StatusHealthy:
//	    // ...
//	}
package health
