package health

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/app"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/online"
)

// Status summarises a CheckResult.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// CheckOptions holds options for health checking.
type CheckOptions struct {
	// Registry is checked when set.
	Registry online.Registry
}

// CheckResult contains the results of health checks
type CheckResult struct {
	GitFound   bool
	GitVersion string

	ConfigValid bool
	ConfigError string

	DirectoryExists bool
	Repositories    int

	RegistryChecked   bool
	RegistryReachable bool
	RegistryLatency   string
	RegistryError     string
}

// CheckGit runs "git --version" and returns the reported version.
func CheckGit(ctx context.Context, a *app.App) (string, bool) {
	out, err := a.Executor.Execute(ctx, "git", "--version")
	if err != nil {
		return "", false
	}
	return strings.TrimPrefix(strings.TrimSpace(string(out)), "git version "), true
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// Check performs all health checks.
func Check(ctx context.Context, a *app.App, opts CheckOptions) *CheckResult {
	result := &CheckResult{}
	cfg := a.Config()

	result.GitVersion, result.GitFound = CheckGit(ctx, a)

	if err := cfg.Validate(); err != nil {
		result.ConfigError = err.Error()
	} else {
		result.ConfigValid = true
	}

	result.DirectoryExists = a.FS.IsDir(cfg.Directory)
	if result.DirectoryExists {
		if repos, err := a.Resolver.Repositories(); err == nil {
			result.Repositories = len(repos)
		}
	}

	if opts.Registry != nil {
		result.RegistryChecked = true
		start := time.Now()
		_, err := opts.Registry.GetEntries(ctx)
		result.RegistryLatency = formatDuration(time.Since(start))
		if err != nil {
			result.RegistryError = err.Error()
		} else {
			result.RegistryReachable = true
		}
	}

	return result
}

// Summary returns the overall status. Git and a valid config are required;
// a missing dev directory or unreachable registry only degrade.
func (r *CheckResult) Summary() Status {
	if !r.GitFound || !r.ConfigValid {
		return StatusUnhealthy
	}
	if !r.DirectoryExists || (r.RegistryChecked && !r.RegistryReachable) {
		return StatusDegraded
	}
	return StatusHealthy
}
