package online

import (
	"runtime"

	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/config"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/logging"
)

// PlatformAny marks a fragment which applies on every platform.
const PlatformAny = "any"

// HostPlatform returns the normalized OS name of this machine: "windows",
// "linux" or "darwin". Any other OS yields "".
func HostPlatform() string {
	return normalizePlatform(runtime.GOOS)
}

func normalizePlatform(goos string) string {
	switch goos {
	case "windows", "linux", "darwin":
		return goos
	default:
		return ""
	}
}

// IsCompatible reports whether the fragment applies to this machine.
func (c EntryConfig) IsCompatible() bool {
	return c.CompatibleWith(HostPlatform())
}

// CompatibleWith reports whether the fragment applies to platform.
func (c EntryConfig) CompatibleWith(platform string) bool {
	if c.Platform == PlatformAny {
		return true
	}
	return platform != "" && c.Platform == platform
}

// ToApp converts the entry app into a config app.
func (a EntryApp) ToApp() config.App {
	return config.App{
		Name:        a.Name,
		Command:     a.Command,
		Args:        append([]string(nil), a.Args...),
		Environment: append([]string(nil), a.Environment...),
	}
}

// ToService converts the entry service into a config service.
func (s EntryService) ToService() config.Service {
	return config.Service{
		Domain:  s.Domain,
		Website: s.Website,
		HTTPURL: s.HTTPURL,
		GitURL:  s.GitURL,
		Pattern: s.Pattern,
	}
}

// Apply merges the fragments of entry that are compatible with this machine
// into cfg and returns the result. Apps and services that fail validation are
// skipped with a warning. Apps already present by name and services
// already present by domain are kept as they are, so applying an entry twice
// gives the same config as applying it once.
func Apply(cfg *config.Config, entry *Entry) *config.Config {
	return ApplyFor(cfg, entry, HostPlatform())
}

// ApplyFor is Apply for an explicit platform.
func ApplyFor(cfg *config.Config, entry *Entry, platform string) *config.Config {
	for _, fragment := range entry.Configs {
		if !fragment.CompatibleWith(platform) {
			logging.Debug("skipping fragment", "entry", entry.Name, "platform", fragment.Platform)
			continue
		}
		if fragment.App != nil {
			app := fragment.App.ToApp()
			if err := app.Validate(); err != nil {
				logging.Warn("skipping invalid app", "entry", entry.Name, "app", app.Name, "error", err)
			} else {
				cfg = cfg.WithApp(app)
			}
		}
		if fragment.Service != nil {
			svc := fragment.Service.ToService()
			if err := svc.Validate(); err != nil {
				logging.Warn("skipping invalid service", "entry", entry.Name, "domain", svc.Domain, "error", err)
			} else {
				cfg = cfg.WithService(svc)
			}
		}
	}
	return cfg
}

// CompatibleConfigs returns how many fragments of entry apply to this machine.
func (e *Entry) CompatibleConfigs() int {
	n := 0
	for _, c := range e.Configs {
		if c.IsCompatible() {
			n++
		}
	}
	return n
}
