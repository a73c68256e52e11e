package cmd

import (
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/app"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/config"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/logging"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/online"
)

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
)

// current returns the application instance set up by the root command.
func current() *app.App {
	return app.Default
}

// configPath is the file the config is loaded from.
func configPath() string {
	if configFile != "" {
		return configFile
	}
	return config.DefaultPath()
}

// writablePath returns the config file commands should write to, or "" when
// neither --config nor $FORAGE_DEV_CONFIG names one.
func writablePath() string {
	if configFile != "" {
		return configFile
	}
	return os.Getenv(config.EnvConfigPath)
}

func registry() online.Registry {
	return online.NewRegistry(current().Config().RegistryURL(),
		online.WithKeyChain(current().KeyChain))
}

func gitignore() *online.Gitignore {
	return online.NewGitignore(current().Config().GitignoreURL(),
		online.WithKeyChain(current().KeyChain))
}

// stdinIsTerminal is replaced in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// addPickFlag registers the --pick flag shared by commands which can choose
// their argument interactively.
func addPickFlag(flags *pflag.FlagSet, p *bool, what string) {
	flags.BoolVarP(p, "pick", "p", false, "Choose the "+what+" from an interactive list")
}
