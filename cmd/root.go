package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/app"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/config"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/logging"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/system"
)

var (
	verbose    bool
	jsonOutput bool
	logFile    string
	configFile string

	closeLog func() error
)

var rootCmd = &cobra.Command{
	Use:   "forage-dev",
	Short: "Manage your development directory",
	Long: `forage-dev keeps your repositories in a predictable layout and
automates the chores around them.

Repositories live at <directory>/<domain>/<owner>/<name>, scratchpads at
<directory>/scratch/<label>. Configuration templates for apps and services can
be pulled from an online registry with 'forage-dev config add'.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logFile != "" {
			closer, err := logging.SetupFile(verbose, logging.FileConfig{Path: logFile})
			if err != nil {
				return err
			}
			closeLog = closer
		} else {
			logging.Setup(verbose, jsonOutput, os.Stderr)
		}

		if app.Default != nil {
			return nil
		}

		path := configPath()
		logging.Debug("loading config", "path", path)
		cfg, err := config.Load(system.DefaultFS(), path)
		if err != nil {
			return err
		}
		app.SetDefault(app.New(app.WithConfig(cfg)))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if closeLog == nil {
			return nil
		}
		err := closeLog()
		closeLog = nil
		return err
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to a rotating file instead of stderr")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (default $"+config.EnvConfigPath+" or ~/.config/forage-dev/config.yaml)")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
