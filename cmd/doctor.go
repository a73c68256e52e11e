package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/errors"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/health"
)

var doctorOffline bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that forage-dev can do its job",
	Long: `Checks that git is installed, the config file is valid, the dev directory
exists and the registry can be reached. Exits non-zero when forage-dev cannot
work at all.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorOffline, "offline", false, "Skip the registry check")
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	a := current()
	cfg := a.Config()
	out := cmd.OutOrStdout()

	opts := health.CheckOptions{}
	if !doctorOffline {
		opts.Registry = registry()
	}
	result := health.Check(cmd.Context(), a, opts)

	fmt.Fprintf(out, "Config: %s\n", configPath())
	fmt.Fprintf(out, "Directory: %s\n", cfg.Directory)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Checks:")
	if result.GitFound {
		fmt.Fprintf(out, "  Git: %s (%s)\n", boolStatus(true), result.GitVersion)
	} else {
		fmt.Fprintf(out, "  Git: %s\n", boolStatus(false))
	}
	fmt.Fprintf(out, "  Config: %s\n", boolStatus(result.ConfigValid))
	if result.ConfigError != "" {
		fmt.Fprintf(out, "    %s\n", result.ConfigError)
	}
	fmt.Fprintf(out, "  Directory: %s\n", boolStatus(result.DirectoryExists))
	if result.DirectoryExists {
		fmt.Fprintf(out, "  Repositories: %d\n", result.Repositories)
	}
	if result.RegistryChecked {
		if result.RegistryReachable {
			fmt.Fprintf(out, "  Registry: %s (%s)\n", boolStatus(true), result.RegistryLatency)
		} else {
			fmt.Fprintf(out, "  Registry: %s\n    %s\n", boolStatus(false), result.RegistryError)
		}
	}
	fmt.Fprintln(out)

	status := result.Summary()
	fmt.Fprintf(out, "Status: %s\n", status)
	if status == health.StatusUnhealthy {
		return errors.System("forage-dev is not ready to use", "Fix the failed checks above")
	}
	return nil
}

func boolStatus(b bool) string {
	if b {
		return "✓"
	}
	return "✗"
}
