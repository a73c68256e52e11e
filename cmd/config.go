package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/config"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/errors"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/logging"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/online"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/system"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/tui"
)

var configAddPick bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage your forage-dev configuration file",
	Long: `Prints the current configuration. Use the subcommands to browse the
online registry of configuration templates and add them to your config file.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

var configListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List available config templates",
	Args:    cobra.NoArgs,
	RunE:    runConfigList,
}

var configAddCmd = &cobra.Command{
	Use:   "add [id]",
	Short: "Add a config template to your config file",
	Long: `Fetches a configuration template from the registry and merges the parts
of it which apply to this platform into your configuration. Apps and services
you already have are left as they are, so adding a template twice is harmless.

The result is written to the file named by --config or $FORAGE_DEV_CONFIG.
Without either, it is printed to stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigAdd,
}

func init() {
	addPickFlag(configAddCmd.Flags(), &configAddPick, "template")
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configAddCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	return printConfig(cmd, current().Config())
}

func printConfig(cmd *cobra.Command, cfg *config.Config) error {
	data, err := cfg.Marshal(config.FormatForPath(configPath()))
	if err != nil {
		return errors.ConfigError("failed to serialize config", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runConfigList(cmd *cobra.Command, args []string) error {
	ids, err := registry().GetEntries(cmd.Context())
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	return nil
}

func runConfigAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	reg := registry()

	var id string
	switch {
	case len(args) == 1:
		id = args[0]
	case configAddPick:
		picked, err := pickTemplate(ctx, cmd, reg)
		if err != nil || picked == "" {
			return err
		}
		id = picked
	default:
		return errors.User("You have not provided an ID for the config template you wish to add.",
			"Run 'forage-dev config list' to see the available templates")
	}

	entry, err := reg.GetEntry(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Applying %s\n", entry.Name)
	if entry.Description != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), entry.Description)
	}
	if entry.CompatibleConfigs() == 0 {
		logWarning("%s has nothing for %s", entry.Name, online.HostPlatform())
	}

	path := writablePath()
	if path == "" {
		return printConfig(cmd, online.Apply(current().Config(), entry))
	}

	return updateConfigFile(path, func(cfg *config.Config) *config.Config {
		return online.Apply(cfg, entry)
	})
}

// updateConfigFile applies update to the config stored at path while holding
// the file's lock, then publishes the result to the running app.
func updateConfigFile(path string, update func(*config.Config) *config.Config) error {
	a := current()

	if err := a.FS.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.IO("failed to create config directory", err)
	}
	unlock, err := a.FS.Lock(path)
	if err != nil {
		if stderrors.Is(err, system.ErrLocked) {
			return errors.User(fmt.Sprintf("%s is being updated by another process", path),
				"Wait for the other forage-dev command to finish and try again")
		}
		return errors.IO("failed to lock config file", err)
	}
	defer func() {
		if err := unlock(); err != nil {
			logging.Warn("failed to release config lock", "path", path, "error", err)
		}
	}()

	cfg, err := config.Load(a.FS, path)
	if err != nil {
		return err
	}
	updated := update(cfg)
	if updated.Equal(cfg) {
		logInfo("%s is already up to date", path)
		a.ReplaceConfig(cfg)
		return nil
	}

	if err := updated.Validate(); err != nil {
		return errors.ConfigError(fmt.Sprintf("refusing to write invalid config to %s", path), err)
	}
	if err := config.Save(a.FS, path, updated); err != nil {
		return errors.IO(fmt.Sprintf("failed to write %s", path), err)
	}
	a.ReplaceConfig(updated)
	logSuccess("Updated %s", path)
	return nil
}

func pickTemplate(ctx context.Context, cmd *cobra.Command, reg online.Registry) (string, error) {
	ids, err := reg.GetEntries(ctx)
	if err != nil {
		return "", err
	}

	items := make([]tui.Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, tui.Item{ID: id})
	}

	if !stdinIsTerminal() {
		fmt.Fprint(cmd.OutOrStdout(), tui.SimpleList("Config templates", items))
		return "", errors.User("Interactive selection needs a terminal.",
			"Pass the template id: forage-dev config add <id>")
	}

	result, err := tui.RunPicker("Config templates", items)
	if err != nil {
		return "", fmt.Errorf("picker error: %w", err)
	}
	logging.Debug("picker result", "action", result.Action, "id", result.ID)
	if result.Action != tui.ActionSelect {
		return "", nil
	}
	return result.ID, nil
}
