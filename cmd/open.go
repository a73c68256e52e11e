package cmd

import (
	"fmt"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/config"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/errors"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/logging"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/tasks"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/tui"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/workspace"
)

var (
	openArgs string
	openPick bool
)

var openCmd = &cobra.Command{
	Use:   "open [app] <repo>",
	Short: "Open a repository with one of your apps",
	Long: `Launches an app from your config with the repository as its working
directory. Without an app name the first configured app is used.

The repository name may be abbreviated: if it does not name an existing
repository exactly, the closest match from your dev directory is opened.

With --pick, the only argument is the app and the repository is chosen from
an interactive list.

Examples:
  forage-dev open dotfiles
  forage-dev open code alice/website
  forage-dev open shell alice/website --args "-l"`,
	Args: cobra.MaximumNArgs(2),
	RunE: runOpen,
}

func init() {
	openCmd.Flags().StringVar(&openArgs, "args", "", "Extra arguments passed to the app")
	addPickFlag(openCmd.Flags(), &openPick, "repository")
	rootCmd.AddCommand(openCmd)
}

func runOpen(cmd *cobra.Command, args []string) error {
	a := current()
	cfg := a.Config()

	var (
		appName string
		name    string
	)
	switch len(args) {
	case 2:
		appName, name = args[0], args[1]
	case 1:
		if openPick {
			appName = args[0]
		} else {
			name = args[0]
		}
	}

	target, err := lookupApp(cfg, appName)
	if err != nil {
		return err
	}

	var repo workspace.Repository
	if name == "" {
		if !openPick {
			return errors.User("You have not provided a repository to open.",
				"Pass a repository name or use --pick to choose one")
		}
		picked, ok, err := pickRepository()
		if err != nil || !ok {
			return err
		}
		repo = picked
	} else {
		repo, err = a.Resolver.Best(name)
		if err != nil {
			return err
		}
	}

	extra, err := shellquote.Split(openArgs)
	if err != nil {
		return errors.User(fmt.Sprintf("invalid --args: %v", err), "Quote arguments as you would in a shell")
	}

	logging.Debug("opening repository", "app", target.Name, "repo", repo.Name())
	return tasks.Apply(cmd.Context(), a, tasks.Launch{App: *target, Extra: extra}, repo)
}

// lookupApp returns the named app, or the default one when name is empty.
func lookupApp(cfg *config.Config, name string) (*config.App, error) {
	if name == "" {
		if a := cfg.DefaultApp(); a != nil {
			return a, nil
		}
		return nil, errors.User("No apps are configured.",
			"Add one with 'forage-dev config add <id>' or edit your config file")
	}
	if a := cfg.App(name); a != nil {
		return a, nil
	}
	return nil, errors.NotFound("app", name).
		WithHint("Run 'forage-dev config' to see your configured apps")
}

func pickRepository() (workspace.Repository, bool, error) {
	repos, err := current().Resolver.Repositories()
	if err != nil {
		return workspace.Repository{}, false, err
	}
	if len(repos) == 0 {
		logInfo("No repositories found. Create one with: forage-dev new <repo>")
		return workspace.Repository{}, false, nil
	}

	items := make([]tui.Item, 0, len(repos))
	byName := make(map[string]workspace.Repository, len(repos))
	for _, r := range repos {
		items = append(items, tui.Item{ID: r.Name(), Info: r.Path()})
		byName[r.Name()] = r
	}

	if !stdinIsTerminal() {
		return workspace.Repository{}, false, errors.User("Interactive selection needs a terminal.",
			"Pass the repository name: forage-dev open <repo>")
	}

	result, err := tui.RunPicker("Repositories", items)
	if err != nil {
		return workspace.Repository{}, false, fmt.Errorf("picker error: %w", err)
	}
	if result.Action != tui.ActionSelect {
		return workspace.Repository{}, false, nil
	}
	return byName[result.ID], true, nil
}
