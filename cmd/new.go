package cmd

import (
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/logging"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/tasks"
)

var (
	newBranch string
	newIgnore []string
)

var newCmd = &cobra.Command{
	Use:   "new <repo>",
	Short: "Create a new repository in your dev directory",
	Long: `Creates the directory for a repository, initializes git in it, points the
origin remote at the service the repository belongs to and checks out the
default branch. Running it on an existing repository is safe.

With --ignore, a .gitignore for the given languages is written to the new
repository unless it already has one.

Examples:
  forage-dev new alice/dotfiles
  forage-dev new gitlab.com/alice/website
  forage-dev new alice/service --ignore go,node`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func init() {
	newCmd.Flags().StringVar(&newBranch, "branch", "main", "Branch to check out")
	newCmd.Flags().StringSliceVar(&newIgnore, "ignore", nil, "Languages to generate a .gitignore for")
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	a := current()

	repo, err := a.Resolver.Repository(args[0])
	if err != nil {
		return err
	}
	logging.Debug("creating repository", "name", repo.Name(), "path", repo.Path())

	steps := []tasks.Task{
		tasks.CreateDirectory{},
		tasks.GitInit{},
		tasks.GitRemote{Name: "origin"},
		tasks.GitCheckout{Branch: newBranch},
	}

	if len(newIgnore) > 0 {
		content, err := gitignore().AddOrUpdate(cmd.Context(), "", newIgnore)
		if err != nil {
			return err
		}
		steps = append(steps, tasks.WriteFile{Path: ".gitignore", Content: content})
	}

	seq := tasks.NewSequence(steps...)
	if err := tasks.Apply(cmd.Context(), a, seq, repo); err != nil {
		return err
	}

	logSuccess("Created %s", repo.Name())
	logInfo("Path: %s", repo.Path())
	return nil
}
