package cmd

import (
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/errors"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/logging"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/tasks"
)

var branchFrom string

var branchCmd = &cobra.Command{
	Use:   "branch <repo> <branch>",
	Short: "Create a branch in one of your repositories",
	Long: `Creates a branch in an existing repository without switching to it. The
branch starts at --from, or at the current commit when --from is not given.
Nothing happens if the branch already exists.

Examples:
  forage-dev branch alice/dotfiles feature/zsh
  forage-dev branch alice/dotfiles hotfix --from v1.2.0`,
	Args: cobra.ExactArgs(2),
	RunE: runBranch,
}

func init() {
	branchCmd.Flags().StringVar(&branchFrom, "from", "", "Ref to start the branch at")
	rootCmd.AddCommand(branchCmd)
}

func runBranch(cmd *cobra.Command, args []string) error {
	a := current()

	repo, err := a.Resolver.Repository(args[0])
	if err != nil {
		return err
	}
	if !a.FS.IsDir(repo.Path()) {
		return errors.NotFound("repository", repo.Name()).
			WithHint("Create it first with 'forage-dev new " + args[0] + "'")
	}

	logging.Debug("creating branch", "repository", repo.Name(), "branch", args[1], "from", branchFrom)
	task := tasks.GitNewBranch{Branch: args[1], From: branchFrom}
	if err := tasks.Apply(cmd.Context(), a, task, repo); err != nil {
		return err
	}

	logSuccess("Branch %s is ready in %s", args[1], repo.Name())
	return nil
}
