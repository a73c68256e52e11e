package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/errors"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/logging"
)

var ignorePath string

var ignoreCmd = &cobra.Command{
	Use:     "ignore [language...]",
	Aliases: []string{"gitignore"},
	Short:   "Generate a .gitignore file for the given languages",
	Long: `Manages a .gitignore file using the gitignore.io API.

Without arguments, lists the languages the service supports. With one or more
languages, adds them to the generated section of the file, keeping the
languages already there and anything you wrote outside the section.`,
	RunE: runIgnore,
}

func init() {
	ignoreCmd.Flags().StringVar(&ignorePath, "path", ".gitignore", "The .gitignore file to update")
	rootCmd.AddCommand(ignoreCmd)
}

func runIgnore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc := gitignore()

	if len(args) == 0 {
		languages, err := svc.List(ctx)
		if err != nil {
			return err
		}
		for _, lang := range languages {
			fmt.Fprintln(cmd.OutOrStdout(), lang)
		}
		return nil
	}

	fs := current().FS

	var original string
	data, err := fs.ReadFile(ignorePath)
	switch {
	case err == nil:
		original = string(data)
	case os.IsNotExist(err):
		logging.Debug("ignore file does not exist yet", "path", ignorePath)
	default:
		return errors.IO(fmt.Sprintf("failed to read %s", ignorePath), err)
	}

	content, err := svc.AddOrUpdate(ctx, original, args)
	if err != nil {
		return err
	}

	if err := fs.WriteFile(ignorePath, []byte(content), 0644); err != nil {
		return errors.IO(fmt.Sprintf("failed to write %s", ignorePath), err)
	}
	logSuccess("Updated %s", ignorePath)
	return nil
}
