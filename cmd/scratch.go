package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/tasks"
)

var scratchCmd = &cobra.Command{
	Use:   "scratch [label]",
	Short: "Create a scratchpad directory",
	Long: `Creates a scratchpad under the scratch directory and prints its path.
Without a label, the scratchpad for the current week is used (e.g. 2020w07).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScratch,
}

func init() {
	rootCmd.AddCommand(scratchCmd)
}

func runScratch(cmd *cobra.Command, args []string) error {
	a := current()

	var label string
	if len(args) == 1 {
		label = args[0]
	}

	pad, err := a.Resolver.Scratchpad(label)
	if err != nil {
		return err
	}

	if err := tasks.Apply(cmd.Context(), a, tasks.NewSequence(tasks.CreateDirectory{}), pad); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), pad.Path())
	return nil
}
