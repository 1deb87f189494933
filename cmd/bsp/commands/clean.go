package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/bsp/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove compile outputs and the content store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			output, _ := cmd.Flags().GetBool("output")
			store, _ := cmd.Flags().GetBool("store")

			opts := app.CleanOptions{Output: output, Store: store}
			if !output && !store {
				// Default behavior: clean everything
				opts = app.CleanOptions{Output: true, Store: true}
			}

			return c.app.Clean(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolP("output", "o", false, "Only remove compile outputs")
	cmd.Flags().BoolP("store", "s", false, "Only remove the content store")

	return cmd
}
