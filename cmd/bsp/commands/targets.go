package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"go.trai.ch/bsp/internal/app"
)

func (c *CLI) newTargetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "targets",
		Short: "List the build targets of the workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			backend, _ := cmd.Flags().GetString("backend")
			infos, err := c.app.Targets(cmd.Context(), app.TargetsOptions{Backend: backend})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Targets []app.BuildTargetInfo `json:"targets"`
			}{Targets: infos})
		},
	}
	cmd.Flags().StringP("backend", "b", "", "Only list targets this backend applies to")
	return cmd
}
