package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/bowersync/internal/app"
)

func (c *CLI) newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a manifest in the project directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fromInstalled, _ := cmd.Flags().GetBool("from-installed")
			force, _ := cmd.Flags().GetBool("force")
			return c.app.Init(cmd.Context(), c.opts, app.InitOptions{
				FromInstalled: fromInstalled,
				Force:         force,
			})
		},
	}
	cmd.Flags().Bool("from-installed", false, "Declare every installed component")
	cmd.Flags().BoolP("force", "f", false, "Overwrite an existing manifest")
	return cmd
}
