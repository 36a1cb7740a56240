package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/bowersync/internal/app"
	"go.trai.ch/bowersync/internal/ui/report"
)

func (c *CLI) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Compare the manifest with the installed components",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := c.app.Status(cmd.Context(), c.opts)
			if err != nil {
				return err
			}
			return report.New(cmd.OutOrStdout()).Status(status)
		},
	}
}

func (c *CLI) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the declared dependencies",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snapshot, err := c.app.List(cmd.Context(), c.opts)
			if err != nil {
				return err
			}
			return report.New(cmd.OutOrStdout()).Dependencies(snapshot)
		},
	}
}

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the manifest and components and report drift",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			listen, _ := cmd.Flags().GetString("listen")
			return c.app.Watch(cmd.Context(), c.opts, app.WatchOptions{Listen: listen})
		},
	}
	cmd.Flags().StringP("listen", "l", "", "Serve status, events, and metrics on this address (e.g. 127.0.0.1:7878)")
	return cmd
}
