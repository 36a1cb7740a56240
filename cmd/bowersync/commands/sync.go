package commands

import (
	"errors"

	"github.com/spf13/cobra"
	"go.trai.ch/bowersync/internal/app"
	"go.trai.ch/bowersync/internal/core/domain"
	"go.trai.ch/bowersync/internal/ui/report"
)

func (c *CLI) newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Update the manifest to match the installed components",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			printer := report.New(cmd.OutOrStdout())

			res, err := c.app.Sync(cmd.Context(), c.opts, app.SyncOptions{DryRun: dryRun})
			if errors.Is(err, domain.ErrNothingToSync) {
				return printer.Message(domain.ErrNothingToSync.Error())
			}
			if err != nil {
				return err
			}
			return printer.Sync(res.Result, res.Preview)
		},
	}
	cmd.Flags().BoolP("dry-run", "n", false, "Show the manifest change without writing it")
	return cmd
}
