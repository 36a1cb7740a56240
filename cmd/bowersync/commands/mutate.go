package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/bowersync/internal/core/domain"
)

func (c *CLI) newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name> [version]",
		Short: "Declare a dependency",
		Long: "Declare a dependency. Without a version the installed version is used " +
			"with the configured range operator, or \"*\" when it is not installed.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			version := ""
			if len(args) == 2 {
				version = args[1]
			}
			depType := domain.Production
			if dev, _ := cmd.Flags().GetBool("dev"); dev {
				depType = domain.Development
			}
			return c.app.Add(cmd.Context(), c.opts, args[0], version, depType)
		},
	}
	cmd.Flags().BoolP("dev", "D", false, "Add to devDependencies")
	return cmd
}

func (c *CLI) newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Remove a dependency from the manifest",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Remove(cmd.Context(), c.opts, args[0])
		},
	}
}

func (c *CLI) newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Change the version or mapping of a declared dependency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var update domain.PackageUpdate
			if cmd.Flags().Changed("version") {
				version, _ := cmd.Flags().GetString("version")
				update.Version = &version
			}
			if cmd.Flags().Changed("type") {
				name, _ := cmd.Flags().GetString("type")
				depType, err := domain.ParseDependencyType(name)
				if err != nil {
					return err
				}
				update.DependencyType = &depType
			}
			return c.app.Update(cmd.Context(), c.opts, args[0], update)
		},
	}
	cmd.Flags().String("version", "", "New version range")
	cmd.Flags().StringP("type", "t", "", "New dependency type (production or development)")
	return cmd
}
