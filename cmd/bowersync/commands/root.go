// Package commands implements the CLI commands for bowersync.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/bowersync/internal/app"
	"go.trai.ch/bowersync/internal/build"
	"go.trai.ch/bowersync/internal/core/domain"
	"go.trai.ch/bowersync/internal/core/ports"
)

// CLI represents the command line interface for bowersync.
type CLI struct {
	app     Application
	logger  ports.Logger
	rootCmd *cobra.Command
	opts    app.Options
	logJSON bool
}

// Application represents the application logic interface.
type Application interface {
	Init(ctx context.Context, opts app.Options, initOpts app.InitOptions) error
	Status(ctx context.Context, opts app.Options) (*domain.Status, error)
	Sync(ctx context.Context, opts app.Options, syncOpts app.SyncOptions) (*app.SyncReport, error)
	Add(ctx context.Context, opts app.Options, name, version string, depType domain.DependencyType) error
	Remove(ctx context.Context, opts app.Options, name string) error
	Update(ctx context.Context, opts app.Options, name string, update domain.PackageUpdate) error
	List(ctx context.Context, opts app.Options) (domain.DependencySnapshot, error)
	Watch(ctx context.Context, opts app.Options, watchOpts app.WatchOptions) error
}

// jsonSwitcher is implemented by loggers that can emit JSON.
type jsonSwitcher interface {
	SetJSON(enable bool)
}

// New creates a new CLI instance with the given app and logger.
func New(a Application, log ports.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "bowersync",
		Short:         "Keep bower.json in sync with installed components",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		logger:  log,
		rootCmd: rootCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.opts.Dir, "dir", "C", ".", "Project directory containing the manifest")
	flags.StringVar(&c.opts.ConfigPath, "config", "", "Path to the bowersync config file")
	flags.BoolVar(&c.logJSON, "log-json", false, "Write logs as JSON")

	rootCmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		if s, ok := c.logger.(jsonSwitcher); ok && c.logJSON {
			s.SetJSON(true)
		}
	}

	rootCmd.AddCommand(c.newInitCmd())
	rootCmd.AddCommand(c.newStatusCmd())
	rootCmd.AddCommand(c.newSyncCmd())
	rootCmd.AddCommand(c.newAddCmd())
	rootCmd.AddCommand(c.newRemoveCmd())
	rootCmd.AddCommand(c.newUpdateCmd())
	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
