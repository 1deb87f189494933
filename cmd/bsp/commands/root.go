// Package commands implements the CLI commands for bsp.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/bsp/internal/app"
	"go.trai.ch/bsp/internal/build"
	"go.trai.ch/bsp/internal/core/domain"
)

// CLI represents the command line interface for bsp.
type CLI struct {
	app     Application
	logger  jsonSwitch
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Compile(ctx context.Context, targets []string, opts app.CompileOptions) (*domain.CompileResult, error)
	Targets(ctx context.Context, opts app.TargetsOptions) ([]app.BuildTargetInfo, error)
	Clean(ctx context.Context, opts app.CleanOptions) error
}

// jsonSwitch is implemented by loggers that can switch to JSON output.
type jsonSwitch interface {
	SetJSON(enable bool)
}

// New creates a new CLI instance with the given app.
// When logger can switch to JSON output, the --json-logs flag is honored.
func New(a Application, logger any) *CLI {
	rootCmd := &cobra.Command{
		Use:           "bsp",
		Short:         "Compile build targets with every applicable compiler backend",
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

	rootCmd.PersistentFlags().Bool("json-logs", false, "Write logs as JSON")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}
	if sw, ok := logger.(jsonSwitch); ok {
		c.logger = sw
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if jsonLogs, _ := cmd.Flags().GetBool("json-logs"); jsonLogs && c.logger != nil {
			c.logger.SetJSON(true)
		}
	}

	rootCmd.AddCommand(c.newCompileCmd())
	rootCmd.AddCommand(c.newTargetsCmd())
	rootCmd.AddCommand(c.newCleanCmd())
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
