// Package commands implements the CLI commands for the pave setup tool.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/paveproject/pave/internal/app"
	"github.com/paveproject/pave/internal/build"
	"github.com/paveproject/pave/internal/core/ports"
	"github.com/spf13/cobra"
)

// CLI represents the command line interface for pave.
type CLI struct {
	app     Application
	logger  ports.Logger
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Run(ctx context.Context, opts app.RunOptions) error
	Doctor(ctx context.Context, opts app.DoctorOptions) error
	Clean(ctx context.Context) error
}

// New creates a new CLI instance with the given app.
func New(a Application, log ports.Logger) *CLI {
	c := &CLI{
		app:    a,
		logger: log,
	}

	rootCmd := &cobra.Command{
		Use:   "pave",
		Short: "One-command environment setup for Python projects",
		Long: "pave prepares a Python project for work: it upgrades the packaging\n" +
			"toolchain and installs the project's dependencies, in that order,\n" +
			"stopping at the first failure. Running pave with no subcommand runs\n" +
			"the setup sequence.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			c.applyGlobalFlags(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runSetup(cmd)
		},
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

	rootCmd.PersistentFlags().StringP("profile", "p", "", "Setup profile to run (default \"local\")")
	rootCmd.PersistentFlags().String("config", "", "Path to the configuration file (default: discover pave.yaml)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress package manager output, keep step results")
	rootCmd.PersistentFlags().Bool("log-json", false, "Log diagnostics as JSON")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	addSetupFlags(rootCmd)

	c.rootCmd = rootCmd

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newDoctorCmd())
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

// addSetupFlags registers the flags shared by the bare root command and the
// run subcommand.
func addSetupFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("manifest", "m", "", "Dependency manifest to install from (overrides the profile)")
	cmd.Flags().Bool("skip-unchanged", false, "Skip the install step when the manifest is unchanged since the last run")
	cmd.Flags().BoolP("watch", "w", false, "Re-run setup when the manifest or configuration changes")
	cmd.Flags().Bool("dry-run", false, "Show the setup plan without executing it")
}

// applyGlobalFlags applies presentation flags before any command runs.
func (c *CLI) applyGlobalFlags(cmd *cobra.Command) {
	if jsonLogs, _ := cmd.Flags().GetBool("log-json"); jsonLogs {
		c.logger.SetJSON(true)
	}
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		// termenv and lipgloss read the environment, so the flag sets the
		// conventional variable instead of threading a knob everywhere.
		_ = os.Setenv("NO_COLOR", "1")
	}
}

// runSetup reads the setup flags off cmd and runs the sequence.
func (c *CLI) runSetup(cmd *cobra.Command) error {
	profile, _ := cmd.Flags().GetString("profile")
	configFile, _ := cmd.Flags().GetString("config")
	manifest, _ := cmd.Flags().GetString("manifest")
	skipUnchanged, _ := cmd.Flags().GetBool("skip-unchanged")
	watch, _ := cmd.Flags().GetBool("watch")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	quiet, _ := cmd.Flags().GetBool("quiet")

	return c.app.Run(cmd.Context(), app.RunOptions{
		Profile:       profile,
		ConfigFile:    configFile,
		Manifest:      manifest,
		SkipUnchanged: skipUnchanged,
		Watch:         watch,
		DryRun:        dryRun,
		Quiet:         quiet,
	})
}
