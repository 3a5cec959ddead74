package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the setup sequence",
		Long: "Run upgrades the packaging toolchain in one transaction and then\n" +
			"installs dependencies from the manifest. Steps run strictly in order\n" +
			"and the first failure stops the run with the failing tool's exit code.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runSetup(cmd)
		},
	}

	addSetupFlags(cmd)

	return cmd
}
