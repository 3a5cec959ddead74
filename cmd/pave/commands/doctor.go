package commands

import (
	"github.com/paveproject/pave/internal/app"
	"github.com/spf13/cobra"
)

func (c *CLI) newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that this machine can run setup",
		Long: "Doctor probes the interpreter, pip, the dependency manifest, and the\n" +
			"profile's required environment variables without changing anything.\n" +
			"It exits non-zero when any check fails.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, _ := cmd.Flags().GetString("profile")
			configFile, _ := cmd.Flags().GetString("config")

			return c.app.Doctor(cmd.Context(), app.DoctorOptions{
				Profile:    profile,
				ConfigFile: configFile,
			})
		},
	}
}
