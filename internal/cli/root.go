// Package cli contains the campaignctl commands.
package cli

import (
	"github.com/spf13/cobra"

	"campaign-validator/internal/config"
)

// NewRootCmd creates a fresh command tree.
func NewRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:           "campaignctl",
		Short:         "Validate advertising campaign plans against campaign-template policies",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			config.SetupLoggingTo(cmd.ErrOrStderr(), logLevel)
		},
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newValidateCmd(), newArchetypesCmd())
	return cmd
}
