package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Send a test message through the current configuration",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Testing API connection...")
			fmt.Fprintln(cmd.OutOrStdout(), a.agent(cmd).SelfTest(cmd.Context()))
			return nil
		}),
	}
}
