package commands

import (
	"fmt"

	"github.com/m4xw311/nexus/config"
	"github.com/m4xw311/nexus/store"
	"github.com/spf13/cobra"
)

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the stored configuration, theme and all chats",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			if err := store.ClearAll(a.kv); err != nil {
				return err
			}
			if a.cfg.Credentials.Keyring {
				if err := config.DeleteKeyrings(); err != nil {
					a.logger.Warn("could not clear keyring", "error", err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All stored data cleared.")
			return nil
		}),
	}
}
