package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/m4xw311/nexus/errors"
	"github.com/m4xw311/nexus/session"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage chat history",
		Long: `Lists, clears and exports stored chats. The --session flag selects the chat.

Examples:
  nexus history list "work/*"
  nexus history clear -s work/today
  nexus history export -o chat.html`,
	}

	cmd.AddCommand(
		newHistoryListCmd(),
		newHistoryClearCmd(),
		newHistoryExportCmd(),
	)
	return cmd
}

func displayName(name string) string {
	if name == "" {
		return "(default)"
	}
	return name
}

func newHistoryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [pattern]",
		Short: "List stored chats, optionally filtered by a glob pattern",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			pattern := ""
			if len(args) == 1 {
				pattern = args[0]
			}
			names, err := session.List(a.kv, pattern)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No stored chats.")
				return nil
			}
			for _, name := range names {
				sess, err := session.Load(a.kv, name)
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t(unreadable)\n", displayName(name))
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d messages\n", displayName(name), len(sess.Messages))
			}
			return nil
		}),
	}
}

func newHistoryClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the selected chat",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			if err := a.session(cmd).Clear(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s.\n", displayName(sessionName(cmd)))
			return nil
		}),
	}
}

func newHistoryExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the selected chat as an HTML page",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			var w io.Writer = cmd.OutOrStdout()
			if path, _ := cmd.Flags().GetString("output"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return errors.Wrapf(err, "could not create %s", path)
				}
				defer f.Close()
				w = f
			}
			return a.session(cmd).ExportHTML(w, a.manager.Theme())
		}),
	}
	cmd.Flags().StringP("output", "o", "", "write to this file instead of stdout")
	return cmd
}
