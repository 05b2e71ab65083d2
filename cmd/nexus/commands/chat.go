package commands

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/m4xw311/nexus/agent/terminal"
	"github.com/spf13/cobra"
)

// newChatCmd creates the `nexus chat` command.
func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Chat with the assistant",
		Long: `Sends one message, or starts an interactive chat when no message is given.

Examples:
  nexus chat "Tell me a joke"
  nexus chat          # interactive mode
  nexus chat -s work  # continue the "work" session`,
		RunE: withApp(runChat),
	}
	return cmd
}

func runChat(cmd *cobra.Command, args []string, a *app) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	term := terminal.NewWithIO(a.agent(cmd), cmd.InOrStdin(), cmd.OutOrStdout())
	if len(args) > 0 {
		return term.Once(ctx, strings.Join(args, " "))
	}
	return term.Run(ctx, "")
}
