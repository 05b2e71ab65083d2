// Package commands implements the nexus CLI using cobra.
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command with every subcommand registered.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nexus",
		Short: "Nexus AI - terminal chat assistant",
		Long: `Nexus AI is a chat assistant for the terminal. It answers with Google
Gemini, a custom HTTP endpoint, OpenAI, Anthropic or Bedrock, and falls back
to a built-in demo mode when no provider is configured.

Examples:
  nexus chat "What is a goroutine?"
  nexus config gemini <api-key>
  nexus history export -o chat.html`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newChatCmd(),
		newConfigCmd(),
		newTestCmd(),
		newModelsCmd(),
		newHistoryCmd(),
		newResetCmd(),
	)

	rootCmd.PersistentFlags().StringP("config", "c", "", "path to a config file (skips the default locations)")
	rootCmd.PersistentFlags().StringP("session", "s", "", "named chat session to use")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logs")

	return rootCmd
}
