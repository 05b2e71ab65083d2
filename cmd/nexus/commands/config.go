package commands

import (
	"fmt"

	"github.com/m4xw311/nexus/config"
	"github.com/spf13/cobra"
)

// newConfigCmd creates `nexus config` to inspect and change the API setup.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the API configuration",
		Long: `Shows and changes which backend answers messages.

Examples:
  nexus config show
  nexus config gemini <api-key>
  nexus config custom https://example.com/chat [api-key]
  nexus config provider anthropic --model claude-3-5-haiku-latest
  nexus config demo
  nexus config theme dark`,
	}

	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigGeminiCmd(),
		newConfigCustomCmd(),
		newConfigProviderCmd(),
		newConfigDemoCmd(),
		newConfigThemeCmd(),
	)

	return cmd
}

// mask hides all but the last four characters of a secret.
func mask(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current configuration",
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			api := a.manager.API()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Mode:            %s\n", a.manager.Mode().Label)
			fmt.Fprintf(out, "Provider:        %s\n", api.Provider)
			fmt.Fprintf(out, "Demo mode:       %t\n", api.UseMock)
			fmt.Fprintf(out, "Gemini key:      %s\n", mask(api.GeminiKey))
			fmt.Fprintf(out, "Custom endpoint: %s\n", api.CustomEndpoint)
			fmt.Fprintf(out, "Custom key:      %s\n", mask(api.CustomKey))
			if api.Model != "" {
				fmt.Fprintf(out, "Model:           %s\n", api.Model)
			}
			fmt.Fprintf(out, "Theme:           %s\n", a.manager.Theme())
			fmt.Fprintf(out, "Storage:         %s (%s)\n", a.cfg.Storage.Backend, a.cfg.Storage.Path)
			return nil
		}),
	}
}

func newConfigGeminiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gemini <api-key>",
		Short: "Use Google Gemini with the given API key",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			if err := a.manager.SetGemini(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Gemini 2.0 API configured! Try sending a message to test.")
			return nil
		}),
	}
}

func newConfigCustomCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "custom <endpoint> [api-key]",
		Short: "Use a custom HTTP endpoint",
		Args:  cobra.RangeArgs(1, 2),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			key := ""
			if len(args) == 2 {
				key = args[1]
			}
			if err := a.manager.SetCustom(args[0], key); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Custom API configured! Try sending a message to test.")
			return nil
		}),
	}
}

func newConfigProviderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "provider <openai|anthropic|bedrock>",
		Short:     "Use an SDK-backed provider",
		Long:      "Credentials come from OPENAI_API_KEY, ANTHROPIC_API_KEY or the AWS default chain.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(config.ProviderOpenAI), string(config.ProviderAnthropic), string(config.ProviderBedrock)},
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			model, _ := cmd.Flags().GetString("model")
			if err := a.manager.SetProvider(config.Provider(args[0]), model); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", a.manager.Mode().Label)
			return nil
		}),
	}
	cmd.Flags().StringP("model", "m", "", "model id (provider default when empty)")
	return cmd
}

func newConfigDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Switch to demo mode (mock responses)",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			if err := a.manager.SetDemoMode(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Demo mode activated! Using mock responses.")
			return nil
		}),
	}
}

func newConfigThemeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "theme [light|dark]",
		Short: "Set or toggle the display theme",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			if len(args) == 1 {
				if err := a.manager.SetTheme(args[0]); err != nil {
					return err
				}
			} else if _, err := a.manager.ToggleTheme(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s.\n", a.manager.Theme())
			return nil
		}),
	}
}
