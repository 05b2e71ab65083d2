package commands

import (
	"fmt"

	"github.com/m4xw311/nexus/llm"
	"github.com/spf13/cobra"
)

func newModelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the Gemini models",
		Long: `Lists the Gemini models tried in order, or with --remote the models the
configured API key can access.`,
		Args: cobra.NoArgs,
		RunE: withApp(runModels),
	}
	cmd.Flags().Bool("remote", false, "ask the Gemini API for the available models")
	return cmd
}

func runModels(cmd *cobra.Command, _ []string, a *app) error {
	out := cmd.OutOrStdout()
	remote, _ := cmd.Flags().GetBool("remote")
	if !remote {
		for _, m := range llm.KnownModels() {
			fmt.Fprintf(out, "%s (%s)\n", m.Name, m.Description)
		}
		return nil
	}

	models, err := llm.ListRemoteModels(cmd.Context(), a.manager.API().GeminiKey)
	if err != nil {
		return err
	}
	for _, m := range models {
		fmt.Fprintf(out, "%-40s %s\n", m.Name, m.Description)
	}
	return nil
}
