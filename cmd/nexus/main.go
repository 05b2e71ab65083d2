// Command nexus is a terminal chat client for Gemini, custom endpoints and
// other LLM providers, with an offline demo mode.
package main

import (
	"fmt"
	"os"

	"github.com/m4xw311/nexus/cmd/nexus/commands"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	rootCmd := commands.NewRootCmd(version)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}
