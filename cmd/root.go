package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the entry point when the binary is called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "mcp-zenml",
	Short: "MCP server exposing a remote ZenML server to AI assistants",
	Long: `mcp-zenml is a Model Context Protocol server that exposes read and
trigger operations of a remote ZenML server: pipelines, runs, steps,
stacks, snapshots, deployments, models, artifacts, and more.

It connects to the ZenML server named by ZENML_STORE_URL, authenticating
with ZENML_STORE_API_KEY. Run 'mcp-zenml tools' to inspect the operation
catalog, or 'mcp-zenml serve' to start serving.`,
	// SilenceUsage keeps handled errors from being drowned in usage text.
	SilenceUsage: true,
}

// SetVersion injects the build version from the main package.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the CLI.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "mcp-zenml version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newToolsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
