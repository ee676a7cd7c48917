package cmd

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/zenml-io/mcp-zenml/internal/config"
	"github.com/zenml-io/mcp-zenml/internal/dispatch"
	"github.com/zenml-io/mcp-zenml/internal/tools"
	"github.com/zenml-io/mcp-zenml/internal/zenml"
)

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the operation catalog",
		Long: `Prints every operation the server exposes, with its arguments and
deprecation status. Nothing is contacted; this inspects the catalog only.`,
		RunE: runTools,
	}
}

func runTools(cmd *cobra.Command, args []string) error {
	cfg := config.GetDefaultConfig()
	registry := dispatch.NewRegistry()
	if err := tools.Register(registry, zenml.NewHolder(cfg.Store), &cfg); err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Operation", "Arguments", "Description"})

	for _, desc := range registry.Descriptors() {
		name := desc.Name
		if desc.Deprecated {
			name += " (deprecated)"
		}
		t.AppendRow(table.Row{name, formatArgs(desc.Args), desc.Description})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
	return nil
}

// formatArgs renders argument names one per line, required ones marked.
func formatArgs(specs []dispatch.ArgSpec) string {
	if len(specs) == 0 {
		return "-"
	}
	lines := make([]string, 0, len(specs))
	for _, spec := range specs {
		line := spec.Name
		if spec.Required {
			line += "*"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
