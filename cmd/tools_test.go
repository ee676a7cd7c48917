package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolsCommand_PrintsCatalog(t *testing.T) {
	cmd := newToolsCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, cmd.RunE(cmd, nil))

	rendered := out.String()
	assert.Contains(t, rendered, "list_pipeline_runs")
	assert.Contains(t, rendered, "trigger_pipeline")
	assert.Contains(t, rendered, "get_run_template (deprecated)")
	assert.Contains(t, rendered, "name_id_or_prefix*")
}

func TestVersionCommand(t *testing.T) {
	rootCmd.Version = "1.2.3-test"
	cmd := newVersionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	cmd.Run(cmd, nil)
	assert.Contains(t, out.String(), "mcp-zenml version 1.2.3-test")
}
