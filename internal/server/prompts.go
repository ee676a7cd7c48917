package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Canned analysis prompts. They carry no arguments; the value is a curated
// starting point that steers a caller toward the right tools.
const (
	stackAnalysisPrompt = "Please generate a comprehensive report or dashboard on our ZenML " +
		"stack components, showing which ones are most frequently used across our pipelines. " +
		"Include information about version compatibility issues and performance variations."

	recentRunsPrompt = "Please generate a comprehensive report or dashboard on our recent runs, " +
		"showing which pipelines are most frequently run and which ones are most frequently failed. " +
		"Include information about the status of the runs, the duration, and the stack components used."
)

func (s *Server) registerPrompts() {
	s.mcpServer.AddPrompts(
		mcpserver.ServerPrompt{
			Prompt: mcp.Prompt{
				Name:        "stack_components_analysis",
				Description: "Analyze the stack components in the ZenML workspace.",
			},
			Handler: staticPrompt("Stack components analysis", stackAnalysisPrompt),
		},
		mcpserver.ServerPrompt{
			Prompt: mcp.Prompt{
				Name:        "recent_runs_analysis",
				Description: "Analyze the recent pipeline runs in the ZenML workspace.",
			},
			Handler: staticPrompt("Recent runs analysis", recentRunsPrompt),
		},
	)
}

func staticPrompt(description, text string) func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return &mcp.GetPromptResult{
			Description: description,
			Messages: []mcp.PromptMessage{
				{Role: mcp.RoleUser, Content: mcp.NewTextContent(text)},
			},
		}, nil
	}
}
