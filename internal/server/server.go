package server

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/zenml-io/mcp-zenml/internal/config"
	"github.com/zenml-io/mcp-zenml/internal/dispatch"
	"github.com/zenml-io/mcp-zenml/pkg/logging"
)

const serverName = "mcp-zenml"

// Server exposes the operation catalog over the MCP protocol.
type Server struct {
	mcpServer  *mcpserver.MCPServer
	dispatcher *dispatch.Dispatcher
	cfg        config.ServerConfig

	sseServer  *mcpserver.SSEServer
	httpServer *mcpserver.StreamableHTTPServer
}

// New assembles the MCP server from the registered operation catalog. Every
// descriptor becomes one MCP tool whose handler funnels through the
// dispatcher, so validation, classification, and deprecation annotation are
// uniform across the surface.
func New(version string, cfg config.ServerConfig, dispatcher *dispatch.Dispatcher) *Server {
	s := &Server{
		mcpServer: mcpserver.NewMCPServer(
			serverName,
			version,
			mcpserver.WithToolCapabilities(true),
			mcpserver.WithPromptCapabilities(true),
		),
		dispatcher: dispatcher,
		cfg:        cfg,
	}

	s.mcpServer.AddTools(s.buildTools()...)
	s.registerPrompts()
	return s
}

// buildTools converts every registered descriptor into an MCP tool.
func (s *Server) buildTools() []mcpserver.ServerTool {
	descriptors := s.dispatcher.Registry().Descriptors()
	tools := make([]mcpserver.ServerTool, 0, len(descriptors))

	for _, desc := range descriptors {
		tools = append(tools, mcpserver.ServerTool{
			Tool: mcp.Tool{
				Name:        desc.Name,
				Description: desc.Description,
				InputSchema: toMCPSchema(desc.Args),
			},
			Handler: s.toolHandler(desc.Name),
		})
	}
	return tools
}

// toolHandler adapts one operation to the MCP call signature.
func (s *Server) toolHandler(operation string) func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := s.dispatcher.Dispatch(ctx, operation, req.GetArguments())
		return toMCPResult(operation, result), nil
	}
}

// Start serves the configured transport until ctx is canceled or the
// transport shuts down. Under stdio, stdout carries protocol frames only;
// all diagnostics go to stderr.
func (s *Server) Start(ctx context.Context) error {
	switch s.cfg.Transport {
	case config.MCPTransportStdio, "":
		logging.Info("Server", "Serving MCP over stdio")
		stdio := mcpserver.NewStdioServer(s.mcpServer)
		return stdio.Listen(ctx, os.Stdin, os.Stdout)

	case config.MCPTransportSSE:
		addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
		logging.Info("Server", "Serving MCP over SSE on %s", addr)
		s.sseServer = mcpserver.NewSSEServer(s.mcpServer)
		return s.sseServer.Start(addr)

	case config.MCPTransportStreamableHTTP:
		addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
		logging.Info("Server", "Serving MCP over streamable HTTP on %s", addr)
		s.httpServer = mcpserver.NewStreamableHTTPServer(s.mcpServer)
		return s.httpServer.Start(addr)

	default:
		return fmt.Errorf("unknown transport %q (expected stdio, sse, or streamable-http)", s.cfg.Transport)
	}
}

// Stop shuts down a network transport. The stdio transport stops with its
// context.
func (s *Server) Stop(ctx context.Context) error {
	if s.sseServer != nil {
		return s.sseServer.Shutdown(ctx)
	}
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
