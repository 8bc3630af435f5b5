// Package server exposes a tool registry over the Model Context Protocol.
package server

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/chrisdamba/trafficmcp/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

const (
	Name    = "traffic-data-server"
	Version = "1.0.0"
)

// NewMCPServer declares every registered tool on a fresh MCP server.
func NewMCPServer(registry *tools.Registry) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer(Name, Version, mcpserver.WithToolCapabilities(true))
	for _, tool := range registry.Tools() {
		s.AddTool(toMCPTool(tool), handlerFor(registry, tool.Name))
	}
	return s
}

func toMCPTool(t tools.Tool) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(t.Description)}
	for _, p := range t.Params {
		propOpts := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			propOpts = append(propOpts, mcp.Required())
		}
		switch p.Type {
		case tools.ParamNumber:
			opts = append(opts, mcp.WithNumber(p.Name, propOpts...))
		case tools.ParamArray:
			propOpts = append(propOpts, mcp.Items(map[string]any{"type": "string"}))
			opts = append(opts, mcp.WithArray(p.Name, propOpts...))
		default:
			opts = append(opts, mcp.WithString(p.Name, propOpts...))
		}
	}
	return mcp.NewTool(t.Name, opts...)
}

func handlerFor(registry *tools.Registry, name string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res := registry.Call(ctx, name, req.GetArguments())
		if res.IsError {
			return mcp.NewToolResultError(res.Text), nil
		}
		return mcp.NewToolResultText(res.Text), nil
	}
}

// ServeStdio answers requests on stdin/stdout until ctx is cancelled or the
// client hangs up. Diagnostics go to stderr.
func ServeStdio(ctx context.Context, registry *tools.Registry) error {
	return Serve(ctx, registry, os.Stdin, os.Stdout)
}

func Serve(ctx context.Context, registry *tools.Registry, in io.Reader, out io.Writer) error {
	stdio := mcpserver.NewStdioServer(NewMCPServer(registry))
	stdio.SetErrorLogger(log.New(os.Stderr, "", log.LstdFlags))
	log.Printf("%s %s serving %d tools on stdio", Name, Version, len(registry.Tools()))
	return stdio.Listen(ctx, in, out)
}
