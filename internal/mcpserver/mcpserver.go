// Package mcpserver exposes the extraction engine as MCP tools over
// stdio, so coding agents can inventory a test suite without shelling
// out to the CLI.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server and registers all sift extraction tools.
type Server struct {
	server *mcp.Server
}

// NewServer creates a new MCP server with all sift tools registered.
func NewServer(version string) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "sift",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// registerTools adds all sift extraction tools to the server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "scan_tests",
		Description: describeScanTests(),
	}, handleScanTests)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "expand_outlines",
		Description: describeExpandOutlines(),
	}, handleExpandOutlines)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "classify_dataproviders",
		Description: describeClassifyProviders(),
	}, handleClassifyProviders)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "pageobject_tree",
		Description: describePageObjectTree(),
	}, handlePageObjectTree)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "detect_frameworks",
		Description: describeDetectFrameworks(),
	}, handleDetectFrameworks)
}
