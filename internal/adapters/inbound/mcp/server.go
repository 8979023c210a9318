package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/layerlint/layerlint/internal/application"
)

// NewLayerlintMCPServer creates an MCP server with all layerlint tools and
// resources registered. projectPath is the root directory of the project
// to analyze.
func NewLayerlintMCPServer(projectPath string, svc *application.LintService) *server.MCPServer {
	s := server.NewMCPServer(
		"layerlint",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, projectPath, svc)
	registerResources(s, projectPath, svc)

	return s
}
