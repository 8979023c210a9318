package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/layerlint/layerlint/internal/application"
)

const (
	rulesURI  = "layerlint://rules"
	configURI = "layerlint://config"
)

// registerResources registers all layerlint MCP resources on the given server.
func registerResources(s *server.MCPServer, projectPath string, svc *application.LintService) {
	s.AddResource(
		mcplib.NewResource(
			rulesURI,
			"Rules",
			mcplib.WithResourceDescription("Rule catalogue with the project's effective severities"),
			mcplib.WithMIMEType("application/json"),
		),
		handleRulesResource(projectPath, svc),
	)

	s.AddResource(
		mcplib.NewResource(
			configURI,
			"Configuration",
			mcplib.WithResourceDescription("Effective lint configuration, defaults included"),
			mcplib.WithMIMEType("application/json"),
		),
		handleConfigResource(projectPath, svc),
	)
}

func handleRulesResource(projectPath string, svc *application.LintService) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		infos, err := svc.Rules(projectPath)
		if err != nil {
			return nil, fmt.Errorf("loading rules failed: %w", err)
		}
		return jsonContents(rulesURI, infos)
	}
}

func handleConfigResource(projectPath string, svc *application.LintService) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		engine, err := svc.Engine(projectPath)
		if err != nil {
			return nil, err
		}
		return jsonContents(configURI, engine.Config())
	}
}

func jsonContents(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
