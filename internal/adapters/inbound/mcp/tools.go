package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/layerlint/layerlint/internal/application"
	"github.com/layerlint/layerlint/internal/domain"
)

// registerTools registers all layerlint MCP tools on the given server.
func registerTools(s *server.MCPServer, projectPath string, svc *application.LintService) {
	s.AddTool(
		mcplib.NewTool("layerlint_lint",
			mcplib.WithDescription("Lint the whole project and return the report as JSON"),
			mcplib.WithBoolean("baseline", mcplib.Description("Suppress diagnostics accepted in the project baseline")),
			mcplib.WithBoolean("changed", mcplib.Description("Only lint files changed in the git worktree")),
		),
		handleLint(projectPath, svc),
	)

	s.AddTool(
		mcplib.NewTool("layerlint_lint_file",
			mcplib.WithDescription("Lint a single file and return its classification and diagnostics"),
			mcplib.WithString("file",
				mcplib.Required(),
				mcplib.Description("Path of the file relative to the project root"),
			),
		),
		handleLintFile(projectPath, svc),
	)

	s.AddTool(
		mcplib.NewTool("layerlint_classify_path",
			mcplib.WithDescription("Return the layer, role hint and exclusion status of one or more paths"),
			mcplib.WithString("path",
				mcplib.Required(),
				mcplib.Description("Comma-separated paths relative to the project root; they need not exist"),
			),
		),
		handleClassifyPath(projectPath, svc),
	)

	s.AddTool(
		mcplib.NewTool("layerlint_suggest_exception_name",
			mcplib.WithDescription("Check an exception class name against the layer of a file and suggest a feature-scoped name"),
			mcplib.WithString("name",
				mcplib.Required(),
				mcplib.Description("Exception class name, e.g. NotFoundException"),
			),
			mcplib.WithString("file",
				mcplib.Required(),
				mcplib.Description("Path of the file declaring or throwing it"),
			),
		),
		handleSuggestExceptionName(projectPath, svc),
	)

	s.AddTool(
		mcplib.NewTool("layerlint_list_rules",
			mcplib.WithDescription("List the rule catalogue with the project's effective severities"),
		),
		handleListRules(projectPath, svc),
	)
}

func handleLint(projectPath string, svc *application.LintService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		report, err := svc.Lint(ctx, projectPath, application.LintOptions{
			UseBaseline: request.GetBool("baseline", false),
			Changed:     request.GetBool("changed", false),
		})
		if err != nil {
			return errorResult(fmt.Sprintf("lint failed: %v", err)), nil
		}
		return jsonResult(report)
	}
}

func handleLintFile(projectPath string, svc *application.LintService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		file, err := request.RequireString("file")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		report, err := svc.Lint(ctx, projectPath, application.LintOptions{Files: []string{file}})
		if err != nil {
			return errorResult(fmt.Sprintf("lint failed: %v", err)), nil
		}
		switch {
		case len(report.Files) == 1:
			return jsonResult(report.Files[0])
		case report.Summary.FilesExcluded > 0:
			classes, err := svc.ClassifyPaths(projectPath, []string{file})
			if err != nil {
				return errorResult(err.Error()), nil
			}
			return jsonResult(domain.FileReport{Path: classes[0].Path, Class: classes[0], Diagnostics: []domain.Diagnostic{}})
		default:
			return errorResult(fmt.Sprintf("%s could not be analyzed", file)), nil
		}
	}
}

func handleClassifyPath(projectPath string, svc *application.LintService) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		paths, err := request.RequireString("path")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		classes, err := svc.ClassifyPaths(projectPath, splitAndTrim(paths))
		if err != nil {
			return errorResult(fmt.Sprintf("classify failed: %v", err)), nil
		}
		return jsonResult(classes)
	}
}

func handleSuggestExceptionName(projectPath string, svc *application.LintService) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		file, err := request.RequireString("file")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		sg, err := svc.SuggestExceptionName(projectPath, name, file)
		if err != nil {
			return errorResult(fmt.Sprintf("suggest failed: %v", err)), nil
		}
		return jsonResult(sg)
	}
}

func handleListRules(projectPath string, svc *application.LintService) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		infos, err := svc.Rules(projectPath)
		if err != nil {
			return errorResult(fmt.Sprintf("loading rules failed: %v", err)), nil
		}
		return jsonResult(infos)
	}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
