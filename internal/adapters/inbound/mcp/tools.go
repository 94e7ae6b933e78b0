package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/abdidvp/themecheck/internal/adapters/outbound/tui"
	"github.com/abdidvp/themecheck/internal/application"
	"github.com/abdidvp/themecheck/internal/bootstrap"
	"github.com/abdidvp/themecheck/internal/domain"
)

func registerTools(s *server.MCPServer, rootPath string, logger *zap.Logger) {
	s.AddTool(
		mcplib.NewTool("themecheck_analyze",
			mcplib.WithDescription("Run the enabled checks over a theme and return the offenses as JSON"),
			mcplib.WithString("path", mcplib.Description("Theme directory (default: the server root)")),
			mcplib.WithString("category", mcplib.Description("Comma-separated categories to run exclusively")),
			mcplib.WithString("exclude_category", mcplib.Description("Comma-separated categories to skip")),
			mcplib.WithBoolean("auto_correct", mcplib.Description("Rewrite templates to fix correctable offenses")),
		),
		handleAnalyze(rootPath, logger),
	)

	s.AddTool(
		mcplib.NewTool("themecheck_list_checks",
			mcplib.WithDescription("List the checks enabled for a theme"),
			mcplib.WithString("path", mcplib.Description("Theme directory (default: the server root)")),
		),
		handleListChecks(rootPath, logger),
	)
}

func handleAnalyze(rootPath string, logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		svc, err := bootstrap.NewThemeCheckService(logger)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		report, err := svc.Run(ctx, request.GetString("path", rootPath), application.RunOptions{
			OnlyCategories:    splitCategories(request.GetString("category", "")),
			ExcludeCategories: splitCategories(request.GetString("exclude_category", "")),
			AutoCorrect:       request.GetBool("auto_correct", false),
		})
		if errors.Is(err, application.ErrNoTemplates) {
			return errorResult("No templates found."), nil
		}
		if err != nil {
			return errorResult(fmt.Sprintf("analysis failed: %v", err)), nil
		}

		data, err := tui.RenderJSON(report)
		if err != nil {
			return nil, fmt.Errorf("marshaling report: %w", err)
		}
		return textResult(string(data)), nil
	}
}

func handleListChecks(rootPath string, logger *zap.Logger) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		list, err := listChecks(request.GetString("path", rootPath), logger)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(list)
	}
}

type checkInfo struct {
	Name     string         `json:"name"`
	Code     string         `json:"code"`
	Category string         `json:"category"`
	Options  domain.Options `json:"options,omitempty"`
	// Hooks lists the traversal hooks of template checks, e.g. "enter:variable".
	Hooks []string `json:"hooks,omitempty"`
}

func listChecks(path string, logger *zap.Logger) ([]checkInfo, error) {
	svc, err := bootstrap.NewThemeCheckService(logger)
	if err != nil {
		return nil, err
	}
	_, checks, err := svc.Prepare(path, application.RunOptions{})
	if err != nil {
		return nil, err
	}
	out := make([]checkInfo, 0, len(checks))
	for _, c := range checks {
		info := checkInfo{
			Name:     c.Name(),
			Code:     domain.CheckCode(c.Name()),
			Category: string(c.Category()),
			Options:  c.Options(),
		}
		if tc, ok := c.(domain.TemplateCheck); ok {
			info.Hooks = tc.Visitor().Hooks()
		}
		out = append(out, info)
	}
	return out, nil
}

func splitCategories(s string) []domain.Category {
	var out []domain.Category
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, domain.Category(part))
		}
	}
	return out
}

// jsonResult marshals v to indented JSON and returns it as a text result.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return textResult(string(data)), nil
}

func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
