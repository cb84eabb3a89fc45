package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bobmcallan/hedge-portal/internal/analysis"
	"github.com/bobmcallan/hedge-portal/internal/models"
	"github.com/bobmcallan/hedge-portal/internal/view"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(text)},
	}
}

func jsonResult(v interface{}) *mcp.CallToolResult {
	out, err := json.Marshal(v)
	if err != nil {
		return errorResult("failed to encode result: " + err.Error())
	}
	return textResult(string(out))
}

// RunAnalysisHandler runs an analysis and returns the rendered results as markdown.
func RunAnalysisHandler(analyzer view.Analyzer) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		req := models.AnalysisRequest{
			Tickers:  request.GetString("tickers", ""),
			Analysts: request.GetStringSlice("analysts", []string{}),
			Model:    request.GetString("model", ""),
			Provider: request.GetString("provider", ""),
		}
		if strings.TrimSpace(req.Tickers) == "" {
			return errorResult("tickers is required"), nil
		}

		result, err := analyzer.Analyze(ctx, req)
		if err != nil {
			return errorResult(analysis.UserMessage(err)), nil
		}
		return textResult(FormatResults(view.Render(result))), nil
	}
}

// ListAnalystsHandler returns the analyst catalog as JSON.
func ListAnalystsHandler(catalog models.Catalog) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(catalog.Analysts), nil
	}
}

// ListModelsHandler returns the model catalog as JSON.
func ListModelsHandler(catalog models.Catalog) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(catalog.Models), nil
	}
}

// FormatResults renders a results view as markdown.
func FormatResults(v view.ResultsView) string {
	if v.Notice != nil {
		return v.Notice.Text
	}

	var b strings.Builder
	b.WriteString("## Portfolio Summary\n\n")
	fmt.Fprintf(&b, "- Cash: %s\n", v.Summary.Cash)
	fmt.Fprintf(&b, "- Total Value: %s\n\n", v.Summary.TotalValue)

	b.WriteString("## Positions\n\n")
	b.WriteString("| " + strings.Join(v.Positions.Columns, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(v.Positions.Columns)) + "\n")

	if ph := v.Positions.Placeholder; ph != nil {
		cells := make([]string, ph.Colspan)
		cells[0] = ph.Text
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		return b.String()
	}

	for _, row := range v.Positions.Rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			row.Ticker, row.Shares, row.EntryPrice, row.CurrentPrice, row.PnL, row.Signal)
	}
	return b.String()
}
