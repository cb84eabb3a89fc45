package mcp

import (
	"github.com/bobmcallan/hedge-portal/internal/models"
	"github.com/bobmcallan/hedge-portal/internal/view"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

var toolNames = []string{"run_analysis", "list_analysts", "list_models", "get_version"}

// RunAnalysisTool describes run_analysis.
func RunAnalysisTool() mcp.Tool {
	return mcp.NewTool("run_analysis",
		mcp.WithDescription("Run the AI hedge fund analysis for a set of tickers and return the portfolio summary and positions."),
		mcp.WithString("tickers",
			mcp.Required(),
			mcp.Description("Comma-separated ticker symbols, e.g. AAPL,MSFT,NVDA"),
		),
		mcp.WithArray("analysts",
			mcp.WithStringItems(),
			mcp.Description("Analyst ids to include (see list_analysts). Empty means the engine default."),
		),
		mcp.WithString("model",
			mcp.Description("Model id (see list_models). Defaults to the configured model."),
		),
		mcp.WithString("provider",
			mcp.Description("Model provider. Defaults to the configured provider."),
		),
	)
}

// ListAnalystsTool describes list_analysts.
func ListAnalystsTool() mcp.Tool {
	return mcp.NewTool("list_analysts",
		mcp.WithDescription("List the analyst personas that can be selected for an analysis."),
	)
}

// ListModelsTool describes list_models.
func ListModelsTool() mcp.Tool {
	return mcp.NewTool("list_models",
		mcp.WithDescription("List the language models and providers available for an analysis."),
	)
}

// VersionTool describes get_version.
func VersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the portal and analysis engine versions. Use this to verify connectivity."),
	)
}

// RegisterTools adds every portal tool to s.
func RegisterTools(s *server.MCPServer, analyzer view.Analyzer, catalog models.Catalog, versions VersionSource) {
	s.AddTool(RunAnalysisTool(), RunAnalysisHandler(analyzer))
	s.AddTool(ListAnalystsTool(), ListAnalystsHandler(catalog))
	s.AddTool(ListModelsTool(), ListModelsHandler(catalog))
	s.AddTool(VersionTool(), VersionToolHandler(versions))
}
