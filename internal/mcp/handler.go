// Package mcp exposes the portal's analysis and catalog operations as MCP
// tools over stateless streamable HTTP.
package mcp

import (
	"net/http"

	"github.com/bobmcallan/hedge-portal/internal/common"
	"github.com/bobmcallan/hedge-portal/internal/config"
	"github.com/bobmcallan/hedge-portal/internal/models"
	"github.com/bobmcallan/hedge-portal/internal/view"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// serverName is reported to MCP clients during initialize.
const serverName = "hedge-portal"

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	server     *mcpserver.MCPServer
	streamable *mcpserver.StreamableHTTPServer
	logger     *common.Logger
}

// NewHandler registers the portal tools and builds the HTTP transport.
// versions may be nil when the engine version is not available.
func NewHandler(analyzer view.Analyzer, catalog models.Catalog, versions VersionSource, logger *common.Logger) *Handler {
	srv := NewServer(analyzer, catalog, versions)

	streamable := mcpserver.NewStreamableHTTPServer(srv,
		mcpserver.WithStateLess(true),
	)

	logger.Info().
		Int("tools", len(toolNames)).
		Int("analysts", len(catalog.Analysts)).
		Int("models", len(catalog.Models)).
		Msg("MCP handler initialized")

	return &Handler{server: srv, streamable: streamable, logger: logger}
}

// NewServer creates an MCPServer with every portal tool registered.
func NewServer(analyzer view.Analyzer, catalog models.Catalog, versions VersionSource) *mcpserver.MCPServer {
	srv := mcpserver.NewMCPServer(
		serverName,
		config.GetVersion(),
		mcpserver.WithToolCapabilities(true),
	)
	RegisterTools(srv, analyzer, catalog, versions)
	return srv
}

// Server returns the underlying MCP server.
func (h *Handler) Server() *mcpserver.MCPServer {
	return h.server
}

// ServeHTTP delegates to the streamable HTTP transport.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.streamable.ServeHTTP(w, r)
}
