package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"disasexpl/internal/asm"
	"disasexpl/internal/config"
	"disasexpl/internal/document"
)

const (
	// ServerName is the MCP server name
	ServerName = "disasexpl"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp   *server.MCPServer
	cfg   *config.Config
	cache *document.Cache
}

// NewServer creates a new MCP server instance. Listings are parsed with p
// and cached between calls.
func NewServer(cfg *config.Config, p *asm.Parser) *Server {
	s := &Server{
		mcp:   server.NewMCPServer(ServerName, ServerVersion),
		cfg:   cfg,
		cache: document.NewCache(p, document.DefaultCacheSize),
	}
	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer s.cache.Purge()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(parseListingTool(), s.handleParseListing)
	s.mcp.AddTool(sourceMapTool(), s.handleSourceMap)
	s.mcp.AddTool(resolvePathTool(), s.handleResolvePath)
}
