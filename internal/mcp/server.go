package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/osaleh/docvec/internal/search"
	"github.com/osaleh/docvec/internal/store"
)

// Server wraps the MCP server with its dependencies.
type Server struct {
	server     *mcp.Server
	store      *store.Store
	search     *search.Service
	collection string
}

// Config holds server dependencies.
type Config struct {
	Store      *store.Store
	Search     *search.Service
	Collection string
}

// NewServer creates a configured MCP server with tools registered.
func NewServer(cfg *Config) *Server {
	impl := &mcp.Implementation{
		Name:    "docvec-server",
		Version: "v0.1.0",
	}

	server := mcp.NewServer(impl, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_documents",
		Description: "Search ingested documents semantically. Returns the most similar stored records with their text and metadata.",
	}, makeSearchHandler(cfg.Search, cfg.Collection))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "collection_status",
		Description: "Report the target collection name and how many records it holds.",
	}, makeStatusHandler(cfg.Store, cfg.Collection))

	return &Server{
		server:     server,
		store:      cfg.Store,
		search:     cfg.Search,
		collection: cfg.Collection,
	}
}

// Run starts the server with stdio transport (blocks until client disconnects).
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// MCPServer returns the underlying MCP server instance.
// Used by transport handlers that need to wrap the server.
func (s *Server) MCPServer() *mcp.Server {
	return s.server
}
