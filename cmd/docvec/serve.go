package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mcpserver "github.com/osaleh/docvec/internal/mcp"
	"github.com/osaleh/docvec/internal/search"
)

var (
	serveCollection string
	serveHTTP       bool
	servePort       string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve document search over MCP",
	Long: `Runs an MCP server exposing the search_documents and collection_status
tools. By default the server speaks stdio for local clients; with --http it
serves Streamable HTTP at /mcp. A /health endpoint reporting store
connectivity is always served on the configured port.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveCollection, "collection", "", "collection to serve (default from config)")
	serveCmd.Flags().BoolVar(&serveHTTP, "http", false, "serve MCP over HTTP instead of stdio")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "HTTP port for /health (and /mcp with --http)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	collection := collectionName(serveCollection, cfg)

	st, err := connectStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if _, err := st.GetOrCreateCollection(ctx, collection); err != nil {
		return err
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	server := mcpserver.NewServer(&mcpserver.Config{
		Store:      st,
		Search:     search.NewService(embedder, st, slog.Default()),
		Collection: collection,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/health", mcpserver.NewHealthHandler(st))
	mux.Handle("/mcp", mcpserver.NewHTTPHandler(server, nil))

	addr := "0.0.0.0:" + servePort

	if serveHTTP {
		log.Printf("Starting HTTP server on %s (MCP at /mcp, health at /health)", addr)
		return http.ListenAndServe(addr, mux)
	}

	// Stdio mode: health endpoint still runs in the background.
	go func() {
		log.Printf("Starting health server on %s", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Printf("Health server error: %v", err)
		}
	}()

	log.Printf("Starting docvec MCP server (stdio mode, collection %q)...", collection)
	return server.Run(ctx)
}
