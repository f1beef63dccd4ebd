package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/osaleh/docvec/internal/search"
	"github.com/osaleh/docvec/internal/store"
)

// makeSearchHandler creates the search_documents tool handler.
// It embeds the query, runs a nearest-neighbor search and returns the
// matching records with document text and metadata.
func makeSearchHandler(svc *search.Service, collection string) func(
	context.Context, *mcp.CallToolRequest, SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (
		*mcp.CallToolResult, SearchOutput, error,
	) {
		maxResults := input.MaxResults
		if maxResults <= 0 {
			maxResults = 10
		}

		results, err := svc.Search(ctx, collection, input.Query, maxResults, store.Include{
			Document: true,
			Metadata: true,
		})
		if err != nil {
			return nil, SearchOutput{}, fmt.Errorf("search failed: %w", err)
		}

		if len(results) == 0 {
			return nil, SearchOutput{
				Results: []ResultItem{},
				Message: "No matching records found. The collection may be empty.",
			}, nil
		}

		items := make([]ResultItem, 0, len(results))
		for _, result := range results {
			items = append(items, ResultItem{
				Source:     result.Metadata.Source,
				Score:      float64(result.Score),
				Document:   result.Document,
				UploadDate: result.Metadata.UploadDate,
				Category:   result.Metadata.Category,
			})
		}

		return nil, SearchOutput{Results: items}, nil
	}
}

// makeStatusHandler creates the collection_status tool handler.
func makeStatusHandler(st *store.Store, collection string) func(
	context.Context, *mcp.CallToolRequest, StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input StatusInput) (
		*mcp.CallToolResult, StatusOutput, error,
	) {
		count, err := st.Count(ctx, collection)
		if err != nil {
			return nil, StatusOutput{}, fmt.Errorf("count records: %w", err)
		}

		return nil, StatusOutput{
			Collection: collection,
			Records:    count,
		}, nil
	}
}
