package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/osaleh/docvec/internal/search"
	"github.com/osaleh/docvec/internal/store"
)

var (
	searchCollection string
	searchTopK       int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find the stored documents most similar to a query",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchCollection, "collection", "", "collection to query (default from config)")
	searchCmd.Flags().IntVarP(&searchTopK, "top", "k", 10, "number of results to return")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	query := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	collection := collectionName(searchCollection, cfg)

	st, err := connectStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	svc := search.NewService(embedder, st, slog.Default())

	results, err := svc.Search(ctx, collection, query, searchTopK, store.Include{
		Document: true,
		Metadata: true,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Printf("No matching records in collection %q.\n", collection)
		return nil
	}

	fmt.Printf("Top %d results from %q:\n", len(results), collection)
	fmt.Println()
	for i, result := range results {
		fmt.Printf("%d. %s (score %.4f)\n", i+1, result.Metadata.Source, result.Score)
		fmt.Printf("   upload_date=%s category=%s\n", result.Metadata.UploadDate, result.Metadata.Category)
		fmt.Printf("   %s\n", snippet(result.Document, 200))
	}

	return nil
}

// snippet returns the first n characters of text on a single line.
func snippet(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > n {
		return text[:n] + "..."
	}
	return text
}
