package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/osaleh/docvec/internal/extract"
	"github.com/osaleh/docvec/internal/ingest"
)

var (
	ingestDir        string
	ingestCollection string
	ingestReset      bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest PDF and DOCX documents from a directory",
	Long: `Extracts text from every supported document in a directory, embeds it,
and upserts the records into the target collection.

This command:
1. Connects to Qdrant and verifies the heartbeat
2. Creates the target collection if it does not exist
3. Extracts text from all .pdf and .docx files in the directory
4. Attaches source, upload_date and category metadata to each document
5. Embeds the documents and upserts them with fresh UUIDs

Unreadable or empty documents are skipped and reported; they never abort
the run. Re-running on the same directory stores a second full set of
records (no deduplication).`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestDir, "dir", "", "directory containing documents (required)")
	ingestCmd.Flags().StringVar(&ingestCollection, "collection", "", "target collection (default from config)")
	ingestCmd.Flags().BoolVar(&ingestReset, "reset", false, "delete the collection before ingesting")
	_ = ingestCmd.MarkFlagRequired("dir")
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	start := time.Now()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	collection := collectionName(ingestCollection, cfg)

	st, err := connectStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if ingestReset {
		fmt.Printf("Deleting collection %q...\n", collection)
		if err := st.DeleteCollection(ctx, collection); err != nil {
			return fmt.Errorf("reset collection: %w", err)
		}
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	pipeline := ingest.NewPipeline(
		extract.NewExtractor(),
		embedder,
		st,
		ingest.Defaults{
			UploadDate: cfg.Metadata.UploadDate,
			Category:   cfg.Metadata.Category,
		},
		slog.Default(),
	)

	fmt.Printf("Ingesting documents from %s into %q...\n", ingestDir, collection)
	fmt.Println()

	result, err := pipeline.Run(ctx, ingestDir, collection)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Println("Ingestion complete!")
	fmt.Printf("  Files scanned: %d\n", result.Scanned)
	fmt.Printf("  Records ingested: %d\n", result.Ingested)
	fmt.Printf("  Duration: %s\n", result.Duration.Round(time.Millisecond))

	if len(result.Skipped) > 0 {
		fmt.Println()
		fmt.Println("Skipped files:")
		for _, failure := range result.Skipped {
			fmt.Printf("  - %s: %v\n", failure.Name, failure.Err)
		}
	}

	fmt.Println()
	fmt.Printf("Total time: %s\n", time.Since(start).Round(time.Millisecond))

	return nil
}
