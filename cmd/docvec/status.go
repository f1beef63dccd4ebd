package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCollection string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report store connectivity and collection record count",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusCollection, "collection", "", "collection to inspect (default from config)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	collection := collectionName(statusCollection, cfg)

	st, err := connectStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	fmt.Println("Store healthy")

	count, err := st.Count(ctx, collection)
	if err != nil {
		return fmt.Errorf("count records: %w", err)
	}

	fmt.Printf("Collection: %s\n", collection)
	fmt.Printf("Records: %d\n", count)
	fmt.Printf("Embedding model: %s (%d dimensions)\n", cfg.Embedder.Model, cfg.Embedder.Dimension)

	return nil
}
