// Command datasetcheck validates a spending dataset file and prints a
// short summary. Useful before pointing the API at a new export.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/spendsight/backend/internal/dataset"
)

func main() {
	path := flag.String("path", "data/merged_spending_data.csv", "path to the spending dataset CSV")
	userID := flag.Int64("user", 0, "optionally print the row count for a single user")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	store := dataset.NewStore(*path, logger)
	if err := store.Load(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "dataset check failed: %v\n", err)
		os.Exit(1)
	}

	snap, err := store.Snapshot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "dataset check failed: %v\n", err)
		os.Exit(1)
	}

	txs := snap.All()
	categories := dataset.DistinctCategories(txs)

	fmt.Printf("dataset OK: %s\n", *path)
	fmt.Printf("  transactions: %d\n", len(txs))
	fmt.Printf("  categories:   %d\n", len(categories))
	for _, c := range categories {
		fmt.Printf("    %s\n", c)
	}

	if *userID > 0 {
		rows, err := snap.ForUser(*userID, nil, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "user %d: %v\n", *userID, err)
			os.Exit(1)
		}
		fmt.Printf("  user %d rows: %d\n", *userID, len(rows))
	}
}
