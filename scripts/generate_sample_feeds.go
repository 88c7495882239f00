//go:build ignore

// generate_sample_feeds writes gzipped catalog feeds for local development.
//
//	go run scripts/generate_sample_feeds.go
//	go run ./cmd/seed -schema data/seeds/*.jsonl.gz
package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"toppings-pos/internal/seed"

	"github.com/shopspring/decimal"
)

func group(name string) *string { return &name }

func main() {
	dataDir := "data/seeds"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	// Both projects use a "tea" topping group; their toppings must stay apart.
	feeds := map[string][]seed.Record{
		"tea-house.jsonl.gz": {
			{Kind: seed.KindProject, Project: "tea-house"},
			{Kind: seed.KindProduct, Project: "tea-house", Name: "Milk Tea", Price: decimal.RequireFromString("4.50"), Group: group("tea"), Limit: 2},
			{Kind: seed.KindProduct, Project: "tea-house", Name: "Jasmine Tea", Price: decimal.RequireFromString("3.80"), Group: group("tea"), Limit: 2},
			{Kind: seed.KindProduct, Project: "tea-house", Name: "Lemonade", Price: decimal.RequireFromString("3.00")},
			{Kind: seed.KindTopping, Project: "tea-house", Name: "Pearls", Price: decimal.RequireFromString("0.50"), Group: group("tea")},
			{Kind: seed.KindTopping, Project: "tea-house", Name: "Grass Jelly", Price: decimal.RequireFromString("0.75"), Group: group("tea")},
			{Kind: seed.KindTopping, Project: "tea-house", Name: "Cheese Foam", Price: decimal.RequireFromString("1.00"), Group: group("tea")},
		},
		"corner-cafe.jsonl.gz": {
			{Kind: seed.KindProject, Project: "corner-cafe"},
			{Kind: seed.KindProduct, Project: "corner-cafe", Name: "Iced Tea", Price: decimal.RequireFromString("2.50"), Group: group("tea"), Limit: 1},
			{Kind: seed.KindProduct, Project: "corner-cafe", Name: "Waffle", Price: decimal.RequireFromString("5.20"), Group: group("sweet"), Limit: 2},
			{Kind: seed.KindTopping, Project: "corner-cafe", Name: "Lemon Slice", Price: decimal.Zero, Group: group("tea")},
			{Kind: seed.KindTopping, Project: "corner-cafe", Name: "Maple Syrup", Price: decimal.RequireFromString("0.60"), Group: group("sweet")},
			{Kind: seed.KindTopping, Project: "corner-cafe", Name: "Whipped Cream", Price: decimal.RequireFromString("0.80"), Group: group("sweet")},
		},
	}

	for filename, records := range feeds {
		filePath := filepath.Join(dataDir, filename)

		if err := createFeedFile(filePath, records); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s with %d records\n", filePath, len(records))
	}
}

func createFeedFile(filePath string, records []seed.Record) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	enc := json.NewEncoder(gzipWriter)
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("invalid record %q: %w", rec.Name, err)
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	return nil
}
