// Command seed imports catalog feed files into the POS database.
//
// Usage:
//
//	seed [-schema] feed1.jsonl[.gz] [feed2.jsonl ...]
//
// Feeds are read from S3 (S3_BUCKET, key S3_PREFIX+path) when S3_ENABLED is
// set, falling back to the local path.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"toppings-pos/internal/config"
	"toppings-pos/internal/database"
	"toppings-pos/internal/seed"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	applySchema := flag.Bool("schema", false, "create missing tables before importing")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-schema] feed [feed ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		flag.Usage()
		return errors.New("at least one feed file is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger, "pos-seed")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if *applySchema {
		if err := database.ApplySchema(ctx, pool); err != nil {
			return err
		}
		logger.Info().Msg("schema applied")
	}

	feeds, err := seed.LoadAll(ctx, newLoader(ctx, cfg.S3, logger), paths)
	if err != nil {
		return err
	}

	stats, err := seed.NewImporter(pool, logger).Import(ctx, feeds...)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("Imported %d projects, %d products, %d toppings from %d feeds\n",
		stats.Projects, stats.Products, stats.Toppings, len(feeds))

	return nil
}

// newLoader initialises the feed loader with S3 and local fallback.
func newLoader(ctx context.Context, cfg config.S3Config, logger zerolog.Logger) seed.Loader {
	fileLoader := seed.NewFileLoader(logger)
	if !cfg.Enabled {
		logger.Info().Msg("using local file system for feed files (S3 disabled)")
		return fileLoader
	}

	s3Loader, err := seed.NewS3Loader(ctx, cfg.Bucket, cfg.Region, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 loader, falling back to local file system only")
		return fileLoader
	}

	return seed.NewFallbackLoader(s3Loader, fileLoader, cfg.Prefix, true, logger)
}
