package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// fileLoader implements Loader for feed files on the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based feed loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "seed-loader").Logger(),
	}
}

// Load reads a feed file from disk.
func (l *fileLoader) Load(ctx context.Context, path string) (*Feed, error) {
	l.logger.Info().Str("file", path).Msg("loading feed file")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open feed file")
		return nil, fmt.Errorf("failed to open feed file %s: %w", path, err)
	}
	defer file.Close()

	feed, err := decodeFeed(ctx, path, file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to decode feed file")
		return nil, err
	}

	l.logger.Info().
		Str("file", path).
		Int("records", len(feed.Records)).
		Msg("feed file loaded successfully")

	return feed, nil
}

// LoadAll loads every path concurrently and returns the feeds in the order of
// paths. The first failure cancels the remaining loads.
func LoadAll(ctx context.Context, loader Loader, paths []string) ([]*Feed, error) {
	feeds := make([]*Feed, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			feed, err := loader.Load(ctx, path)
			if err != nil {
				return fmt.Errorf("failed to load feed %s: %w", path, err)
			}
			feeds[i] = feed
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return feeds, nil
}
