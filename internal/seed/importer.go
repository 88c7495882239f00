package seed

import (
	"context"
	"errors"
	"fmt"

	"toppings-pos/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Stats counts the rows written by one import.
type Stats struct {
	Projects int
	Products int
	Toppings int
}

// Importer writes feeds into the catalog tables.
type Importer struct {
	db     repository.TxBeginner
	logger zerolog.Logger
}

// NewImporter creates a new importer.
func NewImporter(db repository.TxBeginner, logger zerolog.Logger) *Importer {
	return &Importer{
		db:     db,
		logger: logger.With().Str("component", "seed-importer").Logger(),
	}
}

// Import writes every feed in a single transaction. Projects are upserted by
// name, including projects only referenced by product or topping records;
// products and toppings are appended. Nothing is written if any row fails.
func (i *Importer) Import(ctx context.Context, feeds ...*Feed) (stats Stats, err error) {
	tx, err := i.db.Begin(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to begin import transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				i.logger.Error().Err(rbErr).Msg("failed to rollback import transaction")
			}
		}
	}()

	projectIDs := make(map[string]int64)
	for _, feed := range feeds {
		for _, rec := range feed.Records {
			if _, ok := projectIDs[rec.Project]; ok {
				continue
			}
			id, err := upsertProject(ctx, tx, rec.Project)
			if err != nil {
				return Stats{}, fmt.Errorf("%s: %w", feed.Source, err)
			}
			projectIDs[rec.Project] = id
		}
	}
	stats.Projects = len(projectIDs)

	for _, feed := range feeds {
		for _, rec := range feed.Records {
			switch rec.Kind {
			case KindProduct:
				_, err = tx.Exec(ctx, `
					INSERT INTO product (project_id, product_name, product_price, topping_group, topping_limit)
					VALUES ($1, $2, $3, $4, $5)
				`, projectIDs[rec.Project], rec.Name, rec.Price, rec.Group, rec.Limit)
				if err != nil {
					return Stats{}, fmt.Errorf("%s: failed to insert product %q: %w", feed.Source, rec.Name, err)
				}
				stats.Products++
			case KindTopping:
				_, err = tx.Exec(ctx, `
					INSERT INTO topping (project_id, topping_group, topping_name, topping_price)
					VALUES ($1, $2, $3, $4)
				`, projectIDs[rec.Project], *rec.Group, rec.Name, rec.Price)
				if err != nil {
					return Stats{}, fmt.Errorf("%s: failed to insert topping %q: %w", feed.Source, rec.Name, err)
				}
				stats.Toppings++
			}
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return Stats{}, fmt.Errorf("failed to commit import: %w", err)
	}

	i.logger.Info().
		Int("feeds", len(feeds)).
		Int("projects", stats.Projects).
		Int("products", stats.Products).
		Int("toppings", stats.Toppings).
		Msg("catalog import committed")

	return stats, nil
}

func upsertProject(ctx context.Context, tx pgx.Tx, name string) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO project (project_name)
		VALUES ($1)
		ON CONFLICT (project_name) DO UPDATE SET project_name = EXCLUDED.project_name
		RETURNING project_id
	`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert project %q: %w", name, err)
	}
	return id, nil
}
