package repository

import (
	"context"
	"errors"
	"fmt"

	"toppings-pos/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// catalogRepository implements the CatalogRepository interface using PostgreSQL.
type catalogRepository struct {
	db     Querier
	logger zerolog.Logger
}

// NewCatalogRepository creates a new PostgreSQL-backed catalog repository.
func NewCatalogRepository(db Querier, logger zerolog.Logger) CatalogRepository {
	return &catalogRepository{
		db:     db,
		logger: logger.With().Str("repository", "catalog").Logger(),
	}
}

// FindProjectByName resolves a project by its exact name.
func (r *catalogRepository) FindProjectByName(ctx context.Context, name string) (*model.Project, error) {
	query := `
		SELECT project_id, project_name
		FROM project
		WHERE project_name = $1
	`

	var p model.Project
	err := r.db.QueryRow(ctx, query, name).Scan(&p.ID, &p.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("project_name", name).Msg("project not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("project_name", name).Msg("failed to query project")
		return nil, fmt.Errorf("failed to query project: %w", err)
	}

	return &p, nil
}

// ListCatalogRows returns the flat product/topping rows of a project.
// Toppings are matched on both topping group and project.
func (r *catalogRepository) ListCatalogRows(ctx context.Context, projectID int64) ([]model.CatalogRow, error) {
	query := `
		SELECT
			p.id,
			p.product_name,
			p.product_price,
			p.topping_group,
			p.topping_limit,
			t.topping_id,
			t.topping_name,
			t.topping_price
		FROM product p
		LEFT JOIN topping t
			ON t.topping_group = p.topping_group
			AND t.project_id = p.project_id
		WHERE p.project_id = $1
		ORDER BY p.id, t.topping_id
	`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error().Err(err).Int64("project_id", projectID).Msg("failed to query catalog")
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer rows.Close()

	var result []model.CatalogRow
	for rows.Next() {
		var row model.CatalogRow
		err := rows.Scan(
			&row.ProductID,
			&row.ProductName,
			&row.ProductPrice,
			&row.ToppingGroup,
			&row.ToppingLimit,
			&row.ToppingID,
			&row.ToppingName,
			&row.ToppingPrice,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan catalog row")
			return nil, fmt.Errorf("failed to scan catalog row: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating catalog rows")
		return nil, fmt.Errorf("error iterating catalog rows: %w", err)
	}

	return result, nil
}
