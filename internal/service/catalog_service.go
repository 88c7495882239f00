package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"toppings-pos/internal/model"
	"toppings-pos/internal/repository"

	"github.com/rs/zerolog"
)

// catalogService implements CatalogService.
type catalogService struct {
	repo   repository.CatalogRepository
	logger zerolog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(repo repository.CatalogRepository, logger zerolog.Logger) CatalogService {
	return &catalogService{
		repo:   repo,
		logger: logger.With().Str("service", "catalog").Logger(),
	}
}

// GetCatalog resolves the project by exact name and groups its product and
// topping rows into one view per product.
func (s *catalogService) GetCatalog(ctx context.Context, projectName string) ([]model.ProductView, error) {
	if projectName == "" {
		return nil, model.NewValidationError("project name is required")
	}

	project, err := s.repo.FindProjectByName(ctx, projectName)
	if err != nil {
		s.logger.Error().Err(err).Str("project_name", projectName).Msg("failed to resolve project")
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	if project == nil {
		s.logger.Debug().Str("project_name", projectName).Msg("project not found")
		return nil, model.ErrProjectNotFound
	}

	rows, err := s.repo.ListCatalogRows(ctx, project.ID)
	if err != nil {
		s.logger.Error().Err(err).Int64("project_id", project.ID).Msg("failed to list catalog rows")
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	catalog := composeCatalog(rows)
	if len(catalog) == 0 {
		s.logger.Debug().Int64("project_id", project.ID).Msg("project has no products")
		return nil, model.ErrCatalogEmpty
	}

	s.logger.Debug().
		Int64("project_id", project.ID).
		Int("product_count", len(catalog)).
		Msg("catalog composed")

	return catalog, nil
}

// composeCatalog folds flat join rows into one view per product, keeping the
// order in which products first appear. Toppings are unique and sorted by id;
// a product without toppings gets an empty, non-nil slice.
func composeCatalog(rows []model.CatalogRow) []model.ProductView {
	catalog := make([]model.ProductView, 0)
	index := make(map[int64]int)

	for _, row := range rows {
		i, ok := index[row.ProductID]
		if !ok {
			i = len(catalog)
			index[row.ProductID] = i
			catalog = append(catalog, model.ProductView{
				ID:           row.ProductID,
				Name:         row.ProductName,
				Price:        row.ProductPrice,
				ToppingGroup: row.ToppingGroup,
				ToppingLimit: row.ToppingLimit,
				Toppings:     []model.ToppingView{},
			})
		}

		if row.ToppingID == nil {
			continue
		}

		var name string
		if row.ToppingName != nil {
			name = *row.ToppingName
		}
		catalog[i].Toppings = append(catalog[i].Toppings, model.ToppingView{
			ID:    *row.ToppingID,
			Name:  name,
			Price: row.ToppingPrice.Decimal,
		})
	}

	for i := range catalog {
		toppings := catalog[i].Toppings
		slices.SortStableFunc(toppings, func(a, b model.ToppingView) int {
			return cmp.Compare(a.ID, b.ID)
		})
		catalog[i].Toppings = slices.CompactFunc(toppings, func(a, b model.ToppingView) bool {
			return a.ID == b.ID
		})
	}

	return catalog
}
