package repositories

import (
	"context"

	"github.com/chrisdamba/ordersim/internal/models"
)

// CatalogRepository exposes the single read the engine performs against the
// catalog store. It is called once at startup; the snapshot it returns is
// never refreshed during a run.
type CatalogRepository interface {
	GetBrandsWithItems(ctx context.Context) (*models.CatalogSnapshot, error)
}
