package ports

import (
	"context"

	"github.com/producthub/catalog-api/internal/core/domain"
)

// ProductRepository defines persistence operations for catalog products.
// Missing products are reported as domain.ErrProductNotFound.
type ProductRepository interface {
	List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
	// Update replaces the stored product with p and returns the stored state.
	Update(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
}
