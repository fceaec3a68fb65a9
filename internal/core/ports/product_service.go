package ports

import (
	"context"

	"github.com/producthub/catalog-api/internal/core/domain"
)

// CreateProductInput carries the fields of a new product.
type CreateProductInput struct {
	Name        string   `json:"name" validate:"required,min=2"`
	Description string   `json:"description" validate:"required,min=10"`
	Category    string   `json:"category" validate:"required,min=1"`
	Price       float64  `json:"price" validate:"gt=0"`
	Rating      *float64 `json:"rating" validate:"required,gte=0,lte=5"`
	Image       string   `json:"image"`
}

// UpdateProductInput is a partial update; omitted fields keep their value.
type UpdateProductInput struct {
	Name        *string  `json:"name" validate:"omitempty,min=2"`
	Description *string  `json:"description" validate:"omitempty,min=10"`
	Category    *string  `json:"category" validate:"omitempty,min=1"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	Rating      *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Image       *string  `json:"image"`
}

// ListProductsInput carries the catalog browsing criteria.
type ListProductsInput struct {
	Search    string  `json:"q" validate:"max=100"`
	Category  string  `json:"category"`
	MinPrice  float64 `json:"min_price" validate:"gte=0"`
	MaxPrice  float64 `json:"max_price" validate:"gte=0"`
	MinRating float64 `json:"min_rating" validate:"gte=0,lte=5"`
	Limit     int     `json:"limit" validate:"gte=0,lte=100"`
	Offset    int     `json:"offset" validate:"gte=0"`
}

// ProductService defines the catalog use cases.
type ProductService interface {
	List(ctx context.Context, in ListProductsInput) ([]*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, in CreateProductInput) (*domain.Product, error)
	Update(ctx context.Context, id string, in UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]string, error)
}
