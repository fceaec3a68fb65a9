// Package seed loads the demo catalog into an empty product store.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/producthub/catalog-api/internal/core/domain"
	"github.com/producthub/catalog-api/internal/core/ports"
)

const placeholderImage = "/placeholder.svg?height=200&width=200"

// DemoProducts returns the demo catalog. Each call returns fresh values.
func DemoProducts(now time.Time) []domain.Product {
	products := []domain.Product{
		{ID: "1", Name: "Smartphone X", Description: "Latest smartphone with advanced features", Category: "electronics", Price: 799.99, Rating: 4.5},
		{ID: "2", Name: "Laptop Pro", Description: "High-performance laptop for professionals", Category: "electronics", Price: 1299.99, Rating: 4.8},
		{ID: "3", Name: "Casual T-Shirt", Description: "Comfortable cotton t-shirt for everyday wear", Category: "clothing", Price: 24.99, Rating: 4.2},
		{ID: "4", Name: "Coffee Maker", Description: "Automatic coffee maker with timer", Category: "home", Price: 89.99, Rating: 4.0},
		{ID: "5", Name: "Wireless Headphones", Description: "Noise-cancelling wireless headphones", Category: "electronics", Price: 149.99, Rating: 4.7},
		{ID: "6", Name: "Bestselling Novel", Description: "Award-winning fiction novel", Category: "books", Price: 19.99, Rating: 4.9},
	}
	for i := range products {
		// Stagger creation times so listings keep the catalog order.
		ts := now.UTC().Add(time.Duration(i) * time.Millisecond)
		products[i].Image = placeholderImage
		products[i].CreatedAt = ts
		products[i].UpdatedAt = ts
	}
	return products
}

// Catalog inserts the demo products when the repository is empty and returns
// how many were written. A non-empty catalog is left untouched.
func Catalog(ctx context.Context, repo ports.ProductRepository, log zerolog.Logger) (int, error) {
	n, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	if n > 0 {
		log.Debug().Int64("existing", n).Msg("catalog already populated, skipping seed")
		return 0, nil
	}

	products := DemoProducts(time.Now())
	for i := range products {
		if err := repo.Create(ctx, &products[i]); err != nil {
			return i, fmt.Errorf("seed product %s: %w", products[i].ID, err)
		}
	}

	log.Info().Int("products", len(products)).Msg("demo catalog seeded")
	return len(products), nil
}
