package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/producthub/catalog-api/internal/core/domain"
)

func seedProducts(t *testing.T, r *ProductRepository) {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	items := []domain.Product{
		{ID: "1", Name: "Smartphone X", Description: "Latest smartphone with advanced features", Category: "electronics", Price: 799.99, Rating: 4.5},
		{ID: "2", Name: "Laptop Pro", Description: "High-performance laptop for professionals", Category: "electronics", Price: 1299.99, Rating: 4.8},
		{ID: "3", Name: "Casual T-Shirt", Description: "Comfortable cotton t-shirt for everyday wear", Category: "clothing", Price: 24.99, Rating: 4.2},
		{ID: "4", Name: "Coffee Maker", Description: "Automatic coffee maker with timer", Category: "home", Price: 89.99, Rating: 4.0},
	}
	for i := range items {
		items[i].CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, r.Create(context.Background(), &items[i]))
	}
}

func ids(ps []*domain.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestProductRepository_ListFilters(t *testing.T) {
	r := NewProductRepository()
	seedProducts(t, r)
	ctx := context.Background()

	cases := []struct {
		name   string
		filter domain.ProductFilter
		want   []string
	}{
		{"all in creation order", domain.ProductFilter{}, []string{"1", "2", "3", "4"}},
		{"category", domain.ProductFilter{Category: "electronics"}, []string{"1", "2"}},
		{"search name case-insensitive", domain.ProductFilter{Search: "LAPTOP"}, []string{"2"}},
		{"search description", domain.ProductFilter{Search: "cotton"}, []string{"3"}},
		{"price range", domain.ProductFilter{MinPrice: 50, MaxPrice: 1000}, []string{"1", "4"}},
		{"min rating", domain.ProductFilter{MinRating: 4.5}, []string{"1", "2"}},
		{"featured limit", domain.ProductFilter{Limit: 2}, []string{"1", "2"}},
		{"offset", domain.ProductFilter{Offset: 3}, []string{"4"}},
		{"offset past end", domain.ProductFilter{Offset: 10}, []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := r.List(ctx, tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestProductRepository_ReturnsCopies(t *testing.T) {
	r := NewProductRepository()
	seedProducts(t, r)
	ctx := context.Background()

	p, err := r.FindByID(ctx, "1")
	require.NoError(t, err)
	p.Price = 1

	again, err := r.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 799.99, again.Price)
}

func TestProductRepository_UpdateDeleteMissing(t *testing.T) {
	r := NewProductRepository()
	ctx := context.Background()

	_, err := r.Update(ctx, &domain.Product{ID: "nope"})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.ErrorIs(t, r.Delete(ctx, "nope"), domain.ErrProductNotFound)
	_, err = r.FindByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductRepository_CategoriesAndCount(t *testing.T) {
	r := NewProductRepository()
	seedProducts(t, r)

	cats, err := r.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"clothing", "electronics", "home"}, cats)

	n, err := r.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
}

func TestProductRepository_CategoriesSkipsEmpty(t *testing.T) {
	r := NewProductRepository()
	seedProducts(t, r)
	require.NoError(t, r.Create(context.Background(), &domain.Product{ID: "5", Name: "Legacy item", Price: 5}))

	cats, err := r.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"clothing", "electronics", "home"}, cats)
}

func TestProductRepository_ConcurrentWrites(t *testing.T) {
	r := NewProductRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = r.Create(ctx, &domain.Product{ID: fmt.Sprintf("p-%d", i), Category: "c"})
			_, _ = r.List(ctx, domain.ProductFilter{})
		}(i)
	}
	wg.Wait()

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 50, n)
}

func TestAuthRepository_UniqueEmail(t *testing.T) {
	r := NewAuthRepository()
	ctx := context.Background()

	created, err := r.Create(ctx, &domain.User{Email: "a@b.com", PasswordHash: "h", Role: domain.RoleUser})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	_, err = r.Create(ctx, &domain.User{Email: "a@b.com", PasswordHash: "h2", Role: domain.RoleUser})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	byEmail, err := r.FindByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := r.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", byID.Email)

	_, err = r.FindByEmail(ctx, "x@y.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = r.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
