package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/producthub/catalog-api/internal/core/domain"
	"github.com/producthub/catalog-api/internal/core/ports"
	"github.com/producthub/catalog-api/internal/core/validation"
)

// MaxListLimit caps the number of products returned by one listing.
const MaxListLimit = 100

type ProductService struct {
	repo   ports.ProductRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewProductService(repo ports.ProductRepository, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, logger: logger, now: time.Now}
}

// List returns the products matching the browsing criteria.
func (s *ProductService) List(ctx context.Context, in ports.ListProductsInput) ([]*domain.Product, error) {
	in.Search = strings.TrimSpace(in.Search)
	in.Category = strings.TrimSpace(in.Category)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.MaxPrice > 0 && in.MinPrice > in.MaxPrice {
		return nil, domain.NewValidationError("max_price", "max_price must not be lower than min_price")
	}

	limit := in.Limit
	if limit == 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}

	return s.repo.List(ctx, domain.ProductFilter{
		Search:    in.Search,
		Category:  in.Category,
		MinPrice:  in.MinPrice,
		MaxPrice:  in.MaxPrice,
		MinRating: in.MinRating,
		Limit:     limit,
		Offset:    in.Offset,
	})
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrProductNotFound
	}
	return s.repo.FindByID(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, in ports.CreateProductInput) (*domain.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.Image = strings.TrimSpace(in.Image)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	p := &domain.Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
		Rating:      *in.Rating,
		Image:       in.Image,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error().Err(err).Msg("failed to create product")
		return nil, err
	}

	s.logger.Debug().Str("product_id", p.ID).Str("category", p.Category).Msg("product created")
	return p, nil
}

// Update merges the provided fields into the stored product.
func (s *ProductService) Update(ctx context.Context, id string, in ports.UpdateProductInput) (*domain.Product, error) {
	in.Name = trimmed(in.Name)
	in.Description = trimmed(in.Description)
	in.Category = trimmed(in.Category)
	in.Image = trimmed(in.Image)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := domain.ProductPatch{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
		Rating:      in.Rating,
		Image:       in.Image,
	}
	if patch.Empty() {
		return current, nil
	}

	next := patch.Apply(*current)
	next.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, &next)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Str("product_id", id).Msg("product updated")
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.ErrProductNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Debug().Str("product_id", id).Msg("product deleted")
	return nil
}

func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
