package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/shopeasy/product-store/internal/core/domain"
	"github.com/shopeasy/product-store/internal/core/ports"
)

type ProductService struct {
	repo   ports.ProductRepository
	events ports.EventPublisher
	logger zerolog.Logger
}

// NewProductService builds a ProductService. events may be nil, in which
// case no lifecycle events are emitted.
func NewProductService(repo ports.ProductRepository, events ports.EventPublisher, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, events: events, logger: logger}
}

// ListProducts returns every product matching filter. An empty filter
// returns the whole collection in store-native order.
func (s *ProductService) ListProducts(ctx context.Context, filter ports.ListProductsFilter) ([]domain.Product, error) {
	products, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list products")
		return nil, err
	}
	return products, nil
}

// CreateProduct validates the input, assigns the default category when none
// is supplied, and persists a new product.
func (s *ProductService) CreateProduct(ctx context.Context, input ports.CreateProductInput) (*domain.Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if input.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", domain.ErrValidation)
	}

	category := input.Category
	if category == "" {
		category = domain.DefaultCategory
	}

	product := &domain.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Image:       input.Image,
		Category:    category,
		Seller:      input.Seller,
	}

	created, err := s.repo.Insert(ctx, product)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create product")
		return nil, err
	}

	s.logger.Info().Str("product_id", created.ID).Str("category", created.Category).Msg("product created")
	s.publish(ctx, created.ID, "product_created", created)

	return created, nil
}

// UpdateProduct replaces the four mutable fields of an existing product.
// The id and any fields outside the replacement set are left unchanged.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, input ports.UpdateProductInput) (*domain.Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if input.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", domain.ErrValidation)
	}

	updated, err := s.repo.Replace(ctx, id, input)
	if err != nil {
		if err != domain.ErrProductNotFound {
			s.logger.Error().Err(err).Str("product_id", id).Msg("failed to update product")
		}
		return nil, err
	}

	s.logger.Info().Str("product_id", id).Msg("product updated")
	s.publish(ctx, id, "product_updated", updated)

	return updated, nil
}

// DeleteProduct removes a product. Deleting an unknown id returns
// domain.ErrProductNotFound and mutates nothing.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err != domain.ErrProductNotFound {
			s.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		}
		return err
	}

	s.logger.Info().Str("product_id", id).Msg("product deleted")
	s.publish(ctx, id, "product_deleted", map[string]string{"id": id})

	return nil
}

// publish emits a lifecycle event when a publisher is configured. Failures
// are logged and never surfaced to the caller.
func (s *ProductService) publish(ctx context.Context, key, eventType string, payload any) {
	if s.events == nil {
		return
	}
	event := map[string]any{"type": eventType, "payload": payload}
	if err := s.events.Publish(ctx, key, event); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Msg("event publish failed")
	}
}
