package ports

import (
	"context"

	"github.com/shopeasy/product-store/internal/core/domain"
)

// CreateProductInput carries all data needed to create a new product.
// Seller is the id of the authenticated caller; it is stored as an
// unvalidated reference.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Image       string
	Category    string
	Seller      string
}

// UpdateProductInput is a full replacement of the four mutable fields.
// Category and seller are never touched by an update.
type UpdateProductInput struct {
	Name        string
	Description string
	Price       float64
	Image       string
}

// ProductService defines use-case operations on the product catalog.
type ProductService interface {
	ListProducts(ctx context.Context, filter ListProductsFilter) ([]domain.Product, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, input UpdateProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}
