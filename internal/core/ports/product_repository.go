package ports

import (
	"context"

	"github.com/shopeasy/product-store/internal/core/domain"
)

// ListProductsFilter narrows a listing to records exactly matching the
// supplied fields. Zero values mean no filter; an empty filter returns the
// whole collection in store-native order.
type ListProductsFilter struct {
	Category string
	Seller   string
}

// ProductRepository defines persistence operations for products.
type ProductRepository interface {
	List(ctx context.Context, filter ListProductsFilter) ([]domain.Product, error)
	// Insert persists a new product and returns it with the store-assigned id.
	Insert(ctx context.Context, p *domain.Product) (*domain.Product, error)
	// Replace overwrites the four mutable fields of the product with the
	// given id and returns the updated record, or domain.ErrProductNotFound.
	Replace(ctx context.Context, id string, input UpdateProductInput) (*domain.Product, error)
	// Delete removes the product with the given id, or returns
	// domain.ErrProductNotFound when no such record exists.
	Delete(ctx context.Context, id string) error
}
