package handler

import (
	"github.com/shopeasy/product-store/internal/core/domain"
	"github.com/shopeasy/product-store/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req productRequest, sellerID string) ports.CreateProductInput {
	return ports.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
		Seller:      sellerID,
	}
}

func toUpdateInput(req productRequest) ports.UpdateProductInput {
	return ports.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
	}
}

// --- Domain → HTTP response ---

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Category:    p.Category,
		Seller:      p.Seller,
	}
}

func toProductListResponse(products []domain.Product) []productResponse {
	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	return out
}
