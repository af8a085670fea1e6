package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopeasy/product-store/internal/api/metrics"
	"github.com/shopeasy/product-store/internal/core/domain"
	"github.com/shopeasy/product-store/internal/core/ports"
)

// ProductHandler handles HTTP requests for catalog operations.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// List handles GET /api/getproduct.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        category  query     string  false  "Exact category match"
// @Param        seller    query     string  false  "Exact seller id match"
// @Success      200       {array}   productResponse
// @Failure      500       {object}  errorResponse
// @Router       /api/getproduct [get]
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.service.ListProducts(c.Request().Context(), ports.ListProductsFilter{
		Category: c.QueryParam("category"),
		Seller:   c.QueryParam("seller"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toProductListResponse(products))
}

// Create handles POST /api/postProduct.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      productRequest  true  "Product details"
// @Success      201   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/postProduct [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	sellerID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	created, err := h.service.CreateProduct(c.Request().Context(), toCreateInput(req, sellerID))
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		return err
	}

	metrics.ProductsCreatedTotal.WithLabelValues(created.Category).Inc()

	return c.JSON(http.StatusCreated, toProductResponse(*created))
}

// Update handles PUT /api/updateProduct/:id.
//
// @Summary      Replace a product's mutable fields
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Product id"
// @Param        body  body      productRequest  true  "Replacement fields"
// @Success      200   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/updateProduct/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	updated, err := h.service.UpdateProduct(c.Request().Context(), c.Param("id"), toUpdateInput(req))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "product not found"})
		}
		if errors.Is(err, domain.ErrValidation) {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		return err
	}

	metrics.ProductsUpdatedTotal.Inc()

	return c.JSON(http.StatusOK, toProductResponse(*updated))
}

// Delete handles DELETE /api/deleteProduct/:id. Success is 204 with an
// empty body; 404 carries the error envelope.
//
// @Summary      Delete a product
// @Tags         products
// @Security     BearerAuth
// @Param        id  path  string  true  "Product id"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/deleteProduct/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteProduct(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "product not found"})
		}
		return err
	}

	metrics.ProductsDeletedTotal.Inc()

	return c.NoContent(http.StatusNoContent)
}
