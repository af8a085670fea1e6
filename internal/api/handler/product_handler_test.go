package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/shopeasy/product-store/internal/core/domain"
	"github.com/shopeasy/product-store/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stub service
// ---------------------------------------------------------------------------

type stubProductService struct {
	products   []domain.Product
	lastCreate ports.CreateProductInput
	lastUpdate ports.UpdateProductInput
	lastID     string
	listErr    error
	createErr  error
	updateErr  error
	deleteErr  error
}

func (s *stubProductService) ListProducts(_ context.Context, _ ports.ListProductsFilter) ([]domain.Product, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.products, nil
}

func (s *stubProductService) CreateProduct(_ context.Context, input ports.CreateProductInput) (*domain.Product, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.lastCreate = input
	category := input.Category
	if category == "" {
		category = domain.DefaultCategory
	}
	return &domain.Product{
		ID:          "prod_1",
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Image:       input.Image,
		Category:    category,
		Seller:      input.Seller,
	}, nil
}

func (s *stubProductService) UpdateProduct(_ context.Context, id string, input ports.UpdateProductInput) (*domain.Product, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	s.lastID = id
	s.lastUpdate = input
	return &domain.Product{
		ID:       id,
		Name:     input.Name,
		Price:    input.Price,
		Image:    input.Image,
		Category: domain.DefaultCategory,
	}, nil
}

func (s *stubProductService) DeleteProduct(_ context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.lastID = id
	return nil
}

func newTestContext(method, target, body string) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e, e.NewContext(req, rec), rec
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestProductHandler_List(t *testing.T) {
	svc := &stubProductService{products: []domain.Product{
		{ID: "prod_1", Name: "Mug", Price: 12.50, Category: "kitchen"},
		{ID: "prod_2", Name: "Lamp", Price: 30, Category: domain.DefaultCategory},
	}}
	h := NewProductHandler(svc)

	_, c, rec := newTestContext(http.MethodGet, "/api/getproduct", "")
	if err := h.List(c); err != nil {
		t.Fatalf("list: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got []productResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 2 || got[0].ID != "prod_1" || got[1].Name != "Lamp" {
		t.Fatalf("unexpected response: %+v", got)
	}
}

func TestProductHandler_List_Empty(t *testing.T) {
	h := NewProductHandler(&stubProductService{})

	_, c, rec := newTestContext(http.MethodGet, "/api/getproduct", "")
	if err := h.List(c); err != nil {
		t.Fatalf("list: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Fatalf("expected empty array, got %q", body)
	}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestProductHandler_Create(t *testing.T) {
	svc := &stubProductService{}
	h := NewProductHandler(svc)

	body := `{"name":"Mug","description":"Ceramic","price":12.5,"category":"kitchen"}`
	_, c, rec := newTestContext(http.MethodPost, "/api/postProduct", body)
	c.Set("user_id", "user_42")

	if err := h.Create(c); err != nil {
		t.Fatalf("create: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.lastCreate.Seller != "user_42" {
		t.Fatalf("seller not stamped from context, got %q", svc.lastCreate.Seller)
	}

	var got productResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID == "" || got.Name != "Mug" || got.Category != "kitchen" {
		t.Fatalf("unexpected response: %+v", got)
	}
}

func TestProductHandler_Create_MissingFields(t *testing.T) {
	h := NewProductHandler(&stubProductService{})

	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"price":10}`},
		{"missing price", `{"name":"Mug"}`},
		{"zero price", `{"name":"Mug","price":0}`},
		{"negative price", `{"name":"Mug","price":-3}`},
		{"bad image url", `{"name":"Mug","price":10,"image":"not-a-url"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, c, rec := newTestContext(http.MethodPost, "/api/postProduct", tc.body)
			c.Set("user_id", "user_42")

			if err := h.Create(c); err != nil {
				t.Fatalf("create: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestProductHandler_Create_NoUserInContext(t *testing.T) {
	h := NewProductHandler(&stubProductService{})

	_, c, _ := newTestContext(http.MethodPost, "/api/postProduct", `{"name":"Mug","price":10}`)

	err := h.Create(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestProductHandler_Create_ServiceValidationError(t *testing.T) {
	svc := &stubProductService{createErr: fmt.Errorf("%w: name is required", domain.ErrValidation)}
	h := NewProductHandler(svc)

	_, c, rec := newTestContext(http.MethodPost, "/api/postProduct", `{"name":"  ","price":10}`)
	c.Set("user_id", "user_42")

	if err := h.Create(c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var got errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Error == "" {
		t.Fatalf("expected error envelope")
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestProductHandler_Update(t *testing.T) {
	svc := &stubProductService{}
	h := NewProductHandler(svc)

	body := `{"name":"Travel Mug","price":14}`
	_, c, rec := newTestContext(http.MethodPut, "/api/updateProduct/prod_1", body)
	c.SetParamNames("id")
	c.SetParamValues("prod_1")

	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastID != "prod_1" {
		t.Fatalf("expected id prod_1, got %q", svc.lastID)
	}
	if svc.lastUpdate.Name != "Travel Mug" || svc.lastUpdate.Price != 14 {
		t.Fatalf("unexpected update input: %+v", svc.lastUpdate)
	}
}

func TestProductHandler_Update_NotFound(t *testing.T) {
	svc := &stubProductService{updateErr: domain.ErrProductNotFound}
	h := NewProductHandler(svc)

	_, c, rec := newTestContext(http.MethodPut, "/api/updateProduct/missing", `{"name":"Mug","price":10}`)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestProductHandler_Delete(t *testing.T) {
	svc := &stubProductService{}
	h := NewProductHandler(svc)

	_, c, rec := newTestContext(http.MethodDelete, "/api/deleteProduct/prod_1", "")
	c.SetParamNames("id")
	c.SetParamValues("prod_1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
	if svc.lastID != "prod_1" {
		t.Fatalf("expected id prod_1, got %q", svc.lastID)
	}
}

func TestProductHandler_Delete_NotFound(t *testing.T) {
	svc := &stubProductService{deleteErr: domain.ErrProductNotFound}
	h := NewProductHandler(svc)

	_, c, rec := newTestContext(http.MethodDelete, "/api/deleteProduct/missing", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := h.Delete(c); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var got errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Error != "product not found" {
		t.Fatalf("unexpected error message: %q", got.Error)
	}
}
