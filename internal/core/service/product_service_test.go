package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/shopeasy/product-store/internal/core/domain"
	"github.com/shopeasy/product-store/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubProductRepo struct {
	byID      map[string]*domain.Product
	order     []string // insertion order, mirrors store-native ordering
	nextID    int
	insertErr error // if set, Insert returns this error
	listErr   error // if set, List returns this error
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{byID: make(map[string]*domain.Product)}
}

func (r *stubProductRepo) List(_ context.Context, f ports.ListProductsFilter) ([]domain.Product, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []domain.Product
	for _, id := range r.order {
		p := r.byID[id]
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Seller != "" && p.Seller != f.Seller {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProductRepo) Insert(_ context.Context, p *domain.Product) (*domain.Product, error) {
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	r.nextID++
	clone := *p
	clone.ID = fmt.Sprintf("product_%d", r.nextID)
	r.byID[clone.ID] = &clone
	r.order = append(r.order, clone.ID)
	result := clone
	return &result, nil
}

func (r *stubProductRepo) Replace(_ context.Context, id string, input ports.UpdateProductInput) (*domain.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	p.Name = input.Name
	p.Description = input.Description
	p.Price = input.Price
	p.Image = input.Image
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type stubPublisher struct {
	keys   []string
	events []map[string]any
	err    error
}

func (p *stubPublisher) Publish(_ context.Context, key string, event any) error {
	if p.err != nil {
		return p.err
	}
	p.keys = append(p.keys, key)
	p.events = append(p.events, event.(map[string]any))
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

func validInput(name string, price float64) ports.CreateProductInput {
	return ports.CreateProductInput{
		Name:        name,
		Description: "test product",
		Price:       price,
		Image:       "https://example.com/p.jpg",
		Category:    "electronics",
		Seller:      "seller_1",
	}
}

// ---------------------------------------------------------------------------
// CreateProduct tests
// ---------------------------------------------------------------------------

func TestProductService_Create_RoundTrip(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, nil, discardLogger)

	input := validInput("Mug", 500)
	created, err := svc.CreateProduct(context.Background(), input)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if created.Name != input.Name || created.Description != input.Description ||
		created.Price != input.Price || created.Image != input.Image ||
		created.Category != input.Category || created.Seller != input.Seller {
		t.Fatalf("fields did not round-trip: %+v", created)
	}
}

func TestProductService_Create_UniqueIDs(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, nil, discardLogger)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		created, err := svc.CreateProduct(context.Background(), validInput(fmt.Sprintf("p%d", i), 100))
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if seen[created.ID] {
			t.Fatalf("duplicate id %q", created.ID)
		}
		seen[created.ID] = true
	}
}

func TestProductService_Create_DefaultCategory(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, nil, discardLogger)

	input := validInput("Mug", 500)
	input.Category = ""
	created, err := svc.CreateProduct(context.Background(), input)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Category != domain.DefaultCategory {
		t.Fatalf("expected default category, got %q", created.Category)
	}
}

func TestProductService_Create_Validation(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, nil, discardLogger)

	cases := []struct {
		name  string
		input ports.CreateProductInput
	}{
		{"missing name", validInput("", 100)},
		{"blank name", validInput("   ", 100)},
		{"zero price", validInput("Mug", 0)},
		{"negative price", validInput("Mug", -5)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateProduct(context.Background(), tc.input); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if len(repo.byID) != 0 {
				t.Fatalf("invalid input must not be persisted")
			}
		})
	}
}

func TestProductService_Create_PublishesEvent(t *testing.T) {
	repo := newStubProductRepo()
	pub := &stubPublisher{}
	svc := NewProductService(repo, pub, discardLogger)

	created, err := svc.CreateProduct(context.Background(), validInput("Mug", 500))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(pub.events))
	}
	if pub.keys[0] != created.ID {
		t.Fatalf("event keyed by %q, want %q", pub.keys[0], created.ID)
	}
	if pub.events[0]["type"] != "product_created" {
		t.Fatalf("unexpected event type %v", pub.events[0]["type"])
	}
}

func TestProductService_Create_PublishFailureIsNotFatal(t *testing.T) {
	repo := newStubProductRepo()
	pub := &stubPublisher{err: errors.New("broker down")}
	svc := NewProductService(repo, pub, discardLogger)

	if _, err := svc.CreateProduct(context.Background(), validInput("Mug", 500)); err != nil {
		t.Fatalf("publish failure must not fail the create: %v", err)
	}
}

func TestProductService_Create_StoreError(t *testing.T) {
	repo := newStubProductRepo()
	repo.insertErr = errors.New("connection reset")
	svc := NewProductService(repo, nil, discardLogger)

	if _, err := svc.CreateProduct(context.Background(), validInput("Mug", 500)); err == nil {
		t.Fatalf("expected store error to propagate")
	}
}

// ---------------------------------------------------------------------------
// UpdateProduct tests
// ---------------------------------------------------------------------------

func TestProductService_Update_ReplacesMutableFields(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, nil, discardLogger)

	created, err := svc.CreateProduct(context.Background(), validInput("Mug", 500))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdateProduct(context.Background(), created.ID, ports.UpdateProductInput{
		Name:        "Mug XL",
		Description: "bigger",
		Price:       600,
		Image:       "https://example.com/xl.jpg",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.ID != created.ID {
		t.Fatalf("id changed on update: %q -> %q", created.ID, updated.ID)
	}
	if updated.Name != "Mug XL" || updated.Price != 600 {
		t.Fatalf("fields not replaced: %+v", updated)
	}
	// category and seller are outside the replacement set
	if updated.Category != created.Category || updated.Seller != created.Seller {
		t.Fatalf("update touched immutable fields: %+v", updated)
	}
}

func TestProductService_Update_NotFound(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, nil, discardLogger)

	_, err := svc.UpdateProduct(context.Background(), "missing", ports.UpdateProductInput{Name: "x", Price: 1})
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductService_Update_Validation(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, nil, discardLogger)

	created, _ := svc.CreateProduct(context.Background(), validInput("Mug", 500))

	if _, err := svc.UpdateProduct(context.Background(), created.ID, ports.UpdateProductInput{Name: "", Price: 600}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := svc.UpdateProduct(context.Background(), created.ID, ports.UpdateProductInput{Name: "Mug", Price: 0}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// DeleteProduct tests
// ---------------------------------------------------------------------------

func TestProductService_Delete_NotFoundNeverMutates(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, nil, discardLogger)

	created, _ := svc.CreateProduct(context.Background(), validInput("Mug", 500))

	if err := svc.DeleteProduct(context.Background(), "missing"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if len(repo.byID) != 1 {
		t.Fatalf("failed delete must not mutate the collection")
	}
	if _, ok := repo.byID[created.ID]; !ok {
		t.Fatalf("existing record disappeared")
	}
}

func TestProductService_Delete_Twice(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, nil, discardLogger)

	created, _ := svc.CreateProduct(context.Background(), validInput("Mug", 500))

	if err := svc.DeleteProduct(context.Background(), created.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := svc.DeleteProduct(context.Background(), created.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("second delete: expected ErrProductNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// ListProducts tests
// ---------------------------------------------------------------------------

func TestProductService_List_Filters(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, nil, discardLogger)

	electronics := validInput("Gaming Mouse", 2999)
	fashion := validInput("Denim Jacket", 3499)
	fashion.Category = "fashion"
	fashion.Seller = "seller_2"

	if _, err := svc.CreateProduct(context.Background(), electronics); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateProduct(context.Background(), fashion); err != nil {
		t.Fatalf("create: %v", err)
	}

	all, err := svc.ListProducts(context.Background(), ports.ListProductsFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 products, got %d", len(all))
	}

	byCategory, err := svc.ListProducts(context.Background(), ports.ListProductsFilter{Category: "fashion"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(byCategory) != 1 || byCategory[0].Name != "Denim Jacket" {
		t.Fatalf("category filter failed: %+v", byCategory)
	}

	bySeller, err := svc.ListProducts(context.Background(), ports.ListProductsFilter{Seller: "seller_1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(bySeller) != 1 || bySeller[0].Name != "Gaming Mouse" {
		t.Fatalf("seller filter failed: %+v", bySeller)
	}
}

// ---------------------------------------------------------------------------
// End-to-end lifecycle scenario
// ---------------------------------------------------------------------------

func TestProductService_Lifecycle(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, nil, discardLogger)
	ctx := context.Background()

	mug, err := svc.CreateProduct(ctx, ports.CreateProductInput{Name: "Mug", Price: 500})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	listed, _ := svc.ListProducts(ctx, ports.ListProductsFilter{})
	found := false
	for _, p := range listed {
		if p.ID == mug.ID && p.Name == "Mug" && p.Price == 500 {
			found = true
		}
	}
	if !found {
		t.Fatalf("created product missing from list: %+v", listed)
	}

	keeper, err := svc.CreateProduct(ctx, ports.CreateProductInput{Name: "Plate", Price: 300})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.DeleteProduct(ctx, mug.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	listed, _ = svc.ListProducts(ctx, ports.ListProductsFilter{})
	for _, p := range listed {
		if p.ID == mug.ID {
			t.Fatalf("deleted product still listed")
		}
	}
	if err := svc.DeleteProduct(ctx, mug.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("second delete: expected ErrProductNotFound, got %v", err)
	}

	updated, err := svc.UpdateProduct(ctx, keeper.ID, ports.UpdateProductInput{Name: "Mug XL", Price: 600})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Mug XL" || updated.Price != 600 || updated.ID != keeper.ID {
		t.Fatalf("update result wrong: %+v", updated)
	}
}
