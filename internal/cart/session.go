// Package cart maintains the client-side shopping state: the cart sequence
// and the current user record, both persisted to a durable key/value store
// on every mutation and reloaded at session start.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/shopeasy/product-store/pkg/storeclient"
)

const (
	keyCart = "cart"
	keyUser = "user"

	// taxRate is the fixed surcharge applied on top of the subtotal for the
	// tax-inclusive display total.
	taxRate = 0.18
)

// ErrLoginRequired signals that a mutation needs an active session; the
// caller should redirect to the login entry point.
var ErrLoginRequired = errors.New("login required")

// Item is a single cart entry: a product snapshot copied at add-time plus a
// quantity that never falls below 1.
type Item struct {
	Product  storeclient.Product `json:"product"`
	Quantity int                 `json:"quantity"`
}

// Session holds the in-memory view of the persisted client state. It is not
// safe for concurrent use; mutations are synchronous with the UI event that
// triggers them.
type Session struct {
	store  Store
	logger zerolog.Logger
	items  []Item
	user   *UserRecord
}

func NewSession(store Store, logger zerolog.Logger) *Session {
	return &Session{store: store, logger: logger}
}

// Bootstrap loads any previously persisted cart and user record. A missing
// key leaves the corresponding state empty; a user value that fails
// structured parsing is kept as legacy raw text.
func (s *Session) Bootstrap(ctx context.Context) error {
	raw, err := s.store.Get(ctx, keyCart)
	switch {
	case err == nil:
		var items []Item
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return fmt.Errorf("decode cart: %w", err)
		}
		s.items = items
	case errors.Is(err, ErrNotFound):
		// fresh session
	default:
		return err
	}

	rawUser, err := s.store.Get(ctx, keyUser)
	switch {
	case err == nil:
		rec := decodeUserRecord(rawUser)
		s.user = &rec
	case errors.Is(err, ErrNotFound):
	default:
		return err
	}

	return nil
}

// User returns the current user record, or nil when unauthenticated.
func (s *Session) User() *UserRecord {
	return s.user
}

// Items returns a copy of the cart sequence.
func (s *Session) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Login persists the user record and activates the session.
func (s *Session) Login(ctx context.Context, rec UserRecord) error {
	encoded, err := rec.encode()
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, keyUser, encoded); err != nil {
		return err
	}
	s.user = &rec
	return nil
}

// Logout clears the persisted session record and returns the session to an
// unauthenticated state. The cart itself is left untouched.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.store.Del(ctx, keyUser); err != nil {
		return err
	}
	s.user = nil
	return nil
}

// AddToCart appends a product snapshot with quantity 1. Without an active
// session it returns ErrLoginRequired and changes nothing.
func (s *Session) AddToCart(ctx context.Context, p storeclient.Product) error {
	if s.user == nil {
		return ErrLoginRequired
	}

	next := append(s.Items(), Item{Product: p, Quantity: 1})
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.items = next
	s.logger.Debug().Str("product_id", p.ID).Msg("added to cart")
	return nil
}

// RemoveFromCart drops every entry whose product id matches.
func (s *Session) RemoveFromCart(ctx context.Context, id string) error {
	next := make([]Item, 0, len(s.items))
	for _, item := range s.items {
		if item.Product.ID != id {
			next = append(next, item)
		}
	}

	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.items = next
	return nil
}

// SetQuantity sets the quantity for the entry with the given product id.
// Values below 1 are rejected as a no-op: the floor is an invariant of the
// cart, not an error the caller has to handle.
func (s *Session) SetQuantity(ctx context.Context, id string, quantity int) error {
	if quantity < 1 {
		return nil
	}

	next := s.Items()
	changed := false
	for i := range next {
		if next[i].Product.ID == id {
			next[i].Quantity = quantity
			changed = true
		}
	}
	if !changed {
		return nil
	}

	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.items = next
	return nil
}

// Clear empties the cart after explicit confirmation. When confirm returns
// false nothing changes.
func (s *Session) Clear(ctx context.Context, confirm func() bool) error {
	if len(s.items) == 0 {
		return nil
	}
	if confirm == nil || !confirm() {
		return nil
	}

	if err := s.persist(ctx, nil); err != nil {
		return err
	}
	s.items = nil
	return nil
}

// Subtotal sums price × quantity over all entries.
func (s *Session) Subtotal() float64 {
	var total float64
	for _, item := range s.items {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}

// TotalWithTax is the tax-inclusive display total: subtotal plus the fixed
// surcharge. Not persisted.
func (s *Session) TotalWithTax() float64 {
	return s.Subtotal() * (1 + taxRate)
}

// TotalItems counts units across all entries (the header badge number).
func (s *Session) TotalItems() int {
	var n int
	for _, item := range s.items {
		n += item.Quantity
	}
	return n
}

// persist writes the candidate cart sequence. The in-memory state is only
// replaced by the caller after persist succeeds, so a store failure leaves
// the session untouched.
func (s *Session) persist(ctx context.Context, items []Item) error {
	if items == nil {
		items = []Item{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	return s.store.Set(ctx, keyCart, string(b))
}
