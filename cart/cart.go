// Package cart holds a shopper's pending selections before an order is placed.
//
// The reducers (Add, Remove, UpdateQuantity, Subtract, Clear) are pure: they take the
// current entries and return the next ones. Store is the state container that
// loads entries from a Storage, applies one reducer and saves the result.
package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hamropustak/pasal/models"
)

// Add merges item into entries. An existing (book, format) line has its quantity increased
// and keeps its original price snapshot; otherwise the item is appended.
func Add(entries []models.CartItem, item models.CartItem) []models.CartItem {
	out := make([]models.CartItem, 0, len(entries)+1)
	merged := false
	for _, e := range entries {
		if !merged && e.SameLine(item.BookID, item.Format) {
			e.Quantity += item.Quantity
			merged = true
		}
		out = append(out, e)
	}
	if !merged {
		out = append(out, item)
	}
	return out
}

// Remove drops the matching line. Absent lines are a no-op.
func Remove(entries []models.CartItem, bookID string, format models.Format) []models.CartItem {
	out := make([]models.CartItem, 0, len(entries))
	for _, e := range entries {
		if e.SameLine(bookID, format) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// UpdateQuantity overwrites the quantity of the matching line. Callers clamp qty; no bound is applied here.
func UpdateQuantity(entries []models.CartItem, bookID string, format models.Format, qty int) []models.CartItem {
	out := make([]models.CartItem, len(entries))
	copy(out, entries)
	for i := range out {
		if out[i].SameLine(bookID, format) {
			out[i].Quantity = qty
		}
	}
	return out
}

// Subtract takes the ordered quantities off their matching lines and drops lines that reach zero.
// Lines and quantities not in ordered are kept.
func Subtract(entries, ordered []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, 0, len(entries))
	for _, e := range entries {
		for _, o := range ordered {
			if e.SameLine(o.BookID, o.Format) {
				e.Quantity -= o.Quantity
			}
		}
		if e.Quantity > 0 {
			out = append(out, e)
		}
	}
	return out
}

func Clear([]models.CartItem) []models.CartItem {
	return []models.CartItem{}
}

// TotalItems is the sum of all quantities.
func TotalItems(entries []models.CartItem) int {
	n := 0
	for _, e := range entries {
		n += e.Quantity
	}
	return n
}

// TotalPrice sums snapshot price times quantity across entries.
func TotalPrice(entries []models.CartItem) float64 {
	total := 0.0
	for _, e := range entries {
		total += e.Price * float64(e.Quantity)
	}
	return total
}

// Find returns the matching line, if any.
func Find(entries []models.CartItem, bookID string, format models.Format) (models.CartItem, bool) {
	for _, e := range entries {
		if e.SameLine(bookID, format) {
			return e, true
		}
	}
	return models.CartItem{}, false
}

// Summary is the cart as returned to the storefront.
type Summary struct {
	Items      []models.CartItem `json:"items"`
	TotalItems int               `json:"totalItems"`
	TotalPrice float64           `json:"totalPrice"`
}

func Summarize(entries []models.CartItem) Summary {
	if entries == nil {
		entries = []models.CartItem{}
	}
	return Summary{Items: entries, TotalItems: TotalItems(entries), TotalPrice: TotalPrice(entries)}
}

const keyPrefix = "cart:"

// Store persists one cart per owner key through an injected Storage.
type Store struct {
	storage Storage
}

func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// Items loads the owner's entries. A missing cart is empty.
func (s *Store) Items(ctx context.Context, owner string) ([]models.CartItem, error) {
	raw, err := s.storage.Load(ctx, keyPrefix+owner)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return []models.CartItem{}, nil
	}
	var entries []models.CartItem
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return entries, nil
}

func (s *Store) save(ctx context.Context, owner string, entries []models.CartItem) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return s.storage.Save(ctx, keyPrefix+owner, raw)
}

// apply loads, reduces and saves. Concurrent requests for the same owner are last write wins.
func (s *Store) apply(ctx context.Context, owner string, reduce func([]models.CartItem) []models.CartItem) ([]models.CartItem, error) {
	entries, err := s.Items(ctx, owner)
	if err != nil {
		return nil, err
	}
	next := reduce(entries)
	if err := s.save(ctx, owner, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (s *Store) AddItem(ctx context.Context, owner string, item models.CartItem) ([]models.CartItem, error) {
	return s.apply(ctx, owner, func(e []models.CartItem) []models.CartItem { return Add(e, item) })
}

func (s *Store) RemoveItem(ctx context.Context, owner, bookID string, format models.Format) ([]models.CartItem, error) {
	return s.apply(ctx, owner, func(e []models.CartItem) []models.CartItem { return Remove(e, bookID, format) })
}

func (s *Store) UpdateQuantity(ctx context.Context, owner, bookID string, format models.Format, qty int) ([]models.CartItem, error) {
	return s.apply(ctx, owner, func(e []models.CartItem) []models.CartItem { return UpdateQuantity(e, bookID, format, qty) })
}

// RemoveOrdered takes a checked-out snapshot off the cart, keeping anything added since it was read.
func (s *Store) RemoveOrdered(ctx context.Context, owner string, ordered []models.CartItem) ([]models.CartItem, error) {
	return s.apply(ctx, owner, func(e []models.CartItem) []models.CartItem { return Subtract(e, ordered) })
}

func (s *Store) ClearCart(ctx context.Context, owner string) error {
	return s.storage.Delete(ctx, keyPrefix+owner)
}
