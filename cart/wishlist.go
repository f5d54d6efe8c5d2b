package cart

import (
	"context"
	"encoding/json"
	"fmt"
)

const wishlistPrefix = "wishlist:"

// Wishlist keeps an ordered set of book ids per owner in the same Storage as carts.
type Wishlist struct {
	storage Storage
}

func NewWishlist(storage Storage) *Wishlist {
	return &Wishlist{storage: storage}
}

func (w *Wishlist) IDs(ctx context.Context, owner string) ([]string, error) {
	raw, err := w.storage.Load(ctx, wishlistPrefix+owner)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return []string{}, nil
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("decode wishlist: %w", err)
	}
	return ids, nil
}

func (w *Wishlist) save(ctx context.Context, owner string, ids []string) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return w.storage.Save(ctx, wishlistPrefix+owner, raw)
}

func (w *Wishlist) Has(ctx context.Context, owner, bookID string) (bool, error) {
	ids, err := w.IDs(ctx, owner)
	if err != nil {
		return false, err
	}
	return indexOf(ids, bookID) >= 0, nil
}

// Toggle adds bookID when absent and removes it when present. It reports whether the book is now listed.
func (w *Wishlist) Toggle(ctx context.Context, owner, bookID string) (bool, error) {
	ids, err := w.IDs(ctx, owner)
	if err != nil {
		return false, err
	}
	added := false
	if i := indexOf(ids, bookID); i >= 0 {
		ids = append(ids[:i], ids[i+1:]...)
	} else {
		ids = append(ids, bookID)
		added = true
	}
	return added, w.save(ctx, owner, ids)
}

func (w *Wishlist) Remove(ctx context.Context, owner, bookID string) error {
	ids, err := w.IDs(ctx, owner)
	if err != nil {
		return err
	}
	i := indexOf(ids, bookID)
	if i < 0 {
		return nil
	}
	return w.save(ctx, owner, append(ids[:i], ids[i+1:]...))
}

func (w *Wishlist) Clear(ctx context.Context, owner string) error {
	return w.storage.Delete(ctx, wishlistPrefix+owner)
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
