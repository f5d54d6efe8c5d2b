package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistToggle(t *testing.T) {
	ctx := context.Background()
	w := NewWishlist(NewMemoryStorage())

	added, err := w.Toggle(ctx, "u1", "b1")
	require.NoError(t, err)
	assert.True(t, added)
	_, err = w.Toggle(ctx, "u1", "b2")
	require.NoError(t, err)

	has, err := w.Has(ctx, "u1", "b1")
	require.NoError(t, err)
	assert.True(t, has)

	added, err = w.Toggle(ctx, "u1", "b1")
	require.NoError(t, err)
	assert.False(t, added)

	ids, err := w.IDs(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b2"}, ids)
}

func TestWishlistRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	w := NewWishlist(storage)

	for _, id := range []string{"b1", "b2", "b3"} {
		_, err := w.Toggle(ctx, "u1", id)
		require.NoError(t, err)
	}
	require.NoError(t, w.Remove(ctx, "u1", "b2"))
	require.NoError(t, w.Remove(ctx, "u1", "missing"))

	ids, err := w.IDs(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b1", "b3"}, ids)

	// Wishlist and cart share storage without colliding.
	_, err = NewStore(storage).Items(ctx, "u1")
	require.NoError(t, err)

	require.NoError(t, w.Clear(ctx, "u1"))
	ids, err = w.IDs(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
