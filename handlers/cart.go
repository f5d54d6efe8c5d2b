package handlers

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hamropustak/pasal/cart"
	"github.com/hamropustak/pasal/middleware"
	"github.com/hamropustak/pasal/models"
	"github.com/hamropustak/pasal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartHandler struct {
	Cart     *cart.Store
	Wishlist *cart.Wishlist
	Books    store.BookStore
}

type AddToCartRequest struct {
	BookID   string        `json:"bookId" validate:"required"`
	Format   models.Format `json:"format" validate:"required"`
	Quantity int           `json:"quantity" validate:"gte=0"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func owner(r *http.Request) string {
	id, _ := middleware.UserIDFromContext(r.Context())
	return id.Hex()
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	items, err := h.Cart.Items(r.Context(), owner(r))
	if err != nil {
		log.Printf("cart: load: %v", err)
		http.Error(w, `{"error":"failed to load cart"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, cart.Summarize(items))
}

// AddItem snapshots the book's current price for the format. Quantity defaults to 1.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	bookID, err := primitive.ObjectIDFromHex(req.BookID)
	if err != nil {
		http.Error(w, `{"error":"invalid book id"}`, http.StatusBadRequest)
		return
	}
	book, err := h.Books.BookByID(r.Context(), bookID)
	if err != nil {
		log.Printf("cart: load book %s: %v", req.BookID, err)
		http.Error(w, `{"error":"failed to load book"}`, http.StatusInternalServerError)
		return
	}
	if book == nil {
		http.Error(w, `{"error":"book not found"}`, http.StatusNotFound)
		return
	}
	price, ok := book.PriceFor(req.Format)
	if !ok {
		http.Error(w, `{"error":"format not available for this book"}`, http.StatusBadRequest)
		return
	}
	items, err := h.Cart.AddItem(r.Context(), owner(r), models.CartItem{
		BookID:   book.ID.Hex(),
		Format:   req.Format,
		Quantity: req.Quantity,
		Price:    price,
		Title:    book.Title,
		Author:   book.Author,
		Cover:    book.Cover,
	})
	if err != nil {
		log.Printf("cart: add: %v", err)
		http.Error(w, `{"error":"failed to update cart"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, cart.Summarize(items))
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Quantity < 1 {
		http.Error(w, `{"error":"quantity must be at least 1"}`, http.StatusBadRequest)
		return
	}
	items, err := h.Cart.UpdateQuantity(r.Context(), owner(r), chi.URLParam(r, "bookId"), models.Format(chi.URLParam(r, "format")), req.Quantity)
	if err != nil {
		log.Printf("cart: update: %v", err)
		http.Error(w, `{"error":"failed to update cart"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, cart.Summarize(items))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	items, err := h.Cart.RemoveItem(r.Context(), owner(r), chi.URLParam(r, "bookId"), models.Format(chi.URLParam(r, "format")))
	if err != nil {
		log.Printf("cart: remove: %v", err)
		http.Error(w, `{"error":"failed to update cart"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, cart.Summarize(items))
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.Cart.ClearCart(r.Context(), owner(r)); err != nil {
		log.Printf("cart: clear: %v", err)
		http.Error(w, `{"error":"failed to clear cart"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, cart.Summarize(nil))
}

type WishlistResponse struct {
	BookIDs []string `json:"bookIds"`
}

func (h *CartHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	ids, err := h.Wishlist.IDs(r.Context(), owner(r))
	if err != nil {
		log.Printf("wishlist: load: %v", err)
		http.Error(w, `{"error":"failed to load wishlist"}`, http.StatusInternalServerError)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, WishlistResponse{BookIDs: ids})
}

func (h *CartHandler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	bookID, ok := idParam(w, r, "bookId", "book")
	if !ok {
		return
	}
	added, err := h.Wishlist.Toggle(r.Context(), owner(r), bookID.Hex())
	if err != nil {
		log.Printf("wishlist: toggle: %v", err)
		http.Error(w, `{"error":"failed to update wishlist"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"added": added})
}

func (h *CartHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	bookID, ok := idParam(w, r, "bookId", "book")
	if !ok {
		return
	}
	if err := h.Wishlist.Remove(r.Context(), owner(r), bookID.Hex()); err != nil {
		log.Printf("wishlist: remove: %v", err)
		http.Error(w, `{"error":"failed to update wishlist"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
