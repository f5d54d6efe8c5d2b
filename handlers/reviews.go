package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/hamropustak/pasal/middleware"
	"github.com/hamropustak/pasal/models"
	"github.com/hamropustak/pasal/store"
)

type ReviewsHandler struct {
	Reviews  store.ReviewStore
	Books    store.BookStore
	Profiles store.ProfileStore
}

type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

func (h *ReviewsHandler) List(w http.ResponseWriter, r *http.Request) {
	bookID, ok := idParam(w, r, "id", "book")
	if !ok {
		return
	}
	reviews, err := h.Reviews.ReviewsForBook(r.Context(), bookID)
	if err != nil {
		log.Printf("reviews: list %s: %v", bookID.Hex(), err)
		http.Error(w, `{"error":"failed to list reviews"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

// Create stores the review and refreshes the book's rating and review count.
func (h *ReviewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	bookID, ok := idParam(w, r, "id", "book")
	if !ok {
		return
	}
	var req ReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	book, err := h.Books.BookByID(r.Context(), bookID)
	if err != nil {
		log.Printf("reviews: load book %s: %v", bookID.Hex(), err)
		http.Error(w, `{"error":"failed to load book"}`, http.StatusInternalServerError)
		return
	}
	if book == nil {
		http.Error(w, `{"error":"book not found"}`, http.StatusNotFound)
		return
	}

	userID, _ := middleware.UserIDFromContext(r.Context())
	name := middleware.EmailFromContext(r.Context())
	if p, err := h.Profiles.ProfileByID(r.Context(), userID); err == nil && p != nil && p.FullName != "" {
		name = p.FullName
	}
	review := &models.Review{
		BookID:    bookID,
		UserID:    userID,
		Name:      name,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
		CreatedAt: time.Now().UTC(),
	}
	review.ID, err = h.Reviews.InsertReview(r.Context(), review)
	if err != nil {
		log.Printf("reviews: create %s: %v", bookID.Hex(), err)
		http.Error(w, `{"error":"failed to save review"}`, http.StatusInternalServerError)
		return
	}

	all, err := h.Reviews.ReviewsForBook(r.Context(), bookID)
	if err == nil {
		err = h.Books.UpdateBookRating(r.Context(), bookID, models.AverageRating(all), len(all))
	}
	if err != nil {
		log.Printf("reviews: refresh rating %s: %v", bookID.Hex(), err)
	}
	writeJSON(w, http.StatusCreated, review)
}
