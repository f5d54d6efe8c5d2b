package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hamropustak/pasal/catalog"
	"github.com/hamropustak/pasal/models"
	"github.com/hamropustak/pasal/service"
	"github.com/hamropustak/pasal/store"
	"github.com/hamropustak/pasal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ISBNLookup is satisfied by *service.MetadataClient.
type ISBNLookup interface {
	LookupISBN(ctx context.Context, isbn string) (*models.Book, error)
}

type BooksHandler struct {
	Books    store.BookStore
	Covers   CoverStorage // nil when S3 is not configured
	Metadata ISBNLookup
}

// List applies the catalog query from the URL. view=featured or view=new narrows to the home page rails.
func (h *BooksHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.Books.AllBooks(r.Context())
	if err != nil {
		log.Printf("books: list: %v", err)
		http.Error(w, `{"error":"failed to list books"}`, http.StatusInternalServerError)
		return
	}
	switch r.URL.Query().Get("view") {
	case "featured":
		books = catalog.Featured(books)
	case "new":
		books = catalog.NewArrivals(books)
	}
	writeJSON(w, http.StatusOK, catalog.Apply(books, catalog.ParseQuery(r.URL.Query())))
}

func (h *BooksHandler) Facets(w http.ResponseWriter, r *http.Request) {
	books, err := h.Books.AllBooks(r.Context())
	if err != nil {
		log.Printf("books: facets: %v", err)
		http.Error(w, `{"error":"failed to list books"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, catalog.BuildFacets(books))
}

func (h *BooksHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id", "book")
	if !ok {
		return
	}
	book, err := h.Books.BookByID(r.Context(), id)
	if err != nil {
		log.Printf("books: get %s: %v", id.Hex(), err)
		http.Error(w, `{"error":"failed to load book"}`, http.StatusInternalServerError)
		return
	}
	if book == nil {
		http.Error(w, `{"error":"book not found"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (h *BooksHandler) Create(w http.ResponseWriter, r *http.Request) {
	var book models.Book
	if !decodeJSON(w, r, &book) {
		return
	}
	if err := book.Validate(); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	now := time.Now().UTC()
	book.ID = primitive.NilObjectID
	book.Rating, book.ReviewCount = 0, 0
	book.CreatedAt, book.UpdatedAt = now, now
	id, err := h.Books.InsertBook(r.Context(), &book)
	if err != nil {
		log.Printf("books: create: %v", err)
		http.Error(w, `{"error":"failed to create book"}`, http.StatusInternalServerError)
		return
	}
	book.ID = id
	writeJSON(w, http.StatusCreated, book)
}

// Update replaces the editable fields. Rating and review count are owned by reviews.
func (h *BooksHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id", "book")
	if !ok {
		return
	}
	var book models.Book
	if !decodeJSON(w, r, &book) {
		return
	}
	if err := book.Validate(); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	book.UpdatedAt = time.Now().UTC()
	found, err := h.Books.UpdateBook(r.Context(), id, &book)
	if err != nil {
		log.Printf("books: update %s: %v", id.Hex(), err)
		http.Error(w, `{"error":"failed to update book"}`, http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, `{"error":"book not found"}`, http.StatusNotFound)
		return
	}
	updated, err := h.Books.BookByID(r.Context(), id)
	if err != nil || updated == nil {
		http.Error(w, `{"error":"failed to load book"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes the book and, when the cover lives in our bucket, its cover object.
func (h *BooksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id", "book")
	if !ok {
		return
	}
	book, err := h.Books.DeleteBook(r.Context(), id)
	if err != nil {
		log.Printf("books: delete %s: %v", id.Hex(), err)
		http.Error(w, `{"error":"failed to delete book"}`, http.StatusInternalServerError)
		return
	}
	if book == nil {
		http.Error(w, `{"error":"book not found"}`, http.StatusNotFound)
		return
	}
	if h.Covers != nil && book.Cover != "" {
		if key, ours := h.Covers.KeyFromURL(book.Cover); ours {
			if err := h.Covers.Delete(r.Context(), key); err != nil {
				log.Printf("books: delete cover %s: %v", key, err)
			}
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// Lookup prefills a book draft from the ISBN metadata service.
func (h *BooksHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	isbn := utils.SanitizeISBN(chi.URLParam(r, "isbn"))
	if !utils.ValidISBN(isbn) {
		http.Error(w, `{"error":"invalid isbn"}`, http.StatusBadRequest)
		return
	}
	if h.Metadata == nil {
		http.Error(w, `{"error":"metadata lookup not configured"}`, http.StatusServiceUnavailable)
		return
	}
	draft, err := h.Metadata.LookupISBN(r.Context(), isbn)
	if errors.Is(err, service.ErrVolumeNotFound) {
		http.Error(w, `{"error":"no book found for isbn"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("books: lookup %s: %v", isbn, err)
		http.Error(w, `{"error":"metadata lookup failed"}`, http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}
