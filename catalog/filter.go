// Package catalog filters and sorts an in-memory list of books for the storefront controls.
// Every function is pure: inputs are never mutated and a fresh slice is returned.
package catalog

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/hamropustak/pasal/models"
)

type SortOrder string

const (
	SortRelevance SortOrder = "relevance"
	SortPriceLow  SortOrder = "price-low"
	SortPriceHigh SortOrder = "price-high"
	SortNewest    SortOrder = "newest"
	SortPopular   SortOrder = "popular"
	SortRating    SortOrder = "rating"
)

// Query is the combined state of the catalog controls. Zero values disable each filter.
type Query struct {
	Search   string
	Genres   []string
	Mood     string
	MaxPrice *float64
	Sort     SortOrder
}

// Search keeps books whose title, author or description contains q, case-insensitively.
func Search(books []models.Book, q string) []models.Book {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return clone(books)
	}
	return keep(books, func(b *models.Book) bool {
		return strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.Author), q) ||
			strings.Contains(strings.ToLower(b.Description), q)
	})
}

// FilterGenres keeps books sharing at least one genre with selected. An empty selection keeps everything.
func FilterGenres(books []models.Book, selected []string) []models.Book {
	if len(selected) == 0 {
		return clone(books)
	}
	want := make(map[string]struct{}, len(selected))
	for _, g := range selected {
		want[g] = struct{}{}
	}
	return keep(books, func(b *models.Book) bool {
		for _, g := range b.Genres {
			if _, ok := want[g]; ok {
				return true
			}
		}
		return false
	})
}

// FilterMood keeps books tagged with mood. An empty mood keeps everything.
func FilterMood(books []models.Book, mood string) []models.Book {
	if mood == "" {
		return clone(books)
	}
	return keep(books, func(b *models.Book) bool {
		for _, m := range b.Moods {
			if m == mood {
				return true
			}
		}
		return false
	})
}

// FilterMaxPrice keeps books whose displayed price is at most ceiling.
func FilterMaxPrice(books []models.Book, ceiling float64) []models.Book {
	return keep(books, func(b *models.Book) bool {
		return b.DisplayedPrice() <= ceiling
	})
}

// Sort returns a stably sorted copy. Relevance and unknown orders keep input order.
func Sort(books []models.Book, order SortOrder) []models.Book {
	out := clone(books)
	var less func(a, b *models.Book) bool
	switch order {
	case SortPriceLow:
		less = func(a, b *models.Book) bool { return a.DisplayedPrice() < b.DisplayedPrice() }
	case SortPriceHigh:
		less = func(a, b *models.Book) bool { return a.DisplayedPrice() > b.DisplayedPrice() }
	case SortNewest:
		less = func(a, b *models.Book) bool { return a.PublishDate.After(b.PublishDate) }
	case SortPopular:
		less = func(a, b *models.Book) bool { return a.ReviewCount > b.ReviewCount }
	case SortRating:
		less = func(a, b *models.Book) bool { return a.Rating > b.Rating }
	default:
		return out
	}
	sort.SliceStable(out, func(i, j int) bool { return less(&out[i], &out[j]) })
	return out
}

// Apply runs search, genre, mood and price filters in that order, then sorts.
func Apply(books []models.Book, q Query) []models.Book {
	out := Search(books, q.Search)
	out = FilterGenres(out, q.Genres)
	out = FilterMood(out, q.Mood)
	if q.MaxPrice != nil {
		out = FilterMaxPrice(out, *q.MaxPrice)
	}
	return Sort(out, q.Sort)
}

// ParseQuery reads q, genre (repeated or comma separated), mood, maxPrice and sort.
func ParseQuery(v url.Values) Query {
	q := Query{
		Search: strings.TrimSpace(v.Get("q")),
		Mood:   strings.TrimSpace(v.Get("mood")),
		Sort:   SortOrder(strings.TrimSpace(v.Get("sort"))),
	}
	for _, raw := range v["genre"] {
		for _, g := range strings.Split(raw, ",") {
			if g = strings.TrimSpace(g); g != "" {
				q.Genres = append(q.Genres, g)
			}
		}
	}
	if s := strings.TrimSpace(v.Get("maxPrice")); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
			q.MaxPrice = &f
		}
	}
	if q.Sort == "" {
		q.Sort = SortRelevance
	}
	return q
}

func keep(books []models.Book, pred func(*models.Book) bool) []models.Book {
	out := make([]models.Book, 0, len(books))
	for i := range books {
		if pred(&books[i]) {
			out = append(out, books[i])
		}
	}
	return out
}

func clone(books []models.Book) []models.Book {
	out := make([]models.Book, len(books))
	copy(out, books)
	return out
}
