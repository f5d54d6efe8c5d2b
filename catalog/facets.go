package catalog

import (
	"sort"

	"github.com/hamropustak/pasal/models"
)

// Facets are the distinct values offered by the genre and mood controls.
type Facets struct {
	Genres   []string `json:"genres"`
	Moods    []string `json:"moods"`
	MaxPrice float64  `json:"maxPrice"`
}

func BuildFacets(books []models.Book) Facets {
	f := Facets{Genres: Genres(books), Moods: Moods(books)}
	for i := range books {
		if p := books[i].DisplayedPrice(); p > f.MaxPrice {
			f.MaxPrice = p
		}
	}
	return f
}

// Genres returns the sorted distinct genres across books.
func Genres(books []models.Book) []string {
	return distinct(books, func(b *models.Book) []string { return b.Genres })
}

// Moods returns the sorted distinct mood tags across books.
func Moods(books []models.Book) []string {
	return distinct(books, func(b *models.Book) []string { return b.Moods })
}

func Featured(books []models.Book) []models.Book {
	return keep(books, func(b *models.Book) bool { return b.IsBestseller })
}

func NewArrivals(books []models.Book) []models.Book {
	return keep(books, func(b *models.Book) bool { return b.IsNew })
}

func distinct(books []models.Book, field func(*models.Book) []string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for i := range books {
		for _, v := range field(&books[i]) {
			if _, ok := seen[v]; ok || v == "" {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
