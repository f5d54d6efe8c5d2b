package catalog

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/hamropustak/pasal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var (
	genrePool = []string{"Fiction", "Science Fiction", "Fantasy", "Mystery", "Romance", "History", "Poetry"}
	moodPool  = []string{"cozy", "dark", "hopeful", "adventurous", "reflective"}
	wordPool  = []string{"Muna", "Madan", "Palpasa", "Cafe", "Seto", "Dharti", "Karnali", "Blues", "river", "mountain"}
)

func price(v float64) *float64 { return &v }

func bookGen() *rapid.Generator[models.Book] {
	return rapid.Custom(func(t *rapid.T) models.Book {
		b := models.Book{
			Title:       strings.Join(rapid.SliceOfN(rapid.SampledFrom(wordPool), 1, 3).Draw(t, "title"), " "),
			Author:      rapid.SampledFrom(wordPool).Draw(t, "author"),
			Description: strings.Join(rapid.SliceOfN(rapid.SampledFrom(wordPool), 0, 5).Draw(t, "description"), " "),
			Genres:      rapid.SliceOfNDistinct(rapid.SampledFrom(genrePool), 0, 3, rapid.ID[string]).Draw(t, "genres"),
			Moods:       rapid.SliceOfNDistinct(rapid.SampledFrom(moodPool), 0, 2, rapid.ID[string]).Draw(t, "moods"),
			Rating:      rapid.Float64Range(0, 5).Draw(t, "rating"),
			ReviewCount: rapid.IntRange(0, 500).Draw(t, "reviews"),
			PublishDate: time.Date(2000+rapid.IntRange(0, 25).Draw(t, "year"), 1, 1, 0, 0, 0, 0, time.UTC),
			Formats:     []models.Format{models.FormatPaperback},
		}
		if rapid.Bool().Draw(t, "hasPaperback") {
			b.Price.Paperback = price(rapid.Float64Range(100, 3000).Draw(t, "paperback"))
		}
		if rapid.Bool().Draw(t, "hasHardcover") {
			b.Price.Hardcover = price(rapid.Float64Range(100, 3000).Draw(t, "hardcover"))
		}
		return b
	})
}

func booksGen() *rapid.Generator[[]models.Book] {
	return rapid.SliceOfN(bookGen(), 0, 20)
}

func TestFilterGenresProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		books := booksGen().Draw(t, "books")
		selected := rapid.SliceOfNDistinct(rapid.SampledFrom(genrePool), 1, 3, rapid.ID[string]).Draw(t, "selected")
		for _, b := range FilterGenres(books, selected) {
			if !intersects(b.Genres, selected) {
				t.Fatalf("book %q genres %v do not intersect %v", b.Title, b.Genres, selected)
			}
		}
	})
}

func TestFilterGenresEmptySelectionUnchanged(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		books := booksGen().Draw(t, "books")
		out := FilterGenres(books, nil)
		require.Len(t, out, len(books))
		for i := range books {
			if books[i].Title != out[i].Title {
				t.Fatalf("order changed at %d", i)
			}
		}
	})
}

func TestFilterMaxPriceProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		books := booksGen().Draw(t, "books")
		ceiling := rapid.Float64Range(0, 3500).Draw(t, "ceiling")
		for _, b := range FilterMaxPrice(books, ceiling) {
			if b.DisplayedPrice() > ceiling {
				t.Fatalf("book %q price %v exceeds %v", b.Title, b.DisplayedPrice(), ceiling)
			}
		}
	})
}

func TestSearchProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		books := booksGen().Draw(t, "books")
		q := rapid.SampledFrom(wordPool).Draw(t, "q")
		if rapid.Bool().Draw(t, "upper") {
			q = strings.ToUpper(q)
		}
		needle := strings.ToLower(q)
		for _, b := range Search(books, q) {
			if !strings.Contains(strings.ToLower(b.Title), needle) &&
				!strings.Contains(strings.ToLower(b.Author), needle) &&
				!strings.Contains(strings.ToLower(b.Description), needle) {
				t.Fatalf("book %q does not contain %q", b.Title, q)
			}
		}
	})
}

func TestFiltersCommute(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		books := booksGen().Draw(t, "books")
		selected := rapid.SliceOfNDistinct(rapid.SampledFrom(genrePool), 0, 2, rapid.ID[string]).Draw(t, "selected")
		mood := rapid.SampledFrom(append([]string{""}, moodPool...)).Draw(t, "mood")
		ceiling := rapid.Float64Range(0, 3500).Draw(t, "ceiling")

		a := FilterMaxPrice(FilterMood(FilterGenres(books, selected), mood), ceiling)
		b := FilterGenres(FilterMood(FilterMaxPrice(books, ceiling), mood), selected)
		require.Equal(t, titles(a), titles(b))
	})
}

func TestFilterGenresNoOverlap(t *testing.T) {
	books := []models.Book{{Title: "Seto Dharti", Genres: []string{"Fiction"}}}
	assert.Empty(t, FilterGenres(books, []string{"Science Fiction"}))
}

func TestDisplayedPriceFallback(t *testing.T) {
	books := []models.Book{
		{Title: "paper", Price: models.Prices{Paperback: price(300), Hardcover: price(900)}},
		{Title: "hard", Price: models.Prices{Hardcover: price(800)}},
		{Title: "ebook only", Price: models.Prices{Ebook: price(50)}},
	}
	assert.Equal(t, []string{"paper", "ebook only"}, titles(FilterMaxPrice(books, 500)))
	assert.Equal(t, []string{"ebook only", "paper", "hard"}, titles(Sort(books, SortPriceLow)))
	assert.Equal(t, []string{"hard", "paper", "ebook only"}, titles(Sort(books, SortPriceHigh)))
}

func TestSortOrders(t *testing.T) {
	books := []models.Book{
		{Title: "a", Rating: 3.1, ReviewCount: 10, PublishDate: time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Title: "b", Rating: 4.8, ReviewCount: 2, PublishDate: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Title: "c", Rating: 4.0, ReviewCount: 40, PublishDate: time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	assert.Equal(t, []string{"a", "b", "c"}, titles(Sort(books, SortRelevance)))
	assert.Equal(t, []string{"b", "c", "a"}, titles(Sort(books, SortNewest)))
	assert.Equal(t, []string{"c", "a", "b"}, titles(Sort(books, SortPopular)))
	assert.Equal(t, []string{"b", "c", "a"}, titles(Sort(books, SortRating)))
	assert.Equal(t, "a", books[0].Title, "input must not be reordered")
}

func TestApplyComposesInOrder(t *testing.T) {
	books := []models.Book{
		{Title: "Palpasa Cafe", Author: "Narayan Wagle", Genres: []string{"Fiction"}, Moods: []string{"reflective"}, Price: models.Prices{Paperback: price(450)}, Rating: 4.5},
		{Title: "Muna Madan", Author: "Laxmi Prasad Devkota", Genres: []string{"Poetry"}, Moods: []string{"reflective"}, Price: models.Prices{Paperback: price(200)}, Rating: 4.9},
		{Title: "Karnali Blues", Author: "Buddhisagar", Genres: []string{"Fiction"}, Moods: []string{"hopeful"}, Price: models.Prices{Paperback: price(600)}, Rating: 4.7},
		{Title: "Seto Dharti", Author: "Amar Neupane", Genres: []string{"Fiction"}, Moods: []string{"reflective"}, Price: models.Prices{Hardcover: price(550)}, Rating: 4.6},
	}
	q := Query{Genres: []string{"Fiction"}, Mood: "reflective", MaxPrice: price(500), Sort: SortRating}
	assert.Equal(t, []string{"Palpasa Cafe"}, titles(Apply(books, q)))

	q = Query{Search: "a", Sort: SortRating}
	assert.Equal(t, []string{"Muna Madan", "Karnali Blues", "Seto Dharti", "Palpasa Cafe"}, titles(Apply(books, q)))
}

func TestParseQuery(t *testing.T) {
	v := url.Values{}
	v.Add("q", "  devkota ")
	v.Add("genre", "Fiction,Poetry")
	v.Add("genre", "History")
	v.Set("mood", "cozy")
	v.Set("maxPrice", "750")
	v.Set("sort", "price-low")

	q := ParseQuery(v)
	assert.Equal(t, "devkota", q.Search)
	assert.Equal(t, []string{"Fiction", "Poetry", "History"}, q.Genres)
	assert.Equal(t, "cozy", q.Mood)
	require.NotNil(t, q.MaxPrice)
	assert.Equal(t, 750.0, *q.MaxPrice)
	assert.Equal(t, SortPriceLow, q.Sort)

	q = ParseQuery(url.Values{"maxPrice": {"abc"}})
	assert.Nil(t, q.MaxPrice)
	assert.Equal(t, SortRelevance, q.Sort)
}

func TestBuildFacets(t *testing.T) {
	books := []models.Book{
		{Genres: []string{"Poetry", "Fiction"}, Moods: []string{"cozy"}, Price: models.Prices{Paperback: price(300)}, IsBestseller: true},
		{Genres: []string{"Fiction"}, Moods: []string{"dark", "cozy"}, Price: models.Prices{Hardcover: price(1200)}, IsNew: true},
	}
	f := BuildFacets(books)
	assert.Equal(t, []string{"Fiction", "Poetry"}, f.Genres)
	assert.Equal(t, []string{"cozy", "dark"}, f.Moods)
	assert.Equal(t, 1200.0, f.MaxPrice)
	assert.Len(t, Featured(books), 1)
	assert.Len(t, NewArrivals(books), 1)
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func titles(books []models.Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.Title)
	}
	return out
}
