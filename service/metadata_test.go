package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const volumeJSON = `{
  "totalItems": 1,
  "items": [{
    "volumeInfo": {
      "title": "Seto Dharti",
      "subtitle": "A Novel",
      "authors": ["Amar Neupane"],
      "publisher": "FinePrint",
      "publishedDate": "2012-06",
      "description": "  A story of a child widow.  ",
      "pageCount": 300,
      "categories": ["Fiction"],
      "industryIdentifiers": [{"type": "ISBN_10", "identifier": "0306406152"}, {"type": "ISBN_13", "identifier": "9780306406157"}],
      "averageRating": 4.5,
      "ratingsCount": 12
    }
  }]
}`

func TestLookupISBN(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(volumeJSON))
	}))
	defer srv.Close()

	c := &MetadataClient{HTTP: srv.Client(), BaseURL: srv.URL, CoversURL: "https://covers.test"}
	book, err := c.LookupISBN(context.Background(), "978-0-306-40615-7")
	require.NoError(t, err)

	assert.Equal(t, "isbn:9780306406157", gotQuery)
	assert.Equal(t, "Seto Dharti: A Novel", book.Title)
	assert.Equal(t, "Amar Neupane", book.Author)
	assert.Equal(t, "9780306406157", book.ISBN)
	assert.Equal(t, time.Date(2012, 6, 1, 0, 0, 0, 0, time.UTC), book.PublishDate)
	assert.Equal(t, []string{"Fiction"}, book.Genres)
	assert.Equal(t, "A story of a child widow.", book.Description)
	assert.Equal(t, 450, book.ReadingTime)
	assert.Equal(t, "https://covers.test/b/isbn/9780306406157-L.jpg", book.Cover)
}

func TestLookupISBNErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "isbn:9780306406157" {
			w.Write([]byte(`{"totalItems":0}`))
			return
		}
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()
	c := &MetadataClient{HTTP: srv.Client(), BaseURL: srv.URL, CoversURL: srv.URL}

	_, err := c.LookupISBN(context.Background(), "12345")
	assert.ErrorContains(t, err, "invalid isbn")

	_, err = c.LookupISBN(context.Background(), "0-306-40615-2")
	assert.ErrorContains(t, err, "429")

	_, err = c.LookupISBN(context.Background(), "978-0-306-40615-7")
	assert.ErrorIs(t, err, ErrVolumeNotFound)
}
