package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hamropustak/pasal/models"
	"github.com/hamropustak/pasal/utils"
)

const (
	googleBooksBase = "https://www.googleapis.com/books/v1/volumes"
	openLibraryBase = "https://covers.openlibrary.org"
)

var ErrVolumeNotFound = errors.New("no volume found")

// googleBooksVolumesResp is the response from GET /volumes?q=isbn:...
type googleBooksVolumesResp struct {
	TotalItems int `json:"totalItems"`
	Items      []struct {
		VolumeInfo struct {
			Title               string   `json:"title"`
			Subtitle            string   `json:"subtitle"`
			Authors             []string `json:"authors"`
			Publisher           string   `json:"publisher"`
			PublishedDate       string   `json:"publishedDate"`
			Description         string   `json:"description"`
			PageCount           int      `json:"pageCount"`
			Categories          []string `json:"categories"`
			IndustryIdentifiers []struct {
				Type       string `json:"type"`
				Identifier string `json:"identifier"`
			} `json:"industryIdentifiers"`
			AverageRating float64 `json:"averageRating"`
			RatingsCount  int     `json:"ratingsCount"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// MetadataClient prefills admin book forms from Google Books.
type MetadataClient struct {
	HTTP      *http.Client
	BaseURL   string
	CoversURL string
}

func NewMetadataClient() *MetadataClient {
	return &MetadataClient{
		HTTP:      &http.Client{Timeout: 15 * time.Second},
		BaseURL:   googleBooksBase,
		CoversURL: openLibraryBase,
	}
}

// LookupISBN returns a draft book with bibliographic fields filled in. Prices and formats are left for the admin.
func (c *MetadataClient) LookupISBN(ctx context.Context, isbn string) (*models.Book, error) {
	isbn = utils.SanitizeISBN(isbn)
	if !utils.ValidISBN(isbn) {
		return nil, fmt.Errorf("invalid isbn %q", isbn)
	}
	q := url.Values{}
	q.Set("q", "isbn:"+isbn)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google books returned %d", resp.StatusCode)
	}
	var data googleBooksVolumesResp
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	if data.TotalItems == 0 || len(data.Items) == 0 {
		return nil, fmt.Errorf("%w for isbn %s", ErrVolumeNotFound, isbn)
	}
	vi := data.Items[0].VolumeInfo
	book := &models.Book{
		Title:       vi.Title,
		Author:      strings.Join(vi.Authors, ", "),
		Publisher:   vi.Publisher,
		PublishDate: parsePublishedDate(vi.PublishedDate),
		PageCount:   vi.PageCount,
		Genres:      vi.Categories,
		Rating:      vi.AverageRating,
		ReviewCount: vi.RatingsCount,
		Description: strings.TrimSpace(vi.Description),
		ISBN:        isbn,
	}
	if vi.Subtitle != "" {
		book.Title = book.Title + ": " + vi.Subtitle
	}
	for _, id := range vi.IndustryIdentifiers {
		if id.Type == "ISBN_13" {
			book.ISBN = id.Identifier
			break
		}
	}
	if book.PageCount > 0 {
		// Roughly 1.5 minutes per page.
		book.ReadingTime = book.PageCount * 3 / 2
	}
	// Open Library covers by ISBN avoid the captcha Google image links often hit.
	book.Cover = c.CoversURL + "/b/isbn/" + url.PathEscape(book.ISBN) + "-L.jpg"
	return book, nil
}

// parsePublishedDate accepts the YYYY, YYYY-MM and YYYY-MM-DD forms Google Books returns.
func parsePublishedDate(s string) time.Time {
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
