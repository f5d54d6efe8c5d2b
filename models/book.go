package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Format is a purchasable edition of a book.
type Format string

const (
	FormatHardcover Format = "hardcover"
	FormatPaperback Format = "paperback"
	FormatEbook     Format = "ebook"
	FormatAudiobook Format = "audiobook"
)

var ValidFormats = []Format{FormatHardcover, FormatPaperback, FormatEbook, FormatAudiobook}

func (f Format) Valid() bool {
	for _, v := range ValidFormats {
		if v == f {
			return true
		}
	}
	return false
}

// Prices holds an independent optional price for each format.
type Prices struct {
	Hardcover *float64 `bson:"hardcover,omitempty" json:"hardcover,omitempty"`
	Paperback *float64 `bson:"paperback,omitempty" json:"paperback,omitempty"`
	Ebook     *float64 `bson:"ebook,omitempty" json:"ebook,omitempty"`
	Audiobook *float64 `bson:"audiobook,omitempty" json:"audiobook,omitempty"`
}

func (p Prices) get(f Format) *float64 {
	switch f {
	case FormatHardcover:
		return p.Hardcover
	case FormatPaperback:
		return p.Paperback
	case FormatEbook:
		return p.Ebook
	case FormatAudiobook:
		return p.Audiobook
	}
	return nil
}

type Book struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title        string             `bson:"title" json:"title"`
	Author       string             `bson:"author" json:"author"`
	Cover        string             `bson:"cover,omitempty" json:"cover,omitempty"`             // public URL or storage key
	Rating       float64            `bson:"rating" json:"rating"`
	ReviewCount  int                `bson:"reviewCount" json:"reviewCount"`
	Price        Prices             `bson:"price" json:"price"`
	Formats      []Format           `bson:"formats" json:"formats"`
	ReadingTime  int                `bson:"readingTime,omitempty" json:"readingTime,omitempty"` // minutes
	Genres       []string           `bson:"genres,omitempty" json:"genres,omitempty"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Excerpt      string             `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	PublishDate  time.Time          `bson:"publishDate" json:"publishDate"`
	Publisher    string             `bson:"publisher,omitempty" json:"publisher,omitempty"`
	PageCount    int                `bson:"pageCount,omitempty" json:"pageCount,omitempty"`
	ISBN         string             `bson:"isbn,omitempty" json:"isbn,omitempty"`
	Tags         []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	IsBestseller bool               `bson:"isBestseller" json:"isBestseller"`
	IsNew        bool               `bson:"isNew" json:"isNew"`
	Moods        []string           `bson:"moods,omitempty" json:"moods,omitempty"`
	Status       string             `bson:"status,omitempty" json:"status,omitempty"`           // badge such as "Pre-order"
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DisplayedPrice is the price used for filtering and sorting: paperback, else hardcover, else 0.
func (b *Book) DisplayedPrice() float64 {
	if b.Price.Paperback != nil {
		return *b.Price.Paperback
	}
	if b.Price.Hardcover != nil {
		return *b.Price.Hardcover
	}
	return 0
}

// HasFormat reports whether f is listed in the book's formats.
func (b *Book) HasFormat(f Format) bool {
	for _, v := range b.Formats {
		if v == f {
			return true
		}
	}
	return false
}

// PriceFor returns the price of an offered format. ok is false when the format is not offered or unpriced.
func (b *Book) PriceFor(f Format) (price float64, ok bool) {
	if !b.HasFormat(f) {
		return 0, false
	}
	p := b.Price.get(f)
	if p == nil {
		return 0, false
	}
	return *p, true
}

var (
	ErrBookTitleRequired = errors.New("title is required")
	ErrBookNoFormats     = errors.New("at least one format is required")
	ErrBookNoPrice       = errors.New("at least one listed format must have a price")
)

// Validate checks the admin-facing integrity rules for a book record.
func (b *Book) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return ErrBookTitleRequired
	}
	if len(b.Formats) == 0 {
		return ErrBookNoFormats
	}
	priced := false
	for _, f := range b.Formats {
		if !f.Valid() {
			return fmt.Errorf("unknown format %q", f)
		}
		p := b.Price.get(f)
		if p == nil {
			continue
		}
		if *p < 0 {
			return fmt.Errorf("%s price cannot be negative", f)
		}
		priced = true
	}
	if !priced {
		return ErrBookNoPrice
	}
	if b.Rating < 0 || b.Rating > 5 {
		return errors.New("rating must be between 0 and 5")
	}
	return nil
}
