package models

// CartItem is one (book, format) line in a shopper's cart. Price is captured when the item is added.
type CartItem struct {
	BookID   string  `json:"bookId" validate:"required"`
	Format   Format  `json:"format" validate:"required"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Title    string  `json:"title,omitempty"`
	Author   string  `json:"author,omitempty"`
	Cover    string  `json:"cover,omitempty"`
}

// SameLine reports whether the item occupies the given (book, format) slot.
func (c CartItem) SameLine(bookID string, format Format) bool {
	return c.BookID == bookID && c.Format == format
}
