package store

import (
	"context"
	"errors"
	"time"

	"github.com/hamropustak/pasal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrDuplicate is returned when a unique index rejects a write.
var ErrDuplicate = errors.New("store: duplicate key")

// Lookups return (nil, nil) when nothing matches.

type BookStore interface {
	InsertBook(ctx context.Context, book *models.Book) (primitive.ObjectID, error)
	AllBooks(ctx context.Context) ([]models.Book, error)
	BookByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error)
	UpdateBook(ctx context.Context, id primitive.ObjectID, book *models.Book) (bool, error)
	DeleteBook(ctx context.Context, id primitive.ObjectID) (*models.Book, error)
	UpdateBookRating(ctx context.Context, id primitive.ObjectID, rating float64, count int) error
}

type OrderStore interface {
	InsertOrder(ctx context.Context, order *models.Order) (primitive.ObjectID, error)
	OrderByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	OrderByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Order, error)
	OrdersByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	AllOrders(ctx context.Context) ([]models.Order, error)
	// AppendStatus pushes entry onto the history and sets the status. It reports whether the order exists.
	AppendStatus(ctx context.Context, id primitive.ObjectID, entry models.StatusEntry) (bool, error)
	// CancelOrder cancels only while the status is cancellable. It reports whether the write happened.
	CancelOrder(ctx context.Context, id primitive.ObjectID, entry models.StatusEntry, reason string) (bool, error)
}

type ProfileStore interface {
	ProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	ProfileByID(ctx context.Context, id primitive.ObjectID) (*models.Profile, error)
	CreateProfile(ctx context.Context, p *models.Profile) (primitive.ObjectID, error)
	ListProfiles(ctx context.Context) ([]models.Profile, error)
	UpdateProfileDetails(ctx context.Context, id primitive.ObjectID, p *models.Profile) error
	UpdateRole(ctx context.Context, id primitive.ObjectID, role string) error
	AdminsCount(ctx context.Context) (int64, error)
}

type ReviewStore interface {
	InsertReview(ctx context.Context, r *models.Review) (primitive.ObjectID, error)
	ReviewsForBook(ctx context.Context, bookID primitive.ObjectID) ([]models.Review, error)
}

type SettingsStore interface {
	Setting(ctx context.Context, key string) (*models.SiteSetting, error)
	PutSetting(ctx context.Context, key, value string, at time.Time) error
	MailSettings(ctx context.Context) (*models.MailSettings, error)
	SaveMailSettings(ctx context.Context, m *models.MailSettings) error
}

// Store is everything the HTTP layer needs. *DB and *Memory implement it.
type Store interface {
	BookStore
	OrderStore
	ProfileStore
	ReviewStore
	SettingsStore
}

var (
	_ Store = (*DB)(nil)
	_ Store = (*Memory)(nil)
)
