package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hamropustak/pasal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory keeps every collection in-process. It backs tests and local runs without MongoDB.
type Memory struct {
	mu       sync.RWMutex
	books    map[primitive.ObjectID]models.Book
	orders   map[primitive.ObjectID]models.Order
	profiles map[primitive.ObjectID]models.Profile
	reviews  map[primitive.ObjectID]models.Review
	settings map[string]models.SiteSetting
	mail     *models.MailSettings
}

func NewMemory() *Memory {
	return &Memory{
		books:    make(map[primitive.ObjectID]models.Book),
		orders:   make(map[primitive.ObjectID]models.Order),
		profiles: make(map[primitive.ObjectID]models.Profile),
		reviews:  make(map[primitive.ObjectID]models.Review),
		settings: make(map[string]models.SiteSetting),
	}
}

// books

func (m *Memory) InsertBook(_ context.Context, book *models.Book) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := *book
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	m.books[b.ID] = b
	return b.ID, nil
}

func (m *Memory) AllBooks(_ context.Context) ([]models.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Book, 0, len(m.books))
	for _, b := range m.books {
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out, nil
}

func (m *Memory) BookByID(_ context.Context, id primitive.ObjectID) (*models.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.books[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (m *Memory) UpdateBook(_ context.Context, id primitive.ObjectID, book *models.Book) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.books[id]
	if !ok {
		return false, nil
	}
	next := *book
	next.ID = id
	next.Rating = cur.Rating
	next.ReviewCount = cur.ReviewCount
	next.CreatedAt = cur.CreatedAt
	m.books[id] = next
	return true, nil
}

func (m *Memory) DeleteBook(_ context.Context, id primitive.ObjectID) (*models.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[id]
	if !ok {
		return nil, nil
	}
	delete(m.books, id)
	return &b, nil
}

func (m *Memory) UpdateBookRating(_ context.Context, id primitive.ObjectID, rating float64, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.books[id]; ok {
		b.Rating = rating
		b.ReviewCount = count
		m.books[id] = b
	}
	return nil
}

// orders

func (m *Memory) InsertOrder(_ context.Context, order *models.Order) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.TrackingNumber == order.TrackingNumber {
			return primitive.NilObjectID, ErrDuplicate
		}
	}
	o := cloneOrder(*order)
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	m.orders[o.ID] = o
	return o.ID, nil
}

func (m *Memory) OrderByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	o = cloneOrder(o)
	return &o, nil
}

func (m *Memory) OrderByTrackingNumber(_ context.Context, trackingNumber string) (*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, o := range m.orders {
		if o.TrackingNumber == trackingNumber {
			o = cloneOrder(o)
			return &o, nil
		}
	}
	return nil, nil
}

func (m *Memory) filterOrders(keep func(*models.Order) bool) []models.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Order{}
	for _, o := range m.orders {
		if keep(&o) {
			out = append(out, cloneOrder(o))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out
}

func (m *Memory) OrdersByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return m.filterOrders(func(o *models.Order) bool { return o.UserID == userID }), nil
}

func (m *Memory) AllOrders(_ context.Context) ([]models.Order, error) {
	return m.filterOrders(func(*models.Order) bool { return true }), nil
}

func (m *Memory) AppendStatus(_ context.Context, id primitive.ObjectID, entry models.StatusEntry) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return false, nil
	}
	o.Status = entry.Status
	o.StatusHistory = append(o.StatusHistory, entry)
	o.UpdatedAt = entry.Timestamp
	m.orders[id] = o
	return true, nil
}

func (m *Memory) CancelOrder(_ context.Context, id primitive.ObjectID, entry models.StatusEntry, reason string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || !o.Status.Cancellable() {
		return false, nil
	}
	at := entry.Timestamp
	o.Status = models.StatusCancelled
	o.StatusHistory = append(o.StatusHistory, entry)
	o.CancellationReason = reason
	o.CancelledAt = &at
	o.UpdatedAt = at
	m.orders[id] = o
	return true, nil
}

// profiles

func (m *Memory) ProfileByEmail(_ context.Context, email string) (*models.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.profiles {
		if p.Email == email {
			return &p, nil
		}
	}
	return nil, nil
}

func (m *Memory) ProfileByID(_ context.Context, id primitive.ObjectID) (*models.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *Memory) CreateProfile(_ context.Context, p *models.Profile) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.profiles {
		if existing.Email == p.Email {
			return primitive.NilObjectID, ErrDuplicate
		}
	}
	np := *p
	if np.ID.IsZero() {
		np.ID = primitive.NewObjectID()
	}
	m.profiles[np.ID] = np
	return np.ID, nil
}

func (m *Memory) ListProfiles(_ context.Context) ([]models.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return newer(out[j].CreatedAt, out[i].CreatedAt, out[j].ID, out[i].ID) })
	return out, nil
}

func (m *Memory) UpdateProfileDetails(_ context.Context, id primitive.ObjectID, p *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.profiles[id]
	if !ok {
		return nil
	}
	cur.FullName = p.FullName
	cur.Phone = p.Phone
	cur.Address = p.Address
	cur.City = p.City
	cur.ProfileComplete = cur.Complete()
	m.profiles[id] = cur
	return nil
}

func (m *Memory) UpdateRole(_ context.Context, id primitive.ObjectID, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.profiles[id]; ok {
		p.Role = role
		m.profiles[id] = p
	}
	return nil
}

func (m *Memory) AdminsCount(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, p := range m.profiles {
		if p.Role == models.RoleAdmin {
			n++
		}
	}
	return n, nil
}

// reviews

func (m *Memory) InsertReview(_ context.Context, r *models.Review) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	nr := *r
	if nr.ID.IsZero() {
		nr.ID = primitive.NewObjectID()
	}
	m.reviews[nr.ID] = nr
	return nr.ID, nil
}

func (m *Memory) ReviewsForBook(_ context.Context, bookID primitive.ObjectID) ([]models.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Review{}
	for _, r := range m.reviews {
		if r.BookID == bookID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out, nil
}

// settings

func (m *Memory) Setting(_ context.Context, key string) (*models.SiteSetting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.settings[key]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *Memory) PutSetting(_ context.Context, key, value string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[key] = models.SiteSetting{Key: key, Value: value, UpdatedAt: at}
	return nil
}

func (m *Memory) MailSettings(_ context.Context) (*models.MailSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.mail == nil {
		return nil, nil
	}
	cp := *m.mail
	return &cp, nil
}

func (m *Memory) SaveMailSettings(_ context.Context, ms *models.MailSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *ms
	m.mail = &cp
	return nil
}

// newer orders by time descending, breaking ties with the ObjectID (which embeds creation order).
func newer(a, b time.Time, aID, bID primitive.ObjectID) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return aID.Hex() > bID.Hex()
}

func cloneOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	o.StatusHistory = append([]models.StatusEntry(nil), o.StatusHistory...)
	if o.CancelledAt != nil {
		at := *o.CancelledAt
		o.CancelledAt = &at
	}
	return o
}
