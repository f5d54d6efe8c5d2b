package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hamropustak/pasal/models"
	"github.com/hamropustak/pasal/store"
	"github.com/hamropustak/pasal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrOrderNotFound              = errors.New("order not found")
	ErrNotCancellable             = errors.New("order can no longer be cancelled")
	ErrCancellationReasonRequired = errors.New("cancellation reason is required")
	ErrInvalidStatus              = errors.New("unknown order status")
	ErrInvalidOrder               = errors.New("invalid order")
)

const (
	placedNote          = "Order placed"
	maxTrackingAttempts = 5
	notifyTimeout       = 30 * time.Second
)

var validate = validator.New()

// Notifier is told about customer-facing order events. Calls run in the background;
// failures are logged, never returned to the caller.
type Notifier interface {
	OrderPlaced(ctx context.Context, o *models.Order) error
	OrderCancelled(ctx context.Context, o *models.Order) error
}

// NewOrder is the input for Create. Totals are computed by the caller and stored as given.
type NewOrder struct {
	UserID          primitive.ObjectID
	CustomerName    string             `validate:"required"`
	CustomerEmail   string             `validate:"required,email"`
	CustomerPhone   string             `validate:"required"`
	ShippingAddress string             `validate:"required"`
	City            string
	Items           []models.OrderItem `validate:"required,min=1,dive"`
	Subtotal        float64            `validate:"gte=0"`
	ShippingCost    float64            `validate:"gte=0"`
	Total           float64            `validate:"gt=0"`
}

// OrderFilter narrows the admin listing. Query matches tracking number, customer name or email.
type OrderFilter struct {
	Query  string
	Status models.OrderStatus
}

type OrderService struct {
	orders   store.OrderStore
	notifier Notifier
	pending  sync.WaitGroup

	now           func() time.Time
	trackingCodes func() string
}

// NewOrderService builds the order lifecycle service. notifier may be nil.
func NewOrderService(orders store.OrderStore, notifier Notifier) *OrderService {
	return &OrderService{
		orders:        orders,
		notifier:      notifier,
		now:           func() time.Time { return time.Now().UTC() },
		trackingCodes: utils.NewTrackingNumber,
	}
}

// Create stores a new pending order with a single "Order placed" history entry.
func (s *OrderService) Create(ctx context.Context, in NewOrder) (*models.Order, error) {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerEmail = strings.TrimSpace(in.CustomerEmail)
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	in.ShippingAddress = strings.TrimSpace(in.ShippingAddress)
	in.City = strings.TrimSpace(in.City)
	if err := validate.Struct(in); err != nil {
		return nil, invalidOrder(err)
	}

	now := s.now()
	order := &models.Order{
		UserID:          in.UserID,
		CustomerName:    in.CustomerName,
		CustomerEmail:   in.CustomerEmail,
		CustomerPhone:   in.CustomerPhone,
		ShippingAddress: in.ShippingAddress,
		City:            in.City,
		Items:           append([]models.OrderItem(nil), in.Items...),
		Subtotal:        in.Subtotal,
		ShippingCost:    in.ShippingCost,
		Total:           in.Total,
		Status:          models.StatusPending,
		StatusHistory:   []models.StatusEntry{{Status: models.StatusPending, Timestamp: now, Note: placedNote}},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	var err error
	for attempt := 0; attempt < maxTrackingAttempts; attempt++ {
		order.TrackingNumber = s.trackingCodes()
		order.ID, err = s.orders.InsertOrder(ctx, order)
		if !errors.Is(err, store.ErrDuplicate) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	s.notify(ctx, "placed", order, Notifier.OrderPlaced)
	return order, nil
}

// UpdateStatus records an admin transition. Any known status is accepted from any status.
func (s *OrderService) UpdateStatus(ctx context.Context, id primitive.ObjectID, target models.OrderStatus, note string) (*models.Order, error) {
	if !target.Valid() {
		return nil, ErrInvalidStatus
	}
	entry := models.StatusEntry{Status: target, Timestamp: s.now(), Note: strings.TrimSpace(note)}
	ok, err := s.orders.AppendStatus(ctx, id, entry)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	if !ok {
		return nil, ErrOrderNotFound
	}
	return s.reload(ctx, id)
}

// Cancel moves an order to cancelled when its status still allows it. Nothing is written otherwise.
func (s *OrderService) Cancel(ctx context.Context, id primitive.ObjectID, reason string) (*models.Order, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrCancellationReasonRequired
	}
	entry := models.StatusEntry{Status: models.StatusCancelled, Timestamp: s.now(), Note: reason}
	ok, err := s.orders.CancelOrder(ctx, id, entry, reason)
	if err != nil {
		return nil, fmt.Errorf("cancel order: %w", err)
	}
	if !ok {
		existing, err := s.orders.OrderByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load order: %w", err)
		}
		if existing == nil {
			return nil, ErrOrderNotFound
		}
		return nil, ErrNotCancellable
	}
	order, err := s.reload(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, "cancelled", order, Notifier.OrderCancelled)
	return order, nil
}

// notify sends in the background on a copy of the order, detached from the request's cancellation.
func (s *OrderService) notify(ctx context.Context, event string, order *models.Order, send func(Notifier, context.Context, *models.Order) error) {
	if s.notifier == nil {
		return
	}
	o := *order
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer cancel()
		if err := send(s.notifier, ctx, &o); err != nil {
			log.Printf("orders: notify %s %s: %v", event, o.TrackingNumber, err)
		}
	}()
}

// Wait blocks until queued notifications have been sent.
func (s *OrderService) Wait() {
	s.pending.Wait()
}

// ByID returns nil when the order does not exist.
func (s *OrderService) ByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	return s.orders.OrderByID(ctx, id)
}

// ByTrackingNumber normalizes the code to uppercase. It returns nil when nothing matches.
func (s *OrderService) ByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Order, error) {
	tn := utils.NormalizeTrackingNumber(trackingNumber)
	if tn == "" {
		return nil, nil
	}
	return s.orders.OrderByTrackingNumber(ctx, tn)
}

// ForUser returns the user's orders newest first.
func (s *OrderService) ForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.orders.OrdersByUser(ctx, userID)
}

// List returns all orders newest first, narrowed by f.
func (s *OrderService) List(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	orders, err := s.orders.AllOrders(ctx)
	if err != nil {
		return nil, err
	}
	return FilterOrders(orders, f), nil
}

func (s *OrderService) reload(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	order, err := s.orders.OrderByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// FilterOrders keeps orders whose tracking number, customer name or email contains f.Query
// (case-insensitive) and whose status equals f.Status when set. Input order is preserved.
func FilterOrders(orders []models.Order, f OrderFilter) []models.Order {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(o.TrackingNumber), q) &&
			!strings.Contains(strings.ToLower(o.CustomerName), q) &&
			!strings.Contains(strings.ToLower(o.CustomerEmail), q) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func invalidOrder(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}
	fe := verrs[0]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fe.Field() + " is required"
	case "min":
		msg = fe.Field() + " must not be empty"
	case "email":
		msg = fe.Field() + " must be a valid email"
	case "gt":
		msg = fe.Field() + " must be greater than " + fe.Param()
	case "gte":
		msg = fe.Field() + " must not be negative"
	default:
		msg = fe.Field() + " is invalid"
	}
	return fmt.Errorf("%w: %s", ErrInvalidOrder, msg)
}
