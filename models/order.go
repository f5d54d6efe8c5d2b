package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusCollecting     OrderStatus = "collecting"
	StatusPacking        OrderStatus = "packing"
	StatusShipping       OrderStatus = "shipping"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

// OrderStatuses lists the forward lifecycle followed by cancelled.
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusCollecting,
	StatusPacking,
	StatusShipping,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
}

// NonCancellableStatuses are the states from which a shopper or admin may no longer cancel.
var NonCancellableStatuses = []OrderStatus{
	StatusShipping,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Cancellable reports whether an order in this status may still be cancelled.
func (s OrderStatus) Cancellable() bool {
	for _, v := range NonCancellableStatuses {
		if v == s {
			return false
		}
	}
	return true
}

// OrderItem is a frozen copy of the book line at the moment the order was placed.
type OrderItem struct {
	BookID   string  `bson:"bookId" json:"bookId" validate:"required"`
	Title    string  `bson:"title" json:"title"`
	Author   string  `bson:"author" json:"author"`
	Cover    string  `bson:"cover,omitempty" json:"cover,omitempty"`
	Format   Format  `bson:"format" json:"format" validate:"required,oneof=hardcover paperback ebook audiobook"`
	Quantity int     `bson:"quantity" json:"quantity" validate:"gt=0"`
	Price    float64 `bson:"price" json:"price" validate:"gte=0"`
}

type StatusEntry struct {
	Status    OrderStatus `bson:"status" json:"status"`
	Timestamp time.Time   `bson:"timestamp" json:"timestamp"`
	Note      string      `bson:"note,omitempty" json:"note,omitempty"`
}

type Order struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrackingNumber     string             `bson:"trackingNumber" json:"trackingNumber"`
	UserID             primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	CustomerName       string             `bson:"customerName" json:"customerName"`
	CustomerEmail      string             `bson:"customerEmail" json:"customerEmail"`
	CustomerPhone      string             `bson:"customerPhone" json:"customerPhone"`
	ShippingAddress    string             `bson:"shippingAddress" json:"shippingAddress"`
	City               string             `bson:"city,omitempty" json:"city,omitempty"`
	Items              []OrderItem        `bson:"items" json:"items"`
	Subtotal           float64            `bson:"subtotal" json:"subtotal"`
	ShippingCost       float64            `bson:"shippingCost" json:"shippingCost"`
	Total              float64            `bson:"total" json:"total"`
	Status             OrderStatus        `bson:"status" json:"status"`
	StatusHistory      []StatusEntry      `bson:"statusHistory" json:"statusHistory"`
	CancellationReason string             `bson:"cancellationReason,omitempty" json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time         `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CanCancel reports whether the order's current status still allows cancellation.
func (o *Order) CanCancel() bool {
	return o.Status.Cancellable()
}

// ItemCount is the total quantity across all lines.
func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}
