package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/hamropustak/pasal/cart"
	"github.com/hamropustak/pasal/middleware"
	"github.com/hamropustak/pasal/models"
	"github.com/hamropustak/pasal/service"
	"github.com/hamropustak/pasal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrdersHandler struct {
	Orders   *service.OrderService
	Profiles store.ProfileStore
	Cart     *cart.Store
}

// ContactDetails are the customer fields shared by buy-now and checkout.
type ContactDetails struct {
	CustomerName    string `json:"customerName"`
	CustomerEmail   string `json:"customerEmail"`
	CustomerPhone   string `json:"customerPhone"`
	ShippingAddress string `json:"shippingAddress"`
	City            string `json:"city"`
}

// PlaceOrderRequest is the buy-now payload. Totals are computed by the storefront.
type PlaceOrderRequest struct {
	ContactDetails
	Items        []models.OrderItem `json:"items"`
	Subtotal     float64            `json:"subtotal"`
	ShippingCost float64            `json:"shippingCost"`
	Total        float64            `json:"total"`
}

// CheckoutRequest turns the caller's cart into an order. Subtotal comes from the cart snapshot prices.
type CheckoutRequest struct {
	ContactDetails
	ShippingCost float64 `json:"shippingCost"`
}

type StatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
	Note   string             `json:"note"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

// OrderResponse adds the cancel eligibility the storefront uses to show the cancel button.
type OrderResponse struct {
	*models.Order
	CanCancel bool `json:"canCancel"`
}

func orderResponse(o *models.Order) OrderResponse {
	return OrderResponse{Order: o, CanCancel: o.CanCancel()}
}

func orderList(orders []models.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = orderResponse(&orders[i])
	}
	return out
}

// Place handles buy-now. Guests may order; a valid token attaches the order to the user.
func (h *OrdersHandler) Place(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in := service.NewOrder{
		Items:        req.Items,
		Subtotal:     req.Subtotal,
		ShippingCost: req.ShippingCost,
		Total:        req.Total,
	}
	if !h.fillContact(w, r, &in, req.ContactDetails) {
		return
	}
	order, err := h.Orders.Create(r.Context(), in)
	if err != nil {
		h.orderError(w, err, "place")
		return
	}
	writeJSON(w, http.StatusCreated, orderResponse(order))
}

// Checkout creates an order from the cart. Once the order is stored the ordered lines are taken off
// the cart; lines added meanwhile stay.
func (h *OrdersHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	items, err := h.Cart.Items(r.Context(), owner(r))
	if err != nil {
		log.Printf("orders: checkout load cart: %v", err)
		http.Error(w, `{"error":"failed to load cart"}`, http.StatusInternalServerError)
		return
	}
	if len(items) == 0 {
		http.Error(w, `{"error":"cart is empty"}`, http.StatusBadRequest)
		return
	}
	subtotal := cart.TotalPrice(items)
	in := service.NewOrder{
		Items:        orderItems(items),
		Subtotal:     subtotal,
		ShippingCost: req.ShippingCost,
		Total:        subtotal + req.ShippingCost,
	}
	if !h.fillContact(w, r, &in, req.ContactDetails) {
		return
	}
	order, err := h.Orders.Create(r.Context(), in)
	if err != nil {
		h.orderError(w, err, "checkout")
		return
	}
	if _, err := h.Cart.RemoveOrdered(r.Context(), owner(r), items); err != nil {
		log.Printf("orders: checkout clear cart %s: %v", order.TrackingNumber, err)
	}
	writeJSON(w, http.StatusCreated, orderResponse(order))
}

func orderItems(items []models.CartItem) []models.OrderItem {
	out := make([]models.OrderItem, len(items))
	for i, it := range items {
		out[i] = models.OrderItem{
			BookID:   it.BookID,
			Title:    it.Title,
			Author:   it.Author,
			Cover:    it.Cover,
			Format:   it.Format,
			Quantity: it.Quantity,
			Price:    it.Price,
		}
	}
	return out
}

// fillContact sets the customer fields on in. For a logged-in user, blank fields are taken from the
// profile, and an incomplete profile is filled from the request before the order is written.
func (h *OrdersHandler) fillContact(w http.ResponseWriter, r *http.Request, in *service.NewOrder, c ContactDetails) bool {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if ok {
		profile, err := h.Profiles.ProfileByID(r.Context(), userID)
		if err != nil {
			log.Printf("orders: load profile %s: %v", userID.Hex(), err)
			http.Error(w, `{"error":"failed to load profile"}`, http.StatusInternalServerError)
			return false
		}
		if profile != nil {
			in.UserID = profile.ID
			c.CustomerName = firstNonBlank(c.CustomerName, profile.FullName)
			c.CustomerEmail = firstNonBlank(c.CustomerEmail, profile.Email)
			c.CustomerPhone = firstNonBlank(c.CustomerPhone, profile.Phone)
			c.ShippingAddress = firstNonBlank(c.ShippingAddress, profile.Address)
			c.City = firstNonBlank(c.City, profile.City)
			if !profile.Complete() {
				h.saveProfileDefaults(r, profile, c)
			}
		}
	}
	in.CustomerName = c.CustomerName
	in.CustomerEmail = c.CustomerEmail
	in.CustomerPhone = c.CustomerPhone
	in.ShippingAddress = c.ShippingAddress
	in.City = c.City
	return true
}

// saveProfileDefaults is best effort; the order still goes through when it fails.
func (h *OrdersHandler) saveProfileDefaults(r *http.Request, p *models.Profile, c ContactDetails) {
	update := *p
	update.FullName = c.CustomerName
	update.Phone = c.CustomerPhone
	update.Address = c.ShippingAddress
	update.City = c.City
	if update == *p {
		return
	}
	if err := h.Profiles.UpdateProfileDetails(r.Context(), p.ID, &update); err != nil {
		log.Printf("orders: save profile defaults %s: %v", p.ID.Hex(), err)
	}
}

func firstNonBlank(v, fallback string) string {
	if strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

// Track is the public lookup by tracking number.
func (h *OrdersHandler) Track(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.ByTrackingNumber(r.Context(), chi.URLParam(r, "trackingNumber"))
	if err != nil {
		log.Printf("orders: track: %v", err)
		http.Error(w, `{"error":"failed to look up order"}`, http.StatusInternalServerError)
		return
	}
	if order == nil {
		http.Error(w, `{"error":"order not found"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, orderResponse(order))
}

func (h *OrdersHandler) Mine(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	orders, err := h.Orders.ForUser(r.Context(), userID)
	if err != nil {
		log.Printf("orders: mine: %v", err)
		http.Error(w, `{"error":"failed to list orders"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, orderList(orders))
}

// CancelOwn lets a shopper cancel their own order. Other users' orders look like missing ones.
func (h *OrdersHandler) CancelOwn(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id", "order")
	if !ok {
		return
	}
	var req CancelRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	userID, _ := middleware.UserIDFromContext(r.Context())
	existing, err := h.Orders.ByID(r.Context(), id)
	if err != nil {
		h.orderError(w, err, "cancel")
		return
	}
	if existing == nil || existing.UserID != userID {
		http.Error(w, `{"error":"order not found"}`, http.StatusNotFound)
		return
	}
	h.cancel(w, r, id, req.Reason)
}

func (h *OrdersHandler) AdminCancel(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id", "order")
	if !ok {
		return
	}
	var req CancelRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.cancel(w, r, id, req.Reason)
}

func (h *OrdersHandler) cancel(w http.ResponseWriter, r *http.Request, id primitive.ObjectID, reason string) {
	order, err := h.Orders.Cancel(r.Context(), id, reason)
	if err != nil {
		h.orderError(w, err, "cancel")
		return
	}
	writeJSON(w, http.StatusOK, orderResponse(order))
}

// AdminList supports ?q= (tracking number, name or email) and ?status=.
func (h *OrdersHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	f := service.OrderFilter{
		Query:  r.URL.Query().Get("q"),
		Status: models.OrderStatus(r.URL.Query().Get("status")),
	}
	if f.Status != "" && !f.Status.Valid() {
		http.Error(w, `{"error":"unknown order status"}`, http.StatusBadRequest)
		return
	}
	orders, err := h.Orders.List(r.Context(), f)
	if err != nil {
		log.Printf("orders: admin list: %v", err)
		http.Error(w, `{"error":"failed to list orders"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, orderList(orders))
}

func (h *OrdersHandler) AdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id", "order")
	if !ok {
		return
	}
	var req StatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	order, err := h.Orders.UpdateStatus(r.Context(), id, req.Status, req.Note)
	if err != nil {
		h.orderError(w, err, "update status")
		return
	}
	writeJSON(w, http.StatusOK, orderResponse(order))
}

func (h *OrdersHandler) orderError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, service.ErrInvalidOrder):
		jsonError(w, strings.TrimPrefix(err.Error(), service.ErrInvalidOrder.Error()+": "), http.StatusBadRequest)
	case errors.Is(err, service.ErrInvalidStatus), errors.Is(err, service.ErrCancellationReasonRequired):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrOrderNotFound):
		http.Error(w, `{"error":"order not found"}`, http.StatusNotFound)
	case errors.Is(err, service.ErrNotCancellable):
		jsonError(w, err.Error(), http.StatusConflict)
	default:
		log.Printf("orders: %s: %v", op, err)
		http.Error(w, `{"error":"failed to `+op+` order"}`, http.StatusInternalServerError)
	}
}
