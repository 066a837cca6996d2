package handler

import (
	"net/http"

	"github.com/HamzaAshfaq01/sellsgoods/internal/domain/entity"
	"github.com/HamzaAshfaq01/sellsgoods/internal/middleware"
	"github.com/HamzaAshfaq01/sellsgoods/internal/platform/logger"
	"github.com/HamzaAshfaq01/sellsgoods/internal/platform/metrics"
	"github.com/HamzaAshfaq01/sellsgoods/internal/service"
	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	orders service.OrderService
	m      *metrics.Manager
	log    logger.Logger
}

func NewOrderHandler(orders service.OrderService, m *metrics.Manager, log logger.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, m: m, log: log}
}

type orderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Totals are pointers so a missing field is distinguishable from zero.
type createOrderRequest struct {
	CustomerName string             `json:"customerName"`
	Email        string             `json:"email"`
	PhoneNumber  string             `json:"phoneNumber"`
	BuyerID      string             `json:"buyerId"`
	Items        []orderItemRequest `json:"items"`
	Subtotal     *float64           `json:"subtotal"`
	Tax          *float64           `json:"tax"`
	Shipping     *float64           `json:"shipping"`
	Total        *float64           `json:"total"`
}

func (h *OrderHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	// Checkout is a public route; the buyer identity rides in the payload.
	buyerID := req.BuyerID
	if user := middleware.UserFromContext(r.Context()); user != nil {
		buyerID = user.ID.Hex()
	}

	items := make([]service.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, service.OrderItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	order, err := h.orders.Create(r.Context(), service.CreateOrderInput{
		CustomerName: req.CustomerName,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		Items:        items,
		Subtotal:     req.Subtotal,
		Tax:          req.Tax,
		Shipping:     req.Shipping,
		Total:        req.Total,
	}, buyerID)
	if err != nil {
		writeError(w, err)
		return
	}

	h.m.OrdersCreatedTotal.Inc()
	writeJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	var userID string
	if user != nil {
		userID = user.ID.Hex()
	}

	orders, err := h.orders.ListForUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

type updateOrderRequest struct {
	Status entity.OrderStatus `json:"status"`
}

func (h *OrderHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "order deleted"})
}
