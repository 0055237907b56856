package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pizza-storefront/internal/api/middleware"
	"pizza-storefront/internal/models"
	"pizza-storefront/internal/service"
)

type OrderHandler struct {
	orders *service.OrderService
	log    *zap.Logger
}

func NewOrderHandler(orders *service.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, log: log}
}

type createOrderRequest struct {
	AddressID     string `json:"addressId"`
	PaymentMethod string `json:"paymentMethod"`
	CouponCode    string `json:"couponCode,omitempty"`
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	order, err := h.orders.PlaceOrder(r.Context(), middleware.UserID(r.Context()), service.PlaceOrderInput{
		AddressID:     req.AddressID,
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
		CouponCode:    req.CouponCode,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeData(w, http.StatusCreated, order)
}

func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListForUser(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, orders)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetByID(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "orderID"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, order)
}

func (h *OrderHandler) Track(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.TrackByNumber(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "orderNumber"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, order)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	order, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "orderID"),
		models.OrderStatus(req.Status))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, order)
}

func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, orders)
}
