package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pizza-storefront/internal/api/middleware"
	"pizza-storefront/internal/service"
)

type CartHandler struct {
	cart *service.CartService
	log  *zap.Logger
}

func NewCartHandler(cart *service.CartService, log *zap.Logger) *CartHandler {
	return &CartHandler{cart: cart, log: log}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cart.Get(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, cart)
}

type addToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	cart, err := h.cart.Add(r.Context(), middleware.UserID(r.Context()), req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, cart)
}

type updateCartRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateCartRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	cart, err := h.cart.SetQuantity(r.Context(), middleware.UserID(r.Context()),
		chi.URLParam(r, "itemID"), req.Quantity)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cart.Remove(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "itemID"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, cart)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Clear(r.Context(), middleware.UserID(r.Context())); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeMessage(w, http.StatusOK, "cart cleared")
}
