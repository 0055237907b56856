package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pizza-storefront/internal/models"
	"pizza-storefront/internal/service"
)

type CouponHandler struct {
	coupons *service.CouponService
	log     *zap.Logger
}

func NewCouponHandler(coupons *service.CouponService, log *zap.Logger) *CouponHandler {
	return &CouponHandler{coupons: coupons, log: log}
}

func (h *CouponHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.coupons.ListActive(r.Context(), time.Now().UTC())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, coupons)
}

type validateCouponRequest struct {
	Code string `json:"code"`
}

func (h *CouponHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req validateCouponRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	if req.Code == "" {
		writeError(w, h.log, models.ValidationError("coupon code is required"))
		return
	}
	coupon, err := h.coupons.Validate(r.Context(), req.Code, time.Now().UTC())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, coupon)
}

type couponRequest struct {
	Code           string  `json:"code"`
	Description    string  `json:"description"`
	DiscountType   string  `json:"discountType"`
	DiscountValue  float64 `json:"discountValue"`
	MinOrderAmount float64 `json:"minOrderAmount"`
	MaxDiscount    float64 `json:"maxDiscount"`
	ValidFrom      string  `json:"validFrom"`
	ValidUntil     string  `json:"validUntil"`
	IsActive       *bool   `json:"isActive"`
}

func (req *couponRequest) toModel() (*models.Coupon, error) {
	validFrom, err := time.Parse(time.RFC3339, req.ValidFrom)
	if err != nil {
		return nil, models.ValidationError("validFrom must be RFC3339")
	}
	validUntil, err := time.Parse(time.RFC3339, req.ValidUntil)
	if err != nil {
		return nil, models.ValidationError("validUntil must be RFC3339")
	}
	c := &models.Coupon{
		Code:           req.Code,
		Description:    req.Description,
		DiscountType:   models.DiscountType(req.DiscountType),
		DiscountValue:  req.DiscountValue,
		MinOrderAmount: req.MinOrderAmount,
		MaxDiscount:    req.MaxDiscount,
		ValidFrom:      validFrom,
		ValidUntil:     validUntil,
		IsActive:       true,
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	return c, nil
}

func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	coupon, err := req.toModel()
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if err := h.coupons.Create(r.Context(), coupon); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeData(w, http.StatusCreated, coupon)
}

func (h *CouponHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	coupon, err := req.toModel()
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	coupon.ID = chi.URLParam(r, "couponID")
	if err := h.coupons.Update(r.Context(), coupon); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, coupon)
}

func (h *CouponHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.coupons.Delete(r.Context(), chi.URLParam(r, "couponID")); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeMessage(w, http.StatusOK, "coupon deleted")
}
