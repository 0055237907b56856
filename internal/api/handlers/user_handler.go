package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pizza-storefront/internal/api/middleware"
	"pizza-storefront/internal/models"
	"pizza-storefront/internal/service"
)

type UserHandler struct {
	accounts *service.AccountService
	log      *zap.Logger
}

func NewUserHandler(accounts *service.AccountService, log *zap.Logger) *UserHandler {
	return &UserHandler{accounts: accounts, log: log}
}

func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.accounts.Profile(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, user)
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	user, err := h.accounts.UpdateProfile(r.Context(), middleware.UserID(r.Context()), req.Name, req.Phone)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, user)
}

func (h *UserHandler) AddAddress(w http.ResponseWriter, r *http.Request) {
	var addr models.Address
	if err := decode(r, &addr); err != nil {
		writeError(w, h.log, err)
		return
	}
	user, err := h.accounts.AddAddress(r.Context(), middleware.UserID(r.Context()), &addr)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeData(w, http.StatusCreated, user)
}

func (h *UserHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	var addr models.Address
	if err := decode(r, &addr); err != nil {
		writeError(w, h.log, err)
		return
	}
	addr.ID = chi.URLParam(r, "addressID")
	user, err := h.accounts.UpdateAddress(r.Context(), middleware.UserID(r.Context()), &addr)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, user)
}

func (h *UserHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	user, err := h.accounts.DeleteAddress(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "addressID"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, user)
}
