package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pizza-storefront/internal/models"
	"pizza-storefront/internal/repository"
)

type ProductHandler struct {
	products *repository.ProductRepo
	log      *zap.Logger
}

func NewProductHandler(products *repository.ProductRepo, log *zap.Logger) *ProductHandler {
	return &ProductHandler{products: products, log: log}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := models.Category(q.Get("category"))
	if category != "" && !category.Valid() {
		writeError(w, h.log, models.ValidationError("unknown category"))
		return
	}

	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}
	limit := 50
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 {
		limit = l
	}

	products, total, err := h.products.List(r.Context(), category, limit, (page-1)*limit)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	pages := total / limit
	if total%limit > 0 {
		pages++
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    products,
		"pagination": map[string]any{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": pages,
		},
	})
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Get(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, product)
}

func (h *ProductHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	category := models.Category(chi.URLParam(r, "category"))
	if !category.Valid() {
		writeError(w, h.log, models.ValidationError("unknown category"))
		return
	}
	products, _, err := h.products.List(r.Context(), category, 0, 0)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, products)
}

type productRequest struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Category     models.Category `json:"category"`
	BasePrice    float64         `json:"basePrice"`
	Image        string          `json:"image"`
	IsVeg        *bool           `json:"isVeg"`
	IsAvailable  *bool           `json:"isAvailable"`
	Inventory    *int            `json:"inventory"`
	MaxInventory *int            `json:"maxInventory"`
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	if req.Name == "" || !req.Category.Valid() || req.BasePrice < 0 {
		writeError(w, h.log, models.ValidationError("name, valid category and non-negative price are required"))
		return
	}

	// New products start fully stocked.
	product := &models.Product{
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		BasePrice:    req.BasePrice,
		Image:        req.Image,
		IsVeg:        true,
		IsAvailable:  true,
		Inventory:    100,
		MaxInventory: 100,
	}
	if req.IsVeg != nil {
		product.IsVeg = *req.IsVeg
	}
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}

	if err := h.products.Create(r.Context(), product); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeData(w, http.StatusCreated, product)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Get(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	var req productRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.Category != "" {
		if !req.Category.Valid() {
			writeError(w, h.log, models.ValidationError("unknown category"))
			return
		}
		product.Category = req.Category
	}
	if req.BasePrice > 0 {
		product.BasePrice = req.BasePrice
	}
	if req.Image != "" {
		product.Image = req.Image
	}
	if req.IsVeg != nil {
		product.IsVeg = *req.IsVeg
	}
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}
	if req.Inventory != nil && *req.Inventory >= 0 {
		product.Inventory = *req.Inventory
	}
	if req.MaxInventory != nil && *req.MaxInventory >= 0 {
		product.MaxInventory = *req.MaxInventory
	}

	if err := h.products.Update(r.Context(), product); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), chi.URLParam(r, "productID")); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeMessage(w, http.StatusOK, "product deleted")
}
