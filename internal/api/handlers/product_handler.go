package handlers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Cheertaboi/farmfresh-storefront/internal/api/middleware"
	"github.com/Cheertaboi/farmfresh-storefront/internal/models"
	"github.com/Cheertaboi/farmfresh-storefront/internal/service"
)

// ProductRequest is the admin form for creating or editing a product.
type ProductRequest struct {
	Name          string              `json:"name" validate:"required,max=100"`
	Category      models.Category     `json:"category"`
	PricePerUnit  decimal.Decimal     `json:"price_per_unit"`
	UnitType      models.Unit         `json:"unit_type"`
	StockQuantity float64             `json:"stock_quantity"`
	Availability  models.Availability `json:"availability"`
	ImagePath     string              `json:"image_path,omitempty" validate:"max=255"`
}

func (p ProductRequest) product(id int64) *models.Product {
	return &models.Product{
		ID:           id,
		Name:         p.Name,
		Category:     p.Category,
		PricePerUnit: p.PricePerUnit,
		UnitType:     p.UnitType,
		Stock:        p.StockQuantity,
		Availability: p.Availability,
		ImagePath:    p.ImagePath,
	}
}

// ProductView adds the signed-in shopper's zone flag to a catalog entry.
type ProductView struct {
	models.Product
	AvailableHere *bool `json:"available_here,omitempty"`
}

type ProductHandler struct {
	catalog *service.CatalogService
	log     *zap.Logger
}

func NewProductHandler(catalog *service.CatalogService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{catalog: catalog, log: log}
}

// List handles GET /products and GET /admin/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.ProductFilter{
		Category: models.Category(strings.ToLower(r.URL.Query().Get("category"))),
		Search:   r.URL.Query().Get("q"),
	}
	products, err := h.catalog.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	id, signedIn := middleware.IdentityFrom(r.Context())
	out := make([]ProductView, len(products))
	for i, p := range products {
		out[i] = ProductView{Product: p}
		if signedIn {
			here := p.Availability.At(id.Location)
			out[i].AvailableHere = &here
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"products": out})
}

// Create handles POST /admin/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decode(w, r, &req) {
		return
	}
	p := req.product(0)
	id, err := h.catalog.Create(r.Context(), p)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":    "product_created",
		"product_id": id,
	})
}

// Update handles PUT /admin/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.catalog.Update(r.Context(), req.product(id)); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "product_updated", "product_id": id})
}

// Delete handles DELETE /admin/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.catalog.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
