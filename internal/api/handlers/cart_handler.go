package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Cheertaboi/farmfresh-storefront/internal/service"
)

type AddToCartRequest struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	Quantity  float64 `json:"quantity"`
}

type SetQuantityRequest struct {
	Quantity float64 `json:"quantity"`
}

type CartHandler struct {
	cart *service.CartService
	log  *zap.Logger
}

func NewCartHandler(cart *service.CartService, log *zap.Logger) *CartHandler {
	return &CartHandler{cart: cart, log: log}
}

// View handles GET /cart
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	view, err := h.cart.View(r.Context(), caller(r))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Count handles GET /cart/count
func (h *CartHandler) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.cart.Count(r.Context(), caller(r).UserID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": n})
}

// Add handles POST /cart/items
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.cart.Add(r.Context(), caller(r), req.ProductID, req.Quantity); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "added_to_cart",
		"product_id": req.ProductID,
	})
}

// SetQuantity handles PUT /cart/items/{productID}
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "productID")
	if !ok {
		return
	}
	var req SetQuantityRequest
	if !decode(w, r, &req) {
		return
	}

	removed, err := h.cart.SetQuantity(r.Context(), caller(r), productID, req.Quantity)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	msg := "cart_updated"
	if removed {
		msg = "item_removed"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": msg, "removed": removed})
}

// Remove handles DELETE /cart/items/{productID}
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "productID")
	if !ok {
		return
	}
	if err := h.cart.Remove(r.Context(), caller(r), productID); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
