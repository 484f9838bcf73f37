package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Cheertaboi/farmfresh-storefront/internal/service"
)

type CheckoutRequest struct {
	// Confirmation is the payment code, or "place_order", depending on
	// the configured policy.
	Confirmation string `json:"confirmation" validate:"max=64"`
}

type CheckoutHandler struct {
	checkout *service.CheckoutService
	log      *zap.Logger
}

func NewCheckoutHandler(checkout *service.CheckoutService, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, log: log}
}

// Preview handles GET /checkout
func (h *CheckoutHandler) Preview(w http.ResponseWriter, r *http.Request) {
	p, err := h.checkout.Preview(r.Context(), caller(r))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Place handles POST /checkout
func (h *CheckoutHandler) Place(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if !decode(w, r, &req) {
		return
	}

	receipt, err := h.checkout.Checkout(r.Context(), caller(r), req.Confirmation)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "order_placed",
		"receipt": receipt,
	})
}
