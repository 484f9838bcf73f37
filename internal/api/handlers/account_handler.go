package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Cheertaboi/farmfresh-storefront/internal/service"
)

type UpdateProfileRequest struct {
	Username string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	Location string `json:"location,omitempty"`
}

type AccountHandler struct {
	accounts *service.AccountService
	log      *zap.Logger
}

func NewAccountHandler(accounts *service.AccountService, log *zap.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, log: log}
}

// Profile handles GET /account
func (h *AccountHandler) Profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.accounts.Profile(r.Context(), caller(r).UserID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// Update handles PATCH /account. The new zone applies from the next
// request on.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if !decode(w, r, &req) {
		return
	}
	u, err := h.accounts.UpdateProfile(r.Context(), caller(r).UserID, req.Username, req.Location)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// Orders handles GET /account/orders
func (h *AccountHandler) Orders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.accounts.Orders(r.Context(), caller(r).UserID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}
