package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Cheertaboi/farmfresh-storefront/internal/api/middleware"
	"github.com/Cheertaboi/farmfresh-storefront/internal/service"
)

// RememberFor is how long a "remember me" cookie lives.
const RememberFor = 7 * 24 * time.Hour

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required"`
	Remember bool   `json:"remember"`
}

type AuthHandler struct {
	auth         *service.AuthService
	secureCookie bool
	log          *zap.Logger
	now          func() time.Time
}

func NewAuthHandler(auth *service.AuthService, secureCookie bool, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, secureCookie: secureCookie, log: log, now: time.Now}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decode(w, r, &req) {
		return
	}
	user, token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	cookie := &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	if req.Remember {
		cookie.Expires = h.now().Add(RememberFor)
		cookie.MaxAge = int(RememberFor / time.Second)
	}
	http.SetCookie(w, cookie)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), caller(r).UserID); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		MaxAge:   -1,
	})
	w.WriteHeader(http.StatusNoContent)
}
