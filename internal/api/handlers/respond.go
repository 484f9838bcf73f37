package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Cheertaboi/farmfresh-storefront/internal/api/middleware"
	"github.com/Cheertaboi/farmfresh-storefront/internal/models"
	"github.com/Cheertaboi/farmfresh-storefront/internal/service"
)

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode reads a JSON body into v and checks its validate tags. On failure
// the response has been written and false is returned.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_body"})
		return false
	}

	if err := validate.Struct(v); err != nil {
		fields := []string{}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
		}
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "invalid_request",
			"fields": fields,
		})
		return false
	}
	return true
}

// pathID reads a positive integer URL parameter.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_" + name})
		return 0, false
	}
	return id, true
}

// caller returns the identity set by the auth middleware. Routes using it
// are mounted behind RequireUser.
func caller(r *http.Request) models.Identity {
	id, _ := middleware.IdentityFrom(r.Context())
	return id
}

var errorStatus = []struct {
	err    error
	status int
	code   string
}{
	{service.ErrInvalidQuantity, http.StatusBadRequest, "invalid_quantity"},
	{service.ErrProductNotFound, http.StatusNotFound, "product_not_found"},
	{service.ErrUnavailableAtLocation, http.StatusConflict, "unavailable_at_location"},
	{service.ErrInsufficientStock, http.StatusConflict, "insufficient_stock"},
	{service.ErrCartItemNotFound, http.StatusNotFound, "cart_item_not_found"},
	{service.ErrNothingToOrder, http.StatusConflict, "nothing_to_order"},
	{service.ErrValidation, http.StatusUnprocessableEntity, "validation_failed"},
	{service.ErrProcessing, http.StatusInternalServerError, "processing_failed"},
	{service.ErrConfirmationRequired, http.StatusBadRequest, "confirmation_required"},
	{service.ErrConfirmationRejected, http.StatusPaymentRequired, "confirmation_rejected"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{service.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
	{service.ErrUsernameTaken, http.StatusConflict, "username_taken"},
	{service.ErrInvalidProfile, http.StatusBadRequest, "invalid_profile"},
	{models.ErrInvalidProduct, http.StatusBadRequest, "invalid_product"},
	{models.ErrUnknownLocation, http.StatusBadRequest, "unknown_location"},
}

// writeError maps a service error to its status and code. Anything
// unrecognised is logged and reported as internal_error.
func writeError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	for _, m := range errorStatus {
		if !errors.Is(err, m.err) {
			continue
		}
		body := map[string]interface{}{"error": m.code}
		if issues := service.IssuesOf(err); len(issues) > 0 {
			body["issues"] = issues
		}
		if ref := service.RefOf(err); ref != "" {
			body["ref"] = ref
		}
		if m.status < http.StatusInternalServerError {
			body["message"] = err.Error()
		}
		writeJSON(w, m.status, body)
		return
	}

	log.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
}
