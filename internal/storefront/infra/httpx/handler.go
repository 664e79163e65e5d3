package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/service"
)

// Services groups what the HTTP layer calls into. Ping may be nil.
type Services struct {
	Catalog   *service.CatalogService
	Cart      *service.CartService
	Customers *service.CustomerService
	Orders    *service.OrderEngine
	Auth      *service.AuthService
	Ping      func(context.Context) error
}

// Handler serves the storefront API.
type Handler struct {
	catalog   *service.CatalogService
	cart      *service.CartService
	customers *service.CustomerService
	orders    *service.OrderEngine
	auth      *service.AuthService
	ping      func(context.Context) error
}

func NewHandler(s Services) *Handler {
	return &Handler{
		catalog:   s.Catalog,
		cart:      s.Cart,
		customers: s.Customers,
		orders:    s.Orders,
		auth:      s.Auth,
		ping:      s.Ping,
	}
}

// Health reports whether the database answers.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		if err := h.ping(r.Context()); err != nil {
			slog.ErrorContext(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleError maps the error taxonomy onto status codes. Anything outside it
// is logged and reported without detail.
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, entity.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, entity.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, entity.ErrAuth):
		writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, entity.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	default:
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Erro interno do servidor")
	}
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return entity.Validationf("invalid JSON body: %v", err)
	}
	return nil
}

func idParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", entity.ErrValidation, name, raw)
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
