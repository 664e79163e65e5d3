package httpx

import (
	"net/http"

	"github.com/jcmexdev/sabor-storefront/internal/storefront/infra/httpx/middlewares"
)

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decode(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	token, admin, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{
		Message: "Login realizado com sucesso",
		Token:   token,
		Admin:   mapAdmin(admin),
	})
}

func (h *Handler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	token := middlewares.BearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "access token required")
		return
	}
	admin, err := h.auth.Verify(r.Context(), token)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, VerifyResponse{Valid: true, Admin: mapAdmin(admin)})
}
