package httpx

import (
	"net/http"
)

// RegisterCustomer is the public sign-up form.
func (h *Handler) RegisterCustomer(w http.ResponseWriter, r *http.Request) {
	var req CustomerRequest
	if err := decode(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	c := req.toEntity(0)
	if err := h.customers.Register(r.Context(), c); err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapCustomer(*c))
}

func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.List(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	out := make([]CustomerResponse, len(customers))
	for i, c := range customers {
		out[i] = mapCustomer(c)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	c, err := h.customers.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCustomer(*c))
}

func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	var req CustomerRequest
	if err := decode(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	if err := h.customers.Update(r.Context(), req.toEntity(id)); err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Cliente atualizado com sucesso"})
}

func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if err := h.customers.Delete(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Cliente removido com sucesso"})
}
