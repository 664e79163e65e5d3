package httpx

import (
	"net/http"

	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/infra/httpx/middlewares"
)

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	summary, err := h.cart.Summary(r.Context(), middlewares.SessionID(r.Context()))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(summary))
}

// AddToCart adds one unit unless the body names a quantity.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req CartAddRequest
	if err := decode(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	if req.ProductID <= 0 {
		h.handleError(w, r, entity.Validationf("product_id is required"))
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	if err := h.cart.AddItem(r.Context(), middlewares.SessionID(r.Context()), req.ProductID, qty); err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Item adicionado ao carrinho com sucesso"})
}

func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req CartUpdateRequest
	if err := decode(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	if req.ProductID <= 0 || req.Quantity == nil {
		h.handleError(w, r, entity.Validationf("product_id and quantity are required"))
		return
	}
	if err := h.cart.UpdateQuantity(r.Context(), middlewares.SessionID(r.Context()), req.ProductID, *req.Quantity); err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Carrinho atualizado com sucesso"})
}

func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	productID, err := idParam(r, "productId")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if err := h.cart.RemoveItem(r.Context(), middlewares.SessionID(r.Context()), productID); err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Item removido do carrinho"})
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Clear(r.Context(), middlewares.SessionID(r.Context())); err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Carrinho limpo com sucesso"})
}

func (h *Handler) CartTotal(w http.ResponseWriter, r *http.Request) {
	total, err := h.cart.Total(r.Context(), middlewares.SessionID(r.Context()))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CartTotalResponse{Total: total})
}
