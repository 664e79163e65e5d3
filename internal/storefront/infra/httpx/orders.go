package httpx

import (
	"log/slog"
	"net/http"

	"github.com/jcmexdev/sabor-storefront/internal/pkg/interceptors"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/service"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/infra/httpx/middlewares"
)

// CreateOrder checks out the cart of the session named in the body, falling
// back to the session cookie. A repeated X-Idempotency-Key returns the first
// result.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := decode(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	in := service.CheckoutInput{
		SessionID:      req.SessionID,
		PaymentMethod:  entity.PaymentMethod(req.PaymentMethod),
		IdempotencyKey: interceptors.IdempotencyKey(r.Context()),
	}
	if in.SessionID == "" {
		in.SessionID = middlewares.SessionID(r.Context())
	}
	if req.CustomerData != nil {
		in.Customer = *req.CustomerData.toEntity(0)
	}

	slog.InfoContext(r.Context(), "checkout requested",
		"request_id", interceptors.RequestID(r.Context()), "payment_method", req.PaymentMethod)

	res, err := h.orders.Checkout(r.Context(), in)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCheckout(res))
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	o, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(*o))
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = mapOrder(o)
	}
	writeJSON(w, http.StatusOK, out)
}

// PaymentStatus is polled by the storefront until the payment settles.
func (h *Handler) PaymentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	st, err := h.orders.CheckPaymentStatus(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PaymentStatusResponse{
		PaymentID:    st.PaymentID,
		Status:       string(st.Status),
		StatusDetail: st.StatusDetail,
		DateApproved: st.ApprovedAt,
	})
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	var req UpdateOrderStatusRequest
	if err := decode(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	o, err := h.orders.UpdateStatus(r.Context(), id, entity.OrderStatus(req.Status))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if admin := middlewares.AdminFrom(r.Context()); admin != nil {
		slog.InfoContext(r.Context(), "order status changed", "order_id", id, "status", o.Status, "admin", admin.Username)
	}
	writeJSON(w, http.StatusOK, mapOrder(*o))
}

func (h *Handler) CheckoutLog(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	entries, err := h.orders.CheckoutLog(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCheckoutLog(entries))
}
