package httpx

import (
	"net/http"

	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/domain/entity"
)

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	out := make([]CategoryResponse, len(cats))
	for i, c := range cats {
		out[i] = mapCategory(c)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	c, err := h.catalog.GetCategory(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCategory(*c))
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := decode(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	c := &entity.Category{Name: req.Name, Description: req.Description}
	if err := h.catalog.CreateCategory(r.Context(), c); err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapCategory(*c))
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	var req CategoryRequest
	if err := decode(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	c := &entity.Category{ID: id, Name: req.Name, Description: req.Description}
	if err := h.catalog.UpdateCategory(r.Context(), c); err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Categoria atualizada com sucesso"})
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if err := h.catalog.DeleteCategory(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Categoria removida com sucesso"})
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	h.writeProducts(w, r, func() ([]entity.Product, error) { return h.catalog.ListProducts(r.Context()) })
}

func (h *Handler) FeaturedProducts(w http.ResponseWriter, r *http.Request) {
	h.writeProducts(w, r, func() ([]entity.Product, error) { return h.catalog.FeaturedProducts(r.Context()) })
}

func (h *Handler) ProductsByCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "categoryId")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeProducts(w, r, func() ([]entity.Product, error) { return h.catalog.ProductsByCategory(r.Context(), id) })
}

func (h *Handler) writeProducts(w http.ResponseWriter, r *http.Request, list func() ([]entity.Product, error)) {
	products, err := list()
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = mapProduct(p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	p, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(*p))
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := decode(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	p := req.toEntity(0)
	if err := h.catalog.CreateProduct(r.Context(), p); err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapProduct(*p))
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	var req ProductRequest
	if err := decode(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	if err := h.catalog.UpdateProduct(r.Context(), req.toEntity(id)); err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Produto atualizado com sucesso"})
}

// DeleteProduct deactivates the product; order history keeps referencing it.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Produto removido com sucesso"})
}
