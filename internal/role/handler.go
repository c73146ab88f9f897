package role

import (
	"context"
	"net/http"

	"github.com/Ansari839/ecommerce-dashboard/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	FindByID(ctx context.Context, id string) (*Role, error)
	List(ctx context.Context) ([]*Role, error)
	Create(ctx context.Context, dto CreateRoleDTO) (*Role, error)
	Update(ctx context.Context, id string, dto UpdateRoleDTO) (*Role, error)
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// ListRoles handles GET /roles
func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Service.List(r.Context())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, RolesResponse{Roles: roles})
}

// GetRole handles GET /roles/{id}
func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	role, err := h.Service.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, role)
}

// CreateRole handles POST /roles
func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var dto CreateRoleDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	role, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, role)
}

// UpdateRole handles PUT /roles/{id}
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var dto UpdateRoleDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	role, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, role)
}

// DeleteRole handles DELETE /roles/{id}
func (h *Handler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
