package user

import (
	"context"
	"net/http"

	"github.com/Ansari839/ecommerce-dashboard/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Get(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Create(ctx context.Context, dto CreateUserDTO) (*User, error)
	UpdateProfile(ctx context.Context, id string, dto UpdateUserDTO) (*User, error)
	ChangeRole(ctx context.Context, id string, dto UpdateRoleDTO) (*User, error)
	ChangeStatus(ctx context.Context, id string, dto UpdateStatusDTO) (*User, error)
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

// ListUsers handles GET /users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.List(r.Context())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	resp := UsersResponse{Users: make([]UserResponse, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, u.ToResponse())
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// GetUser handles GET /users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u.ToResponse())
}

// CreateUser handles POST /users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	u, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, u.ToResponse())
}

// UpdateUser handles PATCH /users/{id}
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var dto UpdateUserDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	u, err := h.Service.UpdateProfile(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u.ToResponse())
}

// UpdateStatus handles PATCH /users/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var dto UpdateStatusDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	u, err := h.Service.ChangeStatus(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u.ToResponse())
}

// UpdateRole handles PATCH /users/{id}/role
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var dto UpdateRoleDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	u, err := h.Service.ChangeRole(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u.ToResponse())
}
