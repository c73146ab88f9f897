package auth

import (
	"context"
	"net/http"

	"github.com/Ansari839/ecommerce-dashboard/internal"
	"github.com/Ansari839/ecommerce-dashboard/internal/transport"
	"github.com/Ansari839/ecommerce-dashboard/pkg/logger"
)

type ServiceAPI interface {
	Login(ctx context.Context, dto LoginDTO) (*TokenResponse, error)
	Register(ctx context.Context, dto RegisterDTO) (*TokenResponse, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	tokens, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		logger.From(r.Context()).Info("login failed", "error", err)
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, tokens)
}

// Register handles POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	tokens, err := h.Service.Register(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, tokens)
}

// Me handles GET /auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrMissingCredential)
		return
	}
	h.WriteJSON(w, http.StatusOK, identity.ToResponse())
}
