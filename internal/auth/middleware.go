package auth

import (
	"net/http"

	"github.com/Ansari839/ecommerce-dashboard/internal"
	"github.com/Ansari839/ecommerce-dashboard/internal/transport"
	"github.com/Ansari839/ecommerce-dashboard/pkg/logger"
)

// Middleware adapts the Guard to chi's func(http.Handler) http.Handler.
type Middleware struct {
	*transport.BaseHandler
	guard *Guard
}

func NewMiddleware(baseHandler *transport.BaseHandler, guard *Guard) *Middleware {
	return &Middleware{BaseHandler: baseHandler, guard: guard}
}

// Require needs a grant for action on module.
func (m *Middleware) Require(module, action string) func(http.Handler) http.Handler {
	return m.enforce(Requirement{Module: module, Action: action})
}

// RequireRoles is the coarse check: the caller's role must be one of roles.
func (m *Middleware) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return m.enforce(Requirement{Roles: roles})
}

func (m *Middleware) Authenticated() func(http.Handler) http.Handler {
	return m.enforce(Requirement{})
}

func (m *Middleware) enforce(req Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			verdict := m.guard.Check(r, req)
			if !verdict.Allowed {
				m.WriteJSON(w, verdict.Status, map[string]interface{}{
					"error": map[string]interface{}{
						"code":    verdict.Code,
						"message": verdict.Message,
					},
				})
				return
			}

			ctx := ContextWithIdentity(r.Context(), verdict.Identity)
			ctx = internal.ContextWithUserID(ctx, verdict.Identity.ID)
			ctx = logger.With(ctx, "user_id", verdict.Identity.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
