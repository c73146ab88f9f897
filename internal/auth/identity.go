package auth

import (
	"context"

	"github.com/Ansari839/ecommerce-dashboard/internal/role"
)

// Identity is the authenticated caller. Its role is always resolved once
// the Authenticator returns it.
type Identity struct {
	ID     string
	Email  string
	Name   string
	Role   role.Ref
	Status string
}

func (i Identity) RoleName() string {
	return i.Role.Name()
}

// IdentityResponse is the outbound view of an identity.
type IdentityResponse struct {
	ID          string            `json:"id"`
	Email       string            `json:"email"`
	Name        string            `json:"name"`
	RoleName    string            `json:"role_name"`
	Status      string            `json:"status"`
	Permissions []role.Permission `json:"permissions"`
}

func (i Identity) ToResponse() IdentityResponse {
	resp := IdentityResponse{
		ID:          i.ID,
		Email:       i.Email,
		Name:        i.Name,
		RoleName:    i.RoleName(),
		Status:      i.Status,
		Permissions: []role.Permission{},
	}
	if r, ok := i.Role.Role(); ok && r.Permissions != nil {
		resp.Permissions = r.Permissions
	}
	return resp
}

type identityKey struct{}

func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity the route guard attached.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
