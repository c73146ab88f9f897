package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Ansari839/ecommerce-dashboard/internal"
	"github.com/Ansari839/ecommerce-dashboard/internal/role"
	"github.com/Ansari839/ecommerce-dashboard/internal/transport"
	"github.com/Ansari839/ecommerce-dashboard/internal/user"
)

type UserFinder interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
}

type RoleFinder interface {
	FindByID(ctx context.Context, id string) (*role.Role, error)
}

// Authenticator turns an Authorization header into a resolved Identity.
// It never writes to the store.
type Authenticator struct {
	tokens TokenVerifier
	users  UserFinder
	roles  *roleResolver
	logger *slog.Logger
}

func NewAuthenticator(tokens TokenVerifier, users UserFinder, roles RoleFinder, logger *slog.Logger) *Authenticator {
	return &Authenticator{
		tokens: tokens,
		users:  users,
		roles:  &roleResolver{finder: roles, logger: logger},
		logger: logger,
	}
}

func (a *Authenticator) Authenticate(ctx context.Context, authorizationHeader string) (Identity, error) {
	token := transport.BearerToken(authorizationHeader)
	if token == "" {
		return Identity{}, internal.ErrMissingCredential
	}

	claims, err := a.tokens.Verify(token)
	if err != nil {
		return Identity{}, err
	}

	u, err := a.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, internal.ErrNotFound) {
		return Identity{}, internal.ErrUserNotFound
	}
	if err != nil {
		a.logger.ErrorContext(ctx, "failed to load user for token", "user_id", claims.UserID, "error", err)
		return Identity{}, internal.ErrAuthorizationCheckFailed.Wrap(err)
	}

	if !u.IsActive() {
		return Identity{}, internal.ErrUserInactive
	}

	ref, err := a.roles.resolve(ctx, u.Role)
	if err != nil {
		return Identity{}, err
	}

	return Identity{
		ID:     u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   ref,
		Status: u.Status,
	}, nil
}

// roleResolver loads unresolved role refs. A role that no longer exists
// resolves to an empty role holding no grants.
type roleResolver struct {
	finder RoleFinder
	logger *slog.Logger
}

func (r *roleResolver) resolve(ctx context.Context, ref role.Ref) (role.Ref, error) {
	if ref.IsResolved() {
		return ref, nil
	}

	found, err := r.finder.FindByID(ctx, ref.ID())
	if errors.Is(err, internal.ErrNotFound) {
		r.logger.WarnContext(ctx, "role missing, treating as no permissions", "role_id", ref.ID())
		return role.Resolved(role.Role{ID: ref.ID(), Permissions: []role.Permission{}}), nil
	}
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to load role", "role_id", ref.ID(), "error", err)
		return role.Ref{}, internal.ErrAuthorizationCheckFailed.Wrap(err)
	}
	return role.Resolved(*found), nil
}
