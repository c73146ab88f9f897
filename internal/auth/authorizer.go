package auth

import (
	"context"
	"log/slog"

	"github.com/Ansari839/ecommerce-dashboard/internal"
)

// Requirement describes what an endpoint needs. Roles is a coarse
// allow-list of role names; when it is set it alone decides. A requirement
// with neither roles nor module only needs an authenticated caller. An
// empty Action accepts any grant on Module.
type Requirement struct {
	Module string
	Action string
	Roles  []string
}

// Decision is the outcome of a successful check. Reason is set on deny.
type Decision struct {
	Allowed bool
	Reason  *internal.AppError
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason *internal.AppError) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Authorizer evaluates a Requirement against an Identity. It is transport
// agnostic; the Guard renders its decisions.
type Authorizer struct {
	roles  *roleResolver
	logger *slog.Logger
}

func NewAuthorizer(roles RoleFinder, logger *slog.Logger) *Authorizer {
	return &Authorizer{
		roles:  &roleResolver{finder: roles, logger: logger},
		logger: logger,
	}
}

// Can returns an error only when the check itself failed, never for a deny.
func (a *Authorizer) Can(ctx context.Context, identity Identity, req Requirement) (Decision, error) {
	ref, err := a.roles.resolve(ctx, identity.Role)
	if err != nil {
		return Decision{}, err
	}
	r, _ := ref.Role()

	if r.IsAdmin() {
		return allow(), nil
	}

	if len(req.Roles) > 0 {
		if r.NameIn(req.Roles) {
			return allow(), nil
		}
		return deny(internal.ErrInsufficientRole), nil
	}

	if req.Module == "" {
		return allow(), nil
	}

	// a missing role and a role without this grant look the same to the caller
	grant, ok := r.Grant(req.Module)
	if !ok {
		return deny(internal.ErrNoModuleAccess), nil
	}
	if req.Action == "" || grant.Allows(req.Action) {
		return allow(), nil
	}
	return deny(internal.ErrActionNotPermitted), nil
}
