package role

import (
	"strings"
	"time"

	roleDatamodel "github.com/Ansari839/ecommerce-dashboard/internal/core/datamodel/role"
)

// AdminRoleName is the one role that bypasses grant evaluation.
const AdminRoleName = "Admin"

const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

const (
	ModuleUsers     = "users"
	ModuleRoles     = "roles"
	ModuleMarketing = "marketing"
	ModuleProducts  = "products"
	ModuleOrders    = "orders"
)

type Role struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Permissions []Permission `json:"permissions"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Permission grants a set of actions on one module.
type Permission struct {
	Module  string   `json:"module"`
	Actions []string `json:"actions"`
}

func (r Role) IsAdmin() bool {
	return strings.EqualFold(strings.TrimSpace(r.Name), AdminRoleName)
}

// Grant returns the permission for module, if the role has one.
func (r Role) Grant(module string) (Permission, bool) {
	module = normalizeName(module)
	for _, p := range r.Permissions {
		if p.Module == module {
			return p, true
		}
	}
	return Permission{}, false
}

func (p Permission) Allows(action string) bool {
	action = normalizeName(action)
	for _, a := range p.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// NameIn reports whether the role's name matches any of names, ignoring case.
func (r Role) NameIn(names []string) bool {
	for _, n := range names {
		if strings.EqualFold(strings.TrimSpace(n), strings.TrimSpace(r.Name)) {
			return true
		}
	}
	return false
}

// NormalizePermissions trims and lower-cases names and merges grants that
// target the same module, so a role holds at most one grant per module.
// Order of first appearance is kept for modules and actions.
func NormalizePermissions(perms []Permission) []Permission {
	out := make([]Permission, 0, len(perms))
	index := make(map[string]int, len(perms))

	for _, p := range perms {
		module := normalizeName(p.Module)
		i, ok := index[module]
		if !ok {
			out = append(out, Permission{Module: module, Actions: []string{}})
			i = len(out) - 1
			index[module] = i
		}
		for _, a := range p.Actions {
			a = normalizeName(a)
			if !contains(out[i].Actions, a) {
				out[i].Actions = append(out[i].Actions, a)
			}
		}
	}
	return out
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Ref is a role reference that is either unresolved (only the id is
// known) or resolved (the role document has been loaded).
type Ref struct {
	id   string
	role *Role
}

func Unresolved(id string) Ref {
	return Ref{id: id}
}

func Resolved(r Role) Ref {
	return Ref{id: r.ID, role: &r}
}

func (r Ref) ID() string {
	return r.id
}

// Role returns the loaded role and true when the ref is resolved.
func (r Ref) Role() (Role, bool) {
	if r.role == nil {
		return Role{}, false
	}
	return *r.role, true
}

func (r Ref) IsResolved() bool {
	return r.role != nil
}

// Name is empty for unresolved refs.
func (r Ref) Name() string {
	if r.role == nil {
		return ""
	}
	return r.role.Name
}

func ToDataModel(r *Role) *roleDatamodel.Role {
	perms := make([]roleDatamodel.Permission, len(r.Permissions))
	for i, p := range r.Permissions {
		perms[i] = roleDatamodel.Permission{Module: p.Module, Actions: append([]string(nil), p.Actions...)}
	}
	return &roleDatamodel.Role{
		ID:          r.ID,
		Name:        r.Name,
		Permissions: perms,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func FromDataModel(r *roleDatamodel.Role) *Role {
	perms := make([]Permission, len(r.Permissions))
	for i, p := range r.Permissions {
		perms[i] = Permission{Module: p.Module, Actions: append([]string(nil), p.Actions...)}
	}
	return &Role{
		ID:          r.ID,
		Name:        r.Name,
		Permissions: perms,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
