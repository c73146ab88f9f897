// Package seed installs the standard back-office roles and the first
// administrator account. Running it twice is harmless.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Ansari839/ecommerce-dashboard/internal"
	"github.com/Ansari839/ecommerce-dashboard/internal/role"
	"github.com/Ansari839/ecommerce-dashboard/internal/user"
)

// StandardRoles are the roles every deployment starts with. Admin holds no
// grants because it bypasses grant evaluation.
var StandardRoles = []role.CreateRoleDTO{
	{Name: role.AdminRoleName, Permissions: []role.Permission{}},
	{Name: "Finance", Permissions: []role.Permission{
		{Module: role.ModuleOrders, Actions: []string{role.ActionView, role.ActionUpdate}},
		{Module: role.ModuleProducts, Actions: []string{role.ActionView}},
		{Module: role.ModuleUsers, Actions: []string{role.ActionView}},
	}},
	{Name: "Marketing", Permissions: []role.Permission{
		{Module: role.ModuleMarketing, Actions: []string{role.ActionView, role.ActionCreate, role.ActionUpdate, role.ActionDelete}},
		{Module: role.ModuleProducts, Actions: []string{role.ActionView}},
	}},
	{Name: "Warehouse", Permissions: []role.Permission{
		{Module: role.ModuleOrders, Actions: []string{role.ActionView, role.ActionUpdate}},
		{Module: role.ModuleProducts, Actions: []string{role.ActionView, role.ActionUpdate}},
	}},
}

type RoleStore interface {
	FindByName(ctx context.Context, name string) (*role.Role, error)
	Create(ctx context.Context, dto role.CreateRoleDTO) (*role.Role, error)
	Update(ctx context.Context, id string, dto role.UpdateRoleDTO) (*role.Role, error)
}

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	Create(ctx context.Context, dto user.CreateUserDTO) (*user.User, error)
}

type AdminAccount struct {
	Name     string
	Email    string
	Password string
}

type Seeder struct {
	roles  RoleStore
	users  UserStore
	logger *slog.Logger
}

func NewSeeder(roles RoleStore, users UserStore, logger *slog.Logger) *Seeder {
	return &Seeder{roles: roles, users: users, logger: logger}
}

// Run seeds the roles, then the admin account when one is given.
func (s *Seeder) Run(ctx context.Context, admin *AdminAccount) error {
	roles, err := s.SeedRoles(ctx)
	if err != nil {
		return err
	}
	if admin == nil {
		return nil
	}
	_, err = s.SeedAdmin(ctx, roles[role.AdminRoleName], *admin)
	return err
}

// SeedRoles creates missing standard roles and resets the grants of
// existing ones. The result is keyed by role name.
func (s *Seeder) SeedRoles(ctx context.Context) (map[string]*role.Role, error) {
	out := make(map[string]*role.Role, len(StandardRoles))
	for _, dto := range StandardRoles {
		existing, err := s.roles.FindByName(ctx, dto.Name)
		switch {
		case errors.Is(err, internal.ErrNotFound):
			created, err := s.roles.Create(ctx, dto)
			if err != nil {
				return nil, fmt.Errorf("failed to create role %s: %w", dto.Name, err)
			}
			s.logger.Info("seeded role", "role", created.Name)
			out[dto.Name] = created
		case err != nil:
			return nil, fmt.Errorf("failed to look up role %s: %w", dto.Name, err)
		default:
			perms := dto.Permissions
			updated, err := s.roles.Update(ctx, existing.ID, role.UpdateRoleDTO{Permissions: &perms})
			if err != nil {
				return nil, fmt.Errorf("failed to update role %s: %w", dto.Name, err)
			}
			s.logger.Info("role already present, grants reset", "role", updated.Name)
			out[dto.Name] = updated
		}
	}
	return out, nil
}

// SeedAdmin creates the admin account unless the email is already taken.
// It reports whether an account was created.
func (s *Seeder) SeedAdmin(ctx context.Context, admin *role.Role, account AdminAccount) (bool, error) {
	if admin == nil {
		return false, errors.New("admin role is missing")
	}

	_, err := s.users.FindByEmail(ctx, account.Email)
	if err == nil {
		s.logger.Info("admin account already exists", "email", user.NormalizeEmail(account.Email))
		return false, nil
	}
	if !errors.Is(err, internal.ErrNotFound) {
		return false, err
	}

	u, err := s.users.Create(ctx, user.CreateUserDTO{
		Name:     account.Name,
		Email:    account.Email,
		Password: account.Password,
		RoleID:   admin.ID,
		Status:   user.StatusActive,
	})
	if err != nil {
		return false, fmt.Errorf("failed to create admin account: %w", err)
	}
	s.logger.Info("seeded admin account", "user_id", u.ID, "email", u.Email)
	return true, nil
}
