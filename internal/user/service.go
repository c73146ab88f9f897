package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Ansari839/ecommerce-dashboard/internal"
	userDatamodel "github.com/Ansari839/ecommerce-dashboard/internal/core/datamodel/user"
	"github.com/Ansari839/ecommerce-dashboard/internal/core/events"
	"github.com/Ansari839/ecommerce-dashboard/internal/role"
	"github.com/google/uuid"
)

// RepositoryAPI is the user half of the identity store. Lookups return
// internal.ErrNotFound when nothing matches.
type RepositoryAPI interface {
	FindByID(ctx context.Context, id string) (*userDatamodel.User, error)
	FindByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	List(ctx context.Context) ([]*userDatamodel.User, error)
	Create(ctx context.Context, u *userDatamodel.User) error
	Update(ctx context.Context, u *userDatamodel.User) error
}

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}

type RoleFinder interface {
	FindByID(ctx context.Context, id string) (*role.Role, error)
	List(ctx context.Context) ([]*role.Role, error)
}

type Service struct {
	repo      RepositoryAPI
	roles     RoleFinder
	hasher    PasswordHasher
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, roles RoleFinder, hasher PasswordHasher, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:      repo,
		roles:     roles,
		hasher:    hasher,
		publisher: publisher,
		logger:    logger,
	}
}

// FindByID returns the user with an unresolved role reference.
func (s *Service) FindByID(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	return FromDataModel(u), nil
}

// FindByEmail is the only read that returns the password hash; login is
// its only caller.
func (s *Service) FindByEmail(ctx context.Context, email string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return FromDataModel(u), nil
}

// Get returns the user with its role resolved when the role still exists.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	u, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r, err := s.roles.FindByID(ctx, u.Role.ID())
	switch {
	case errors.Is(err, internal.ErrNotFound):
	case err != nil:
		return nil, err
	default:
		u.Role = role.Resolved(*r)
	}
	return u, nil
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, err
	}
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]role.Role, len(roles))
	for _, r := range roles {
		byID[r.ID] = *r
	}

	users := make([]*User, 0, len(rows))
	for _, row := range rows {
		u := FromDataModel(row)
		if r, ok := byID[u.Role.ID()]; ok {
			u.Role = role.Resolved(r)
		}
		users = append(users, u)
	}
	return users, nil
}

// Create validates the invariants, hashes the password and binds the role.
func (s *Service) Create(ctx context.Context, dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	email := NormalizeEmail(dto.Email)
	if err := s.ensureEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}

	r, err := s.resolveRole(ctx, dto.RoleID)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(dto.Password)
	if err != nil {
		return nil, err
	}

	status := dto.Status
	if status == "" {
		status = StatusActive
	}

	now := time.Now().UTC()
	u := &User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(dto.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role.Resolved(*r),
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, ToDataModel(u)); err != nil {
		return nil, err
	}

	s.logger.Info("user created", "user_id", u.ID, "role", r.Name)
	s.publish(ctx, EventUserRegistered(ctx, u))
	return u, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id string, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		u.Name = strings.TrimSpace(*dto.Name)
	}
	if dto.Email != nil {
		email := NormalizeEmail(*dto.Email)
		if email != u.Email {
			if err := s.ensureEmailFree(ctx, email, u.ID); err != nil {
				return nil, err
			}
		}
		u.Email = email
	}
	if dto.Password != nil {
		hash, err := s.hasher.Hash(*dto.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}

	if err := s.save(ctx, u, events.EventTypeUserUpdated); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) ChangeRole(ctx context.Context, id string, dto UpdateRoleDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r, err := s.resolveRole(ctx, dto.RoleID)
	if err != nil {
		return nil, err
	}
	u.Role = role.Resolved(*r)

	if err := s.save(ctx, u, events.EventTypeUserRoleChanged); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) ChangeStatus(ctx context.Context, id string, dto UpdateStatusDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Status = dto.Status

	if err := s.save(ctx, u, events.EventTypeUserStatusChanged); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) save(ctx context.Context, u *User, eventType string) error {
	u.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, ToDataModel(u)); err != nil {
		return err
	}
	s.logger.Info("user updated", "user_id", u.ID, "event", eventType)
	s.publish(ctx, events.NewUserEvent(eventType, u.ID, u.Email, u.Role.ID(), u.Status, internal.UserIDFromContext(ctx)))
	return nil
}

func (s *Service) resolveRole(ctx context.Context, roleID string) (*role.Role, error) {
	r, err := s.roles.FindByID(ctx, strings.TrimSpace(roleID))
	if errors.Is(err, internal.ErrNotFound) {
		return nil, internal.NewValidationFieldError("role_id", "role does not exist", internal.ErrCodeValidationFailed)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load role: %w", err)
	}
	return r, nil
}

func (s *Service) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, internal.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return internal.ErrDuplicateEmail
	}
	return nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish user event", "event_type", event.EventType(), "error", err)
	}
}

func EventUserRegistered(ctx context.Context, u *User) events.Event {
	return events.NewUserEvent(events.EventTypeUserRegistered, u.ID, u.Email, u.Role.ID(), u.Status, internal.UserIDFromContext(ctx))
}
