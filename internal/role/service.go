package role

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Ansari839/ecommerce-dashboard/internal"
	roleDatamodel "github.com/Ansari839/ecommerce-dashboard/internal/core/datamodel/role"
	"github.com/Ansari839/ecommerce-dashboard/internal/core/events"
	"github.com/google/uuid"
)

// RepositoryAPI is the role half of the identity store. Lookups return
// internal.ErrNotFound when nothing matches.
type RepositoryAPI interface {
	FindByID(ctx context.Context, id string) (*roleDatamodel.Role, error)
	FindByName(ctx context.Context, name string) (*roleDatamodel.Role, error)
	List(ctx context.Context) ([]*roleDatamodel.Role, error)
	Create(ctx context.Context, r *roleDatamodel.Role) error
	Update(ctx context.Context, r *roleDatamodel.Role) error
	Delete(ctx context.Context, id string) error
	CountUsers(ctx context.Context, roleID string) (int64, error)
}

type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) FindByID(ctx context.Context, id string) (*Role, error) {
	r, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	return FromDataModel(r), nil
}

func (s *Service) FindByName(ctx context.Context, name string) (*Role, error) {
	r, err := s.repo.FindByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	return FromDataModel(r), nil
}

func (s *Service) List(ctx context.Context) ([]*Role, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list roles", "error", err)
		return nil, err
	}
	roles := make([]*Role, 0, len(rows))
	for _, r := range rows {
		roles = append(roles, FromDataModel(r))
	}
	return roles, nil
}

func (s *Service) Create(ctx context.Context, dto CreateRoleDTO) (*Role, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(dto.Name)
	if err := s.ensureNameFree(ctx, name, ""); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	r := &Role{
		ID:          uuid.NewString(),
		Name:        name,
		Permissions: NormalizePermissions(dto.Permissions),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, ToDataModel(r)); err != nil {
		return nil, err
	}

	s.logger.Info("role created", "role_id", r.ID, "name", r.Name, "modules", len(r.Permissions))
	s.publish(ctx, events.NewRoleEvent(events.EventTypeRoleCreated, r.ID, r.Name, internal.UserIDFromContext(ctx)))
	return r, nil
}

func (s *Service) Update(ctx context.Context, id string, dto UpdateRoleDTO) (*Role, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	r, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		name := strings.TrimSpace(*dto.Name)
		if !strings.EqualFold(name, r.Name) {
			if err := s.ensureNameFree(ctx, name, r.ID); err != nil {
				return nil, err
			}
		}
		r.Name = name
	}
	if dto.Permissions != nil {
		r.Permissions = NormalizePermissions(*dto.Permissions)
	}
	r.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, ToDataModel(r)); err != nil {
		return nil, err
	}

	s.logger.Info("role updated", "role_id", r.ID, "name", r.Name)
	s.publish(ctx, events.NewRoleEvent(events.EventTypeRoleUpdated, r.ID, r.Name, internal.UserIDFromContext(ctx)))
	return r, nil
}

// Delete refuses to remove a role that users still reference.
func (s *Service) Delete(ctx context.Context, id string) error {
	r, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.repo.CountUsers(ctx, r.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return internal.ErrRoleInUse
	}

	if err := s.repo.Delete(ctx, r.ID); err != nil {
		return err
	}

	s.logger.Info("role deleted", "role_id", r.ID, "name", r.Name)
	s.publish(ctx, events.NewRoleEvent(events.EventTypeRoleDeleted, r.ID, r.Name, internal.UserIDFromContext(ctx)))
	return nil
}

func (s *Service) ensureNameFree(ctx context.Context, name, selfID string) error {
	existing, err := s.repo.FindByName(ctx, name)
	switch {
	case errors.Is(err, internal.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return internal.ErrDuplicateRoleName
	}
	return nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish role event", "event_type", event.EventType(), "error", err)
	}
}
