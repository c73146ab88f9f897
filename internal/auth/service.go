package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Ansari839/ecommerce-dashboard/internal"
	"github.com/Ansari839/ecommerce-dashboard/internal/role"
	"github.com/Ansari839/ecommerce-dashboard/internal/user"
)

type UserAccounts interface {
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	Get(ctx context.Context, id string) (*user.User, error)
	Create(ctx context.Context, dto user.CreateUserDTO) (*user.User, error)
}

type RoleLookup interface {
	FindByName(ctx context.Context, name string) (*role.Role, error)
}

type PasswordVerifier interface {
	Verify(plaintext, hashed string) (bool, error)
}

// Service issues bearer tokens for login and self-registration.
type Service struct {
	users       UserAccounts
	roles       RoleLookup
	passwords   PasswordVerifier
	tokens      TokenIssuer
	defaultRole string
	logger      *slog.Logger
}

func NewService(users UserAccounts, roles RoleLookup, passwords PasswordVerifier, tokens TokenIssuer, defaultRole string, logger *slog.Logger) *Service {
	return &Service{
		users:       users,
		roles:       roles,
		passwords:   passwords,
		tokens:      tokens,
		defaultRole: defaultRole,
		logger:      logger,
	}
}

// Login does not tell an unknown email apart from a wrong password.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*TokenResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.users.FindByEmail(ctx, dto.Email)
	if errors.Is(err, internal.ErrNotFound) {
		return nil, internal.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := s.passwords.Verify(dto.Password, u.PasswordHash)
	if err != nil {
		s.logger.ErrorContext(ctx, "stored password hash unreadable", "user_id", u.ID, "error", err)
		return nil, err
	}
	if !ok {
		return nil, internal.ErrInvalidCredentials
	}

	if !u.IsActive() {
		return nil, internal.ErrUserInactive
	}

	// FindByEmail leaves the role unresolved; reload so the response names it
	u, err = s.users.Get(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user logged in", "user_id", u.ID)
	return s.issue(u)
}

// Register creates an active account bound to the configured default role.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*TokenResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	r, err := s.roles.FindByName(ctx, s.defaultRole)
	if errors.Is(err, internal.ErrNotFound) {
		s.logger.ErrorContext(ctx, "default role does not exist", "role", s.defaultRole)
		return nil, internal.NewInternalError("registration is not available", err)
	}
	if err != nil {
		return nil, err
	}

	u, err := s.users.Create(ctx, user.CreateUserDTO{
		Name:     dto.Name,
		Email:    dto.Email,
		Password: dto.Password,
		RoleID:   r.ID,
		Status:   user.StatusActive,
	})
	if err != nil {
		return nil, err
	}

	return s.issue(u)
}

func (s *Service) issue(u *user.User) (*TokenResponse, error) {
	token, err := s.tokens.Issue(SubjectClaims{UserID: u.ID, Email: u.Email})
	if err != nil {
		return nil, err
	}
	return &TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
		User:        u.ToResponse(),
	}, nil
}
