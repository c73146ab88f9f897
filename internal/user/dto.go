package user

import (
	"strings"
	"time"

	errors "github.com/Ansari839/ecommerce-dashboard/internal"
	"github.com/Ansari839/ecommerce-dashboard/internal/core/common/validation"
)

const (
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes
	maxPasswordLength = 72
	maxNameLength     = 100
	maxEmailLength    = 254
)

type CreateUserDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	RoleID   string `json:"role_id"`
	Status   string `json:"status,omitempty"`
}

type UpdateUserDTO struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

type UpdateStatusDTO struct {
	Status string `json:"status"`
}

type UpdateRoleDTO struct {
	RoleID string `json:"role_id"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	RoleID    string    `json:"role_id"`
	RoleName  string    `json:"role_name,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UsersResponse struct {
	Users []UserResponse `json:"users"`
}

// NormalizeEmail is applied before every lookup and write.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (d CreateUserDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(maxNameLength)
	v.Field("email", NormalizeEmail(d.Email)).Required().MaxLength(maxEmailLength).Email()
	v.Field("password", d.Password).Required().MinLength(minPasswordLength).MaxLength(maxPasswordLength)
	v.Field("role_id", d.RoleID).Required()
	v.Field("status", d.Status).OneOf(errors.ErrCodeInvalidStatus, StatusActive, StatusInactive)
	return v.Validate()
}

func (d UpdateUserDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("name", *d.Name).Required().MaxLength(maxNameLength)
	}
	if d.Email != nil {
		v.Field("email", NormalizeEmail(*d.Email)).Required().MaxLength(maxEmailLength).Email()
	}
	if d.Password != nil {
		v.Field("password", *d.Password).Required().MinLength(minPasswordLength).MaxLength(maxPasswordLength)
	}
	return v.Validate()
}

func (d UpdateStatusDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("status", d.Status).Required().OneOf(errors.ErrCodeInvalidStatus, StatusActive, StatusInactive)
	return v.Validate()
}

func (d UpdateRoleDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("role_id", d.RoleID).Required()
	return v.Validate()
}
