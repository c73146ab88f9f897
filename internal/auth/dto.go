package auth

import (
	errors "github.com/Ansari839/ecommerce-dashboard/internal"
	"github.com/Ansari839/ecommerce-dashboard/internal/core/common/validation"
	"github.com/Ansari839/ecommerce-dashboard/internal/user"
)

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string            `json:"access_token"`
	TokenType   string            `json:"token_type"`
	ExpiresIn   int64             `json:"expires_in"`
	User        user.UserResponse `json:"user"`
}

func (d LoginDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("email", user.NormalizeEmail(d.Email)).Required().Email()
	v.Field("password", d.Password).Required()
	return v.Validate()
}

// Validate only checks presence; user.CreateUserDTO enforces the rest.
func (d RegisterDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required()
	v.Field("email", d.Email).Required()
	v.Field("password", d.Password).Required()
	return v.Validate()
}
