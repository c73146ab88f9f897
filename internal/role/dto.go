package role

import (
	"fmt"

	errors "github.com/Ansari839/ecommerce-dashboard/internal"
	"github.com/Ansari839/ecommerce-dashboard/internal/core/common/validation"
)

const maxRoleNameLength = 64

type CreateRoleDTO struct {
	Name        string       `json:"name"`
	Permissions []Permission `json:"permissions"`
}

// UpdateRoleDTO replaces whichever fields are present.
type UpdateRoleDTO struct {
	Name        *string       `json:"name,omitempty"`
	Permissions *[]Permission `json:"permissions,omitempty"`
}

type RolesResponse struct {
	Roles []*Role `json:"roles"`
}

func (d CreateRoleDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(maxRoleNameLength)
	validatePermissions(v, d.Permissions)
	return v.Validate()
}

func (d UpdateRoleDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("name", *d.Name).Required().MaxLength(maxRoleNameLength)
	}
	if d.Permissions != nil {
		validatePermissions(v, *d.Permissions)
	}
	return v.Validate()
}

func validatePermissions(v *validation.ValidationBuilder, perms []Permission) {
	for i, p := range perms {
		moduleField := fmt.Sprintf("permissions[%d].module", i)
		v.Field(moduleField, p.Module).Custom(func(value interface{}) *errors.AppError {
			if normalizeName(value.(string)) == "" {
				return errors.NewValidationFieldError(moduleField, "module name is required", errors.ErrCodeInvalidModule)
			}
			return nil
		})

		actionsField := fmt.Sprintf("permissions[%d].actions", i)
		v.Field(actionsField, p.Actions).Required().Custom(func(value interface{}) *errors.AppError {
			for _, a := range value.([]string) {
				if normalizeName(a) == "" {
					return errors.NewValidationFieldError(actionsField, "action names cannot be empty", errors.ErrCodeInvalidAction)
				}
			}
			return nil
		})
	}
}
