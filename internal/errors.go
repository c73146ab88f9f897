package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidEmail     ErrorCode = "INVALID_EMAIL"
	ErrCodeInvalidStatus    ErrorCode = "INVALID_STATUS"
	ErrCodeInvalidModule    ErrorCode = "INVALID_MODULE"
	ErrCodeInvalidAction    ErrorCode = "INVALID_ACTION"
	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodeDuplicateEmail   ErrorCode = "DUPLICATE_EMAIL"
	ErrCodeDuplicateRole    ErrorCode = "DUPLICATE_ROLE_NAME"
	ErrCodeRoleInUse        ErrorCode = "ROLE_IN_USE"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeMissingCredential  ErrorCode = "MISSING_CREDENTIAL"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodeUserNotFound       ErrorCode = "USER_NOT_FOUND"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"

	ErrCodeInsufficientRole         ErrorCode = "INSUFFICIENT_ROLE"
	ErrCodeNoModuleAccess           ErrorCode = "NO_MODULE_ACCESS"
	ErrCodeActionNotPermitted       ErrorCode = "ACTION_NOT_PERMITTED"
	ErrCodeAuthorizationCheckFailed ErrorCode = "AUTHORIZATION_CHECK_FAILED"

	ErrCodeHashing  ErrorCode = "HASHING_ERROR"
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on Code so that copies made by Wrap still satisfy
// errors.Is against the package-level sentinels.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Wrap returns a copy of e carrying cause. Sentinels are never mutated.
func (e *AppError) Wrap(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewConflictFieldError is a conflict that still names the offending field,
// the way validation failures do.
func NewConflictFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

var (
	ErrNotFound          = NewNotFoundError("Resource not found", ErrCodeNotFound)
	ErrDuplicateEmail    = NewConflictFieldError("email", "email is already registered", ErrCodeDuplicateEmail)
	ErrDuplicateRoleName = NewConflictFieldError("name", "role name is already taken", ErrCodeDuplicateRole)
	ErrRoleInUse         = NewConflictError("role is still assigned to users", ErrCodeRoleInUse)

	ErrInvalidCredentials = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrMissingCredential  = NewUnauthorizedError("Missing bearer token", ErrCodeMissingCredential)
	ErrInvalidToken       = NewUnauthorizedError("Session invalid, please log in again", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Session expired, please log in again", ErrCodeTokenExpired)
	ErrUserNotFound       = NewUnauthorizedError("User no longer exists", ErrCodeUserNotFound)
	ErrUserInactive       = NewUnauthorizedError("User account is inactive", ErrCodeUserInactive)

	ErrInsufficientRole   = NewForbiddenError("insufficient role", ErrCodeInsufficientRole)
	ErrNoModuleAccess     = NewForbiddenError("no module access", ErrCodeNoModuleAccess)
	ErrActionNotPermitted = NewForbiddenError("action not permitted", ErrCodeActionNotPermitted)

	ErrAuthorizationCheckFailed = &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodeAuthorizationCheckFailed,
		Message:    "Authorization check failed",
		StatusCode: http.StatusInternalServerError,
	}
	ErrHashing = &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodeHashing,
		Message:    "Password hashing failed",
		StatusCode: http.StatusInternalServerError,
	}
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
