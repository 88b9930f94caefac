package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError.
const (
	CodeNotFound      = "NOT_FOUND"
	CodeValidation    = "VALIDATION_ERROR"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeConflict      = "CONFLICT"
	CodeInternal      = "INTERNAL_ERROR"
	CodeCodeNotFound  = "CODE_NOT_FOUND"
	CodeCodeExpired   = "CODE_EXPIRED"
	CodeCodeMismatch  = "CODE_MISMATCH"
	CodeUserNotFound  = "USER_NOT_FOUND"
	CodeUserInactive  = "USER_INACTIVE"
	CodeSessionAbsent = "SESSION_REQUIRED"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
	Fields  map[string]string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another AppError with the same code and message, so sentinels
// work with errors.Is through wrapping.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && t.Message == e.Message
}

// Login code rejections. Each has its own message shown to the user.
var (
	ErrCodeNotFound = &AppError{Code: CodeCodeNotFound, Message: "No active code for this user, request a new one"}
	ErrCodeExpired  = &AppError{Code: CodeCodeExpired, Message: "The code has expired, request a new one"}
	ErrCodeMismatch = &AppError{Code: CodeCodeMismatch, Message: "The code is incorrect"}
	ErrUserNotFound = &AppError{Code: CodeUserNotFound, Message: "User not found"}
	ErrUserInactive = &AppError{Code: CodeUserInactive, Message: "This account is deactivated"}
	ErrEmailTaken   = &AppError{Code: CodeConflict, Message: "A verified account already uses this email"}
	ErrUsernameUsed = &AppError{Code: CodeConflict, Message: "This username is already taken"}
)

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewFieldErrors reports per-field validation failures.
func NewFieldErrors(fields map[string]string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: "Invalid input",
		Fields:  fields,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// StatusFor maps an error to the HTTP status the board answers with.
func StatusFor(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeValidation:
		return fiber.StatusBadRequest
	case CodeNotFound, CodeUserNotFound:
		return fiber.StatusNotFound
	case CodeUnauthorized, CodeSessionAbsent, CodeCodeNotFound, CodeCodeExpired, CodeCodeMismatch, CodeUserInactive:
		return fiber.StatusUnauthorized
	case CodeConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var appErr *AppError
	if errors.As(err, &appErr) {
		response = ErrorResponse{
			Error:  appErr.Message,
			Code:   appErr.Code,
			Fields: appErr.Fields,
		}
		if appErr.Err != nil && appErr.Code != CodeInternal {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
