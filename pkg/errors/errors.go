package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigNotFound     ErrorCode = "CONFIG_NOT_FOUND"
	ErrConfigParse        ErrorCode = "CONFIG_PARSE"
	ErrNoEnvironments     ErrorCode = "NO_ENVIRONMENTS"
	ErrUnknownEnvironment ErrorCode = "UNKNOWN_ENVIRONMENT"

	// State store errors
	ErrStateIO      ErrorCode = "STATE_IO"
	ErrStateCorrupt ErrorCode = "STATE_CORRUPT"

	// Link errors
	ErrInvalidPath   ErrorCode = "INVALID_PATH"
	ErrSourceMissing ErrorCode = "SOURCE_MISSING"
	ErrTargetExists  ErrorCode = "TARGET_EXISTS"
	ErrLinkExists    ErrorCode = "LINK_EXISTS"
	ErrNotASymlink   ErrorCode = "NOT_A_SYMLINK"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrSymlinkRemove ErrorCode = "SYMLINK_REMOVE"

	// Aggregation errors
	ErrVariableCollision ErrorCode = "VARIABLE_COLLISION"
)

// Category groups error codes by the component that raises them
type Category string

const (
	CategoryConfig    Category = "config"
	CategoryState     Category = "state"
	CategoryLink      Category = "link"
	CategoryCollision Category = "collision"
	CategoryInternal  Category = "internal"
)

var categories = map[ErrorCode]Category{
	ErrConfigNotFound:     CategoryConfig,
	ErrConfigParse:        CategoryConfig,
	ErrNoEnvironments:     CategoryConfig,
	ErrUnknownEnvironment: CategoryConfig,
	ErrStateIO:            CategoryState,
	ErrStateCorrupt:       CategoryState,
	ErrInvalidPath:        CategoryLink,
	ErrSourceMissing:      CategoryLink,
	ErrTargetExists:       CategoryLink,
	ErrLinkExists:         CategoryLink,
	ErrNotASymlink:        CategoryLink,
	ErrSymlinkCreate:      CategoryLink,
	ErrSymlinkRemove:      CategoryLink,
	ErrVariableCollision:  CategoryCollision,
}

// ActivateError represents a structured error with code and details
type ActivateError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ActivateError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ActivateError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *ActivateError) Is(target error) bool {
	var targetErr *ActivateError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// Category returns the component category of the error code
func (e *ActivateError) Category() Category {
	if c, ok := categories[e.Code]; ok {
		return c
	}
	return CategoryInternal
}

// New creates a new ActivateError with the given code and message
func New(code ErrorCode, message string) *ActivateError {
	return &ActivateError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ActivateError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ActivateError {
	return &ActivateError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an ActivateError
func Wrap(err error, code ErrorCode, message string) *ActivateError {
	if err == nil {
		return nil
	}
	return &ActivateError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ActivateError {
	if err == nil {
		return nil
	}
	return &ActivateError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *ActivateError) WithDetail(key string, value interface{}) *ActivateError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *ActivateError) WithDetails(details map[string]interface{}) *ActivateError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var activateErr *ActivateError
	if errors.As(err, &activateErr) {
		return activateErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an ActivateError
func GetErrorCode(err error) ErrorCode {
	var activateErr *ActivateError
	if errors.As(err, &activateErr) {
		return activateErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an ActivateError
func GetErrorDetails(err error) map[string]interface{} {
	var activateErr *ActivateError
	if errors.As(err, &activateErr) {
		return activateErr.Details
	}
	return nil
}

// CategoryOf returns the category of err, or CategoryInternal for foreign errors
func CategoryOf(err error) Category {
	var activateErr *ActivateError
	if errors.As(err, &activateErr) {
		return activateErr.Category()
	}
	return CategoryInternal
}
