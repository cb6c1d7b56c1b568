package apperrors

import "errors"

// Error kinds. Every caller-visible failure wraps exactly one of these.
var (
	ErrValidationFailed   = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
	ErrResourceNotFound   = errors.New("resource not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrExternalService    = errors.New("external service error")
)

// Token errors
var (
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("invalid token")
	ErrInvalidFormat = errors.New("invalid token format")
)

// Student and counselor errors
var (
	ErrStudentNotFound      = NewResourceNotFoundError("student not found")
	ErrSubjectNotFound      = NewResourceNotFoundError("student doesn't exist")
	ErrNoCounselorAvailable = NewResourceNotFoundError("no counselor available")
	ErrEmailAlreadyExists   = NewConflictError("email already exists")
	ErrPhoneAlreadyExists   = NewConflictError("phone number already exists")
	ErrAssignmentContention = NewConflictError("counselor assignment contention")
	ErrWrongPassword        = NewAuthError("wrong password")
)

// ErrVersionConflict is returned by stores when an optimistic version check
// fails. It never leaves the services package.
var ErrVersionConflict = errors.New("version conflict")

// Kind is the stable, caller-visible name of an error kind.
type Kind string

const (
	KindValidation Kind = "ValidationError"
	KindConflict   Kind = "ConflictError"
	KindNotFound   Kind = "NotFoundError"
	KindAuth       Kind = "AuthError"
	KindExternal   Kind = "ExternalServiceError"
	KindInternal   Kind = "InternalError"
)

// KindOf reports the kind of err.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidationFailed):
		return KindValidation
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrResourceNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidCredentials):
		return KindAuth
	case errors.Is(err, ErrExternalService):
		return KindExternal
	default:
		return KindInternal
	}
}

// NewValidationError creates a new custom error for invalid input with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// NewFieldValidationError is a validation error naming the offending field
// in its details
func NewFieldValidationError(field, message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
		Details: map[string]interface{}{"field": field},
	}
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewAuthError creates a new custom error for credential mismatches with a message
func NewAuthError(message string) error {
	return &CustomError{
		Err:     ErrInvalidCredentials,
		Message: message,
	}
}

// NewExternalServiceError wraps a failed call to a third-party service.
// cause is kept for errors.Is/As but is not part of the message.
func NewExternalServiceError(message string, cause error) error {
	return &CustomError{
		Err:     ErrExternalService,
		Message: message,
		Cause:   cause,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Cause   error
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements the multi-error form of errors.Unwrap so both the kind
// and the underlying cause are matched by errors.Is.
func (e *CustomError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}


// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
