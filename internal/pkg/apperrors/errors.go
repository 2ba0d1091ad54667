package apperrors

import "errors"

// Validation errors
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrMissingFields    = errors.New("missing required fields")
	ErrInvalidStage     = errors.New("invalid stage value")
)

// Resource errors
var (
	ErrStudentNotFound = errors.New("student not found or inactive")
	ErrStudentExists   = errors.New("student already exists")
	ErrMatchNotFound   = errors.New("match not found")
	ErrCompanyNotFound = errors.New("company not found")
)

// Persistence errors
var (
	ErrPersistence = errors.New("persistence operation failed")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements the error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError wrapping the underlying sentinel
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}
