package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DomainError with the same code and message,
// so wrapped sentinels still match with errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeInternalError = "INTERNAL_ERROR"
	ErrCodeUnavailable   = "UNAVAILABLE"
)

// Validation errors
var (
	ErrInvalidRequest = NewDomainError(ErrCodeValidation, "Invalid request")
	ErrInvalidLens    = NewDomainError(ErrCodeValidation, "invalid lens")
	ErrInvalidRecord  = NewDomainError(ErrCodeValidation, "invalid corpus record")
	ErrCorpusInvalid  = NewDomainError(ErrCodeValidation, "invalid corpus")
)

// Not found errors
var (
	ErrRecordNotFound    = NewDomainError(ErrCodeNotFound, "corpus record not found")
	ErrResumeUnavailable = NewDomainError(ErrCodeNotFound, "resume not available")
)

// ErrDelegateInvalidOutput marks generative output that failed parsing or validation.
var ErrDelegateInvalidOutput = NewDomainError(ErrCodeUnavailable, "generative delegate returned an invalid response")
