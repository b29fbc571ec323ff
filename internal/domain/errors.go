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
	ErrCodeRateLimited   = "RATE_LIMITED"
	ErrCodeUpstream      = "UPSTREAM_ERROR"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Validation errors. Messages are user-facing; handlers return them verbatim.
var (
	ErrEmptyQuery     = NewDomainError(ErrCodeValidation, "Query must be at least 2 characters long")
	ErrQueryTooLong   = NewDomainError(ErrCodeValidation, "Query must be less than 500 characters")
	ErrMissingField   = NewDomainError(ErrCodeValidation, "missing required field")
	ErrInvalidSource  = NewDomainError(ErrCodeValidation, "invalid knowledge source")
	ErrInvalidChannel = NewDomainError(ErrCodeValidation, "Channel ID must start with C or G")
	ErrShortWorkspace = NewDomainError(ErrCodeValidation, "Workspace ID must be at least 5 characters long")
)

// Not found errors
var (
	ErrKnowledgeItemNotFound = NewDomainError(ErrCodeNotFound, "knowledge item not found")
)

// Upstream provider errors
var (
	ErrEmbeddingFailed  = NewDomainError(ErrCodeUpstream, "embedding provider request failed")
	ErrCompletionFailed = NewDomainError(ErrCodeUpstream, "completion provider request failed")
)

// Rate limit errors
var (
	ErrRateLimited = NewDomainError(ErrCodeRateLimited, "Rate limit exceeded. Please try again later.")
)
