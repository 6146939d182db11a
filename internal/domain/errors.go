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
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeQuotaExceeded     = "QUOTA_EXCEEDED"
	ErrCodeTransient         = "TRANSIENT_SERVICE_ERROR"
	ErrCodeInvalidQuery      = "INVALID_QUERY"
	ErrCodeCorruptCheckpoint = "CORRUPT_CHECKPOINT"
	ErrCodeOutputWrite       = "OUTPUT_WRITE_FAILURE"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// Search service errors
var (
	// ErrQuotaExceeded means the daily API cost budget is exhausted.
	// Fatal to the entire run; resume the next day.
	ErrQuotaExceeded = NewDomainError(ErrCodeQuotaExceeded, "daily API quota exhausted")

	// ErrTransient covers rate limiting and transport hiccups.
	// Retriable with bounded backoff.
	ErrTransient = NewDomainError(ErrCodeTransient, "transient service error")

	// ErrInvalidQuery means the filter combination was rejected by the
	// service. Fatal to the unit only; the run continues.
	ErrInvalidQuery = NewDomainError(ErrCodeInvalidQuery, "invalid query or filter combination")
)

// Checkpoint and output errors
var (
	ErrCorruptCheckpoint = NewDomainError(ErrCodeCorruptCheckpoint, "checkpoint file unreadable or malformed")
	ErrOutputWrite       = NewDomainError(ErrCodeOutputWrite, "failed to flush records to output")
)

// Validation errors
var (
	ErrEmptyKeyword    = NewDomainError(ErrCodeValidation, "keyword must not be empty")
	ErrEmptyLanguage   = NewDomainError(ErrCodeValidation, "language must not be empty")
	ErrUnknownStrategy = NewDomainError(ErrCodeValidation, "unknown strategy name")
	ErrEmptyChannelID  = NewDomainError(ErrCodeValidation, "channel id must not be empty")
)

// Not found errors
var (
	ErrChannelNotFound   = NewDomainError(ErrCodeNotFound, "channel not found")
	ErrNoUploadsPlaylist = NewDomainError(ErrCodeNotFound, "channel has no uploads playlist")
)
