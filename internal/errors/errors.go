// Package errors provides coded application errors for the DocNest backend.
package errors

import "fmt"

// ErrorCode represents a unique error code surfaced to the desktop shell.
type ErrorCode string

const (
	// General errors
	ErrInternal   ErrorCode = "INTERNAL_ERROR"
	ErrInvalid    ErrorCode = "INVALID_INPUT"
	ErrNotFound   ErrorCode = "NOT_FOUND"
	ErrDuplicate  ErrorCode = "DUPLICATE"
	ErrValidation ErrorCode = "VALIDATION_ERROR"
	ErrIO         ErrorCode = "IO_ERROR"

	// Database errors
	ErrDatabase   ErrorCode = "DATABASE_ERROR"
	ErrMigration  ErrorCode = "MIGRATION_FAILED"
	ErrConstraint ErrorCode = "CONSTRAINT_VIOLATION"

	// Entity errors
	ErrCategoryNotFound   ErrorCode = "CATEGORY_NOT_FOUND"
	ErrDocumentNotFound   ErrorCode = "DOCUMENT_NOT_FOUND"
	ErrAttachmentNotFound ErrorCode = "ATTACHMENT_NOT_FOUND"

	// Export errors
	ErrExportFailed   ErrorCode = "EXPORT_FAILED"
	ErrStagingFailed  ErrorCode = "STAGING_FAILED"
	ErrManifestFailed ErrorCode = "MANIFEST_FAILED"
	ErrArchiveFailed  ErrorCode = "ARCHIVE_FAILED"
)

// AppError represents an application error with code and message.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an error code.
func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Is checks if an error is of a specific code. It unwraps nested
// AppErrors so a wrapped NOT_FOUND is still recognizable at the boundary.
func Is(err error, code ErrorCode) bool {
	for err != nil {
		if appErr, ok := err.(*AppError); ok {
			if appErr.Code == code {
				return true
			}
			err = appErr.Err
			continue
		}
		return false
	}
	return false
}

// CodeOf returns the outermost error code, or ErrInternal for plain errors.
func CodeOf(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return ErrInternal
}
