// Package errors tests for coded application errors.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

// TestAppError_Error verifies message formatting with and without a cause.
func TestAppError_Error(t *testing.T) {
	plain := New(ErrNotFound, "category not found")
	if got := plain.Error(); got != "[NOT_FOUND] category not found" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := Wrap(ErrIO, "workspace creation failed", fmt.Errorf("disk full"))
	if got := wrapped.Error(); !strings.Contains(got, "IO_ERROR") || !strings.Contains(got, "disk full") {
		t.Errorf("wrapped Error() = %q, want code and cause", got)
	}
}

// TestUnwrap verifies compatibility with the stdlib errors package.
func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	err := Wrap(ErrIO, "copy failed", cause)

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if stderrors.Unwrap(err) != cause {
		t.Error("Unwrap should return the cause")
	}
}

// TestIs_nested verifies code matching through nested AppErrors.
func TestIs_nested(t *testing.T) {
	inner := New(ErrDocumentNotFound, "document not found")
	outer := Wrap(ErrExportFailed, "export failed", inner)

	if !Is(outer, ErrExportFailed) {
		t.Error("Is should match the outer code")
	}
	if !Is(outer, ErrDocumentNotFound) {
		t.Error("Is should match a nested code")
	}
	if Is(outer, ErrValidation) {
		t.Error("Is should not match an absent code")
	}
	if Is(nil, ErrExportFailed) {
		t.Error("Is(nil) should be false")
	}
	if Is(fmt.Errorf("plain"), ErrExportFailed) {
		t.Error("Is on a plain error should be false")
	}
}

// TestCodeOf verifies code extraction.
func TestCodeOf(t *testing.T) {
	if got := CodeOf(New(ErrValidation, "missing id")); got != ErrValidation {
		t.Errorf("CodeOf = %q, want VALIDATION_ERROR", got)
	}
	if got := CodeOf(fmt.Errorf("plain")); got != ErrInternal {
		t.Errorf("CodeOf(plain) = %q, want INTERNAL_ERROR", got)
	}
}
