package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFound_MatchesSentinel(t *testing.T) {
	err := NotFound("post", "abc123")

	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFound() should match ErrNotFound via errors.Is")
	}
	if errors.Is(err, ErrValidation) {
		t.Error("NotFound() should not match ErrValidation")
	}
}

func TestWrappedAppError_StillMatches(t *testing.T) {
	// Services wrap repository errors with %w; errors.Is must still see
	// the sentinel through the chain.
	err := fmt.Errorf("fetching post: %w", NotFound("post", "abc123"))

	if !errors.Is(err, ErrNotFound) {
		t.Error("wrapped AppError should still match ErrNotFound")
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatal("errors.As should extract the *AppError from the chain")
	}
	if appErr.Message == "" {
		t.Error("extracted AppError has no message")
	}
}

func TestValidationFailed_CarriesField(t *testing.T) {
	err := ValidationFailed("email", "email is required")

	if !errors.Is(err, ErrValidation) {
		t.Error("ValidationFailed() should match ErrValidation")
	}
	if err.Field != "email" {
		t.Errorf("Field = %q, want %q", err.Field, "email")
	}
}

func TestBadCredentials_DoesNotLeakDetail(t *testing.T) {
	err := BadCredentials()

	if !errors.Is(err, ErrBadCredentials) {
		t.Error("BadCredentials() should match ErrBadCredentials")
	}
	if err.Message != "invalid credentials" {
		t.Errorf("Message = %q, want the generic credentials message", err.Message)
	}
}

// =========================================================================
// Errors (validation bundle) TESTS
// =========================================================================

func TestErrors_OrNilEmpty(t *testing.T) {
	var verr Errors
	if err := verr.OrNil(); err != nil {
		t.Errorf("OrNil() on empty bundle = %v, want nil", err)
	}
}

func TestErrors_CollectsAndClassifies(t *testing.T) {
	var verr Errors
	verr.Add("title", "title is required")
	verr.Add("body", "body is required")

	err := verr.OrNil()
	if err == nil {
		t.Fatal("OrNil() on non-empty bundle should return an error")
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("bundle should match ErrValidation via errors.Is")
	}

	var got *Errors
	if !errors.As(err, &got) {
		t.Fatal("errors.As should extract *Errors")
	}
	if len(got.Items) != 2 {
		t.Errorf("len(Items) = %d, want 2", len(got.Items))
	}
}
