package util_test

import (
	"errors"
	"testing"

	"github.com/localmarket/offers-service/pkg/util"
)

func TestErrorConstructors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"validation", util.NewValidationError("bad input"), "VALIDATION_FAILED", 400},
		{"duplicate", util.NewDuplicateResource("exists"), "DUPLICATE_RESOURCE", 400},
		{"unauthorized", util.NewUnauthorized("no"), "UNAUTHORIZED", 401},
		{"forbidden", util.NewForbidden("no"), "FORBIDDEN", 403},
		{"not found", util.NewNotFound("gone"), "NOT_FOUND", 404},
		{"internal", util.NewInternalError(errors.New("boom")), "INTERNAL_ERROR", 500},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			de := util.ToDomainError(tc.err)
			if de.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, de.Code)
			}
			if de.HTTPStatus != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, de.HTTPStatus)
			}
		})
	}
}

func TestToDomainError_UnknownErrorsHideDetail(t *testing.T) {
	de := util.ToDomainError(errors.New("pq: connection refused"))
	if de.HTTPStatus != 500 {
		t.Errorf("expected 500, got %d", de.HTTPStatus)
	}
	if de.Message != "internal server error" {
		t.Errorf("internal detail must not reach the caller, got %q", de.Message)
	}
	if de.Err == nil {
		t.Error("original error should be retained for logging")
	}
}

func TestToDomainError_Nil(t *testing.T) {
	if util.ToDomainError(nil) != nil {
		t.Error("nil error must map to nil")
	}
}

func TestToDomainError_WrappedDomainError(t *testing.T) {
	wrapped := errors.Join(util.NewNotFound("gone"), errors.New("context"))
	de := util.ToDomainError(wrapped)
	if de.HTTPStatus != 404 {
		t.Errorf("wrapped DomainError should surface, got %d", de.HTTPStatus)
	}
}
