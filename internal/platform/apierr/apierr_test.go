package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/yungbote/neurobridge-tutor/internal/persona"
)

func TestFrom(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid_argument", fmt.Errorf("grade: %w", persona.ErrInvalidArgument), http.StatusBadRequest, "invalid_argument"},
		{"not_found", fmt.Errorf("student x: %w", ErrNotFound), http.StatusNotFound, "not_found"},
		{"unavailable", ErrUnavailable, http.StatusServiceUnavailable, "unavailable"},
		{"configuration", persona.ErrConfiguration, http.StatusInternalServerError, "configuration_error"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "internal"},
		{"conflict", fmt.Errorf("profile: %w", ErrConflict), http.StatusConflict, "conflict"},
		{"passthrough", New(http.StatusTeapot, "teapot", nil), http.StatusTeapot, "teapot"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := From(tc.err)
			if got.Status != tc.status || got.Code != tc.code {
				t.Fatalf("From(%v)=%d/%s, want %d/%s", tc.err, got.Status, got.Code, tc.status, tc.code)
			}
		})
	}
	if From(nil) != nil {
		t.Fatalf("From(nil) should be nil")
	}
}
