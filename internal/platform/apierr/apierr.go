package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/yungbote/neurobridge-tutor/internal/persona"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

var (
	// ErrNotFound marks a missing resource, e.g. a student without a stored profile.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable marks a feature whose backing store is not configured.
	ErrUnavailable = errors.New("unavailable")
	// ErrConflict marks a write that collided with an existing row.
	ErrConflict = errors.New("conflict")
)

// From maps an error from the service layer onto an *Error, keeping an existing one as is.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, persona.ErrInvalidArgument):
		return New(http.StatusBadRequest, "invalid_argument", err)
	case errors.Is(err, ErrNotFound):
		return New(http.StatusNotFound, "not_found", err)
	case errors.Is(err, ErrConflict):
		return New(http.StatusConflict, "conflict", err)
	case errors.Is(err, ErrUnavailable):
		return New(http.StatusServiceUnavailable, "unavailable", err)
	case errors.Is(err, persona.ErrConfiguration):
		return New(http.StatusInternalServerError, "configuration_error", err)
	default:
		return New(http.StatusInternalServerError, "internal", err)
	}
}
