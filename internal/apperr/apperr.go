// Package apperr defines the service-level error taxonomy and its HTTP mapping.
package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrConflict            = errors.New("conflict")
	ErrInvalidState        = errors.New("invalid state")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrMalformedUpstream   = errors.New("malformed upstream response")
)

// NotFoundf wraps ErrNotFound with a user-facing message.
func NotFoundf(msg string) error { return wrap(ErrNotFound, msg) }

// Forbiddenf wraps ErrForbidden with a user-facing message.
func Forbiddenf(msg string) error { return wrap(ErrForbidden, msg) }

// Conflictf wraps ErrConflict with a user-facing message.
func Conflictf(msg string) error { return wrap(ErrConflict, msg) }

// InvalidStatef wraps ErrInvalidState with a user-facing message.
func InvalidStatef(msg string) error { return wrap(ErrInvalidState, msg) }

type wrapped struct {
	base error
	msg  string
}

func (w *wrapped) Error() string { return w.msg }
func (w *wrapped) Unwrap() error { return w.base }

func wrap(base error, msg string) error {
	return &wrapped{base: base, msg: msg}
}

// HTTPStatus maps a taxonomy error to an HTTP status code.
// Unknown errors map to 500 so handlers never leak internals.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, ErrInvalidState):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, ErrUpstreamUnavailable):
		return fiber.StatusBadGateway
	case errors.Is(err, ErrMalformedUpstream):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// IsTaxonomy reports whether err carries one of the user-visible error kinds,
// i.e. whether its message is safe to show to the client.
func IsTaxonomy(err error) bool {
	return HTTPStatus(err) != fiber.StatusInternalServerError
}
