// Package errs defines the error kinds shared across services. Package-level
// sentinels wrap one of these so handlers can map any error to a response code
// with errors.Is.
package errs

import "errors"

var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrUpstream     = errors.New("upstream unavailable")
)
