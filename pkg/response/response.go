package response

import (
	"errors"

	"github.com/bitforce/ambassador/pkg/errs"
)

// New generic response spec
type APIResponseCode int

const (
	APIResponseCodeOK           APIResponseCode = 0
	APIResponseCodeBadRequest   APIResponseCode = 40000
	APIResponseCodeUnauthorized APIResponseCode = 40100
	APIResponseCodeForbidden    APIResponseCode = 40300
	APIResponseCodeNotFound     APIResponseCode = 40400
	APIResponseCodeConflict     APIResponseCode = 40900
	APIResponseCodeError        APIResponseCode = 50000
	APIResponseCodeUpstream     APIResponseCode = 50200
)

var codeToMsg = map[APIResponseCode]string{
	APIResponseCodeOK:           "ok",
	APIResponseCodeBadRequest:   "bad request",
	APIResponseCodeUnauthorized: "unauthorized",
	APIResponseCodeForbidden:    "forbidden",
	APIResponseCodeNotFound:     "not found",
	APIResponseCodeConflict:     "conflict",
	APIResponseCodeError:        "unexpected error",
	APIResponseCodeUpstream:     "upstream unavailable",
}

// APIResponse is the generic response envelope used by HTTP APIs.
// Use OKT / ErrorT helpers to construct instances.
type APIResponse[T any] struct {
	Code    APIResponseCode `json:"code"`
	Message string          `json:"message"`
	Data    T               `json:"data"`
}

// OKT returns a successful response with data.
func OKT[T any](data T) *APIResponse[T] {
	return &APIResponse[T]{Code: APIResponseCodeOK, Message: codeToMsg[APIResponseCodeOK], Data: data}
}

// ErrorT returns an error response with message and optional data.
func ErrorT[T any](code APIResponseCode, data T) *APIResponse[T] {
	return &APIResponse[T]{Code: code, Message: codeToMsg[code], Data: data}
}

// CodeForError maps an error kind from pkg/errs to a response code.
func CodeForError(err error) APIResponseCode {
	switch {
	case err == nil:
		return APIResponseCodeOK
	case errors.Is(err, errs.ErrValidation):
		return APIResponseCodeBadRequest
	case errors.Is(err, errs.ErrNotFound):
		return APIResponseCodeNotFound
	case errors.Is(err, errs.ErrConflict):
		return APIResponseCodeConflict
	case errors.Is(err, errs.ErrUnauthorized):
		return APIResponseCodeUnauthorized
	case errors.Is(err, errs.ErrForbidden):
		return APIResponseCodeForbidden
	case errors.Is(err, errs.ErrUpstream):
		return APIResponseCodeUpstream
	default:
		return APIResponseCodeError
	}
}

// FromError builds an error envelope whose data is the error text.
func FromError(err error) *APIResponse[any] {
	return ErrorT[any](CodeForError(err), err.Error())
}
