package collection

import "errors"

// Failure kinds. Every error returned by a Controller wraps exactly one of these.
var (
	ErrFetchFailure  = errors.New("fetch failure")
	ErrCreateFailure = errors.New("create failure")
	ErrDeleteFailure = errors.New("delete failure")
)

// Causes that originate in the controller or at the transport boundary.
var (
	ErrInvalidDraft      = errors.New("invalid draft")
	ErrMalformedResponse = errors.New("malformed response")
)
