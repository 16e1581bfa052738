package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. unknown zone, malformed date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a service was claimed by a concurrent route
// generation between the eligibility read and the conditional write.
// The whole zone transaction aborts and no partial route is left behind;
// callers may retry safely because eligibility is re-checked on every run.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("service already claimed")
