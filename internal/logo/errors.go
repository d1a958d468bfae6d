package logo

import "errors"

// ErrNotFound is returned when a logo does not exist.
var ErrNotFound = errors.New("logo not found")

// ErrValidation is returned when required input is missing or malformed.
// It is always raised before any remote call is made.
var ErrValidation = errors.New("validation failed")
