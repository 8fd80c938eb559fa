package timerange

import "errors"

// Reducer precondition errors. Control methods normalize their input, so
// these only surface when a caller dispatches a malformed Action directly.
var (
	ErrInvalidDuration = errors.New("invalid duration")
	ErrInvalidSpeed    = errors.New("invalid speed")
	ErrUnknownAction   = errors.New("unknown action")
)
