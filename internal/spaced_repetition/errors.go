package spaced_repetition

import "errors"

// ErrInvalidInput is returned when a collection argument is nil.
// Check with errors.Is(err, spaced_repetition.ErrInvalidInput).
var ErrInvalidInput = errors.New("spaced_repetition: invalid input collection")
