package domain

import "errors"

var (
	ErrPlayerNotFound         = errors.New("player not found")
	ErrTemporarilyUnavailable = errors.New("temporarily unavailable")
)

// Progression errors are expected outcomes, not failures. Callers are
// expected to match on them and render a placeholder state.
var (
	ErrNoProgressionData         = errors.New("no data")
	ErrNotEnoughData             = errors.New("not enough data")
	ErrTooManyDataPoints         = errors.New("expected at most 2 data points")
	ErrNoCurrentStats            = errors.New("no current stats")
	ErrNoProgress                = errors.New("no progress")
	ErrProgressionNotImplemented = errors.New("progression not implemented")
)
