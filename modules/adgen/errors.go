package adgen

import "errors"

var (
	// ErrInsufficientCredits is returned before any provider call when the
	// balance does not cover one batch.
	ErrInsufficientCredits = errors.New("not enough credits")
	// ErrGenerationInProgress is returned when the workspace already runs a flow.
	ErrGenerationInProgress = errors.New("a generation is already in progress")
	// ErrInvalidInput wraps form, tab and brand kit validation failures.
	ErrInvalidInput = errors.New("invalid input")
)
