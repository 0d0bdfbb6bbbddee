package shared

import "fmt"

var (
	// Recommendation errors
	ErrNotFound      = fmt.Errorf("recommendation not found")
	ErrConflict      = fmt.Errorf("recommendation name already exists")
	ErrInvalidAmount = fmt.Errorf("amount must not be negative")

	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")

	// Transport errors
	ErrRateLimited = fmt.Errorf("rate limit exceeded")
)
