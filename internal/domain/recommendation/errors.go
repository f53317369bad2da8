package recommendation

import "errors"

var (
	ErrInvalidConfidence = errors.New("confidence must be between 0 and 1")
	ErrMissingUser       = errors.New("recommendation requires a user")
	ErrMissingFood       = errors.New("recommendation requires a food item")
	ErrNotOwner          = errors.New("only the recommended user can respond to a recommendation")
)
