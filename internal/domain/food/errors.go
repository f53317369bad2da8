package food

import "errors"

var (
	ErrNameRequired  = errors.New("food name is required")
	ErrNegativePrice = errors.New("food price cannot be negative")
)
