package domain

import "github.com/pkg/errors"

var (
	// ErrNegativePrice rejects a negative price before it reaches the store
	ErrNegativePrice = errors.New("price must be non-negative")
)
