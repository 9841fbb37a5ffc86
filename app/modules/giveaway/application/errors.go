package giveawayservice

import "errors"

var (
	// ErrEmptyName indicates a blank giveaway name.
	ErrEmptyName = errors.New("giveaway name cannot be empty")

	// ErrEndsInPast indicates an end time that is not in the future.
	ErrEndsInPast = errors.New("giveaway end time must be in the future")

	// ErrAlreadyEnded indicates an operation on a giveaway that has ended.
	ErrAlreadyEnded = errors.New("giveaway has already ended")
)
