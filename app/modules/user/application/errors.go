package userservice

import "errors"

var (
	// ErrInvalidUserID indicates a blank user identifier.
	ErrInvalidUserID = errors.New("user ID cannot be empty")

	// ErrInvalidGuildID indicates a blank guild identifier.
	ErrInvalidGuildID = errors.New("guild ID cannot be empty")

	// ErrInvalidXPAmount indicates a non-positive XP award.
	ErrInvalidXPAmount = errors.New("xp amount must be positive")
)
