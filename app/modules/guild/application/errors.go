package guildservice

import "errors"

var (
	ErrInvalidGuildID = errors.New("invalid guild ID")
	ErrInvalidRoleID  = errors.New("invalid role ID")
	ErrEmptyRoleName  = errors.New("role name cannot be empty")
)
