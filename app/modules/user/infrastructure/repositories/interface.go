package userdb

import (
	"context"
	"errors"

	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

// ErrUserNotFound indicates no user row exists for the given (user, guild).
var ErrUserNotFound = errors.New("user not found")

// Repository is the user economy store. Credit and XP arithmetic happens in
// SQL so that concurrent adjustments do not lose updates.
type Repository interface {
	// GetUser fetches a user's economy row. Pure read.
	GetUser(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (*User, error)

	// EnsureUser returns the existing row or creates a zeroed one.
	EnsureUser(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (*User, error)

	// AddCredits atomically adjusts the credits balance and returns the
	// updated row. Negative deltas are allowed; balances may go negative.
	AddCredits(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, delta int64) (*User, error)

	// AddXP atomically adds XP and returns the updated row. The stored level
	// is not recomputed here; callers persist level changes via SetLevel.
	AddXP(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, amount int64) (*User, error)

	// SetLevel persists a recomputed level.
	SetLevel(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, level int) error

	// ResetProgress zeroes a user's XP and level and returns the updated row.
	// Credits are untouched.
	ResetProgress(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (*User, error)
}
