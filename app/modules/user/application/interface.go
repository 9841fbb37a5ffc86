package userservice

import (
	"context"

	"github.com/Night-Owls-Club/tavern-bot/app/shared/results"
	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

// Service is the user economy surface.
type Service interface {
	// GetOrCreateUser returns the user's economy row, creating a zeroed one
	// on first contact.
	GetOrCreateUser(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (results.OperationResult, error)

	// AdjustCredits applies a signed delta to the user's credits balance.
	AdjustCredits(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, delta int64) (results.OperationResult, error)

	// AwardXP adds XP and recomputes the level. The success payload reports
	// whether a level boundary was crossed.
	AwardXP(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, amount int64) (results.OperationResult, error)

	// GetCredits is a pure read of the user's economy row. A never-seen user
	// reads as a zeroed row; no row is created.
	GetCredits(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (results.OperationResult, error)

	// ResetLevel zeroes a user's XP and level, leaving credits untouched.
	ResetLevel(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (results.OperationResult, error)
}
