package giveawayservice

import (
	"context"
	"time"

	"github.com/Night-Owls-Club/tavern-bot/app/shared/results"
	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

// Service is the giveaway surface consumed by the command layer.
type Service interface {
	// CreateGiveaway persists a giveaway and schedules its end job.
	CreateGiveaway(ctx context.Context, guildID sharedtypes.GuildID, creatorID sharedtypes.DiscordID, name, description string, endsAt time.Time) (results.OperationResult, error)

	// EndGiveaway ends a giveaway early, cancelling its scheduled job and
	// recording the winner when one is given.
	EndGiveaway(ctx context.Context, guildID sharedtypes.GuildID, giveawayID int64, winnerID sharedtypes.DiscordID) (results.OperationResult, error)

	// ListActiveGiveaways returns the guild's running giveaways.
	ListActiveGiveaways(ctx context.Context, guildID sharedtypes.GuildID) (results.OperationResult, error)
}
