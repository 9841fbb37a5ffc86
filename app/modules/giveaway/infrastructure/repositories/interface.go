package giveawaydb

import (
	"context"
	"errors"

	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

// ErrGiveawayNotFound indicates no giveaway row exists for the given ID.
var ErrGiveawayNotFound = errors.New("giveaway not found")

// Repository is the giveaway store.
type Repository interface {
	// CreateGiveaway persists a new giveaway and assigns its ID.
	CreateGiveaway(ctx context.Context, giveaway *Giveaway) (*Giveaway, error)

	// GetGiveaway fetches one giveaway by ID within a guild.
	GetGiveaway(ctx context.Context, guildID sharedtypes.GuildID, id int64) (*Giveaway, error)

	// ListActiveGiveaways returns the guild's giveaways that have not ended,
	// soonest-ending first.
	ListActiveGiveaways(ctx context.Context, guildID sharedtypes.GuildID) ([]*Giveaway, error)

	// MarkEnded flips the ended flag, recording the winner when one is given.
	// Returns the updated row; idempotent for already-ended giveaways.
	MarkEnded(ctx context.Context, guildID sharedtypes.GuildID, id int64, winnerID sharedtypes.DiscordID) (*Giveaway, error)
}
