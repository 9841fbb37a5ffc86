package giveawayqueue

import (
	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

// GiveawayEndJob fires when a giveaway's end time is reached. The worker
// marks the giveaway ended and publishes the ended event.
type GiveawayEndJob struct {
	GuildID    sharedtypes.GuildID `json:"guild_id"`
	GiveawayID int64               `json:"giveaway_id"`
	Name       string              `json:"name"`
}

// Kind returns the job type identifier for River.
func (GiveawayEndJob) Kind() string { return "giveaway_end" }
