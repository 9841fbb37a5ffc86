// Package giveawayevents defines topics and payloads for giveaway events.
package giveawayevents

import (
	"time"

	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

const (
	GiveawayCreatedV1 = "giveaway.created.v1"
	GiveawayEndedV1   = "giveaway.ended.v1"
)

// GiveawayCreatedPayloadV1 is published after a giveaway is persisted.
type GiveawayCreatedPayloadV1 struct {
	GuildID    sharedtypes.GuildID `json:"guild_id"`
	GiveawayID int64               `json:"giveaway_id"`
	Name       string              `json:"name"`
	EndsAt     time.Time           `json:"ends_at"`
}

// GiveawayEndedPayloadV1 is published by the queue worker when a giveaway's
// end time is reached, or by an early manual end. WinnerID is empty unless an
// admin recorded one.
type GiveawayEndedPayloadV1 struct {
	GuildID    sharedtypes.GuildID   `json:"guild_id"`
	GiveawayID int64                 `json:"giveaway_id"`
	Name       string                `json:"name"`
	WinnerID   sharedtypes.DiscordID `json:"winner_id,omitempty"`
}
