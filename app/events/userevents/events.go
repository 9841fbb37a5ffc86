// Package userevents defines topics and payloads for user economy events.
package userevents

import (
	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

const (
	XPAwardedV1       = "user.xp.awarded.v1"
	LevelChangedV1    = "user.level.changed.v1"
	CreditsAdjustedV1 = "user.credits.adjusted.v1"
	XPAwardFailedV1   = "user.xp.award.failed.v1"
)

// XPAwardedPayloadV1 is published after XP is credited to a user.
type XPAwardedPayloadV1 struct {
	GuildID sharedtypes.GuildID   `json:"guild_id"`
	UserID  sharedtypes.DiscordID `json:"user_id"`
	Amount  int64                 `json:"amount"`
	TotalXP int64                 `json:"total_xp"`
}

// LevelChangedPayloadV1 is published when an XP award crosses a level boundary.
type LevelChangedPayloadV1 struct {
	GuildID  sharedtypes.GuildID   `json:"guild_id"`
	UserID   sharedtypes.DiscordID `json:"user_id"`
	OldLevel int                   `json:"old_level"`
	NewLevel int                   `json:"new_level"`
}

// CreditsAdjustedPayloadV1 is published after a credits balance change.
type CreditsAdjustedPayloadV1 struct {
	GuildID sharedtypes.GuildID   `json:"guild_id"`
	UserID  sharedtypes.DiscordID `json:"user_id"`
	Delta   int64                 `json:"delta"`
	Balance int64                 `json:"balance"`
}

// XPAwardFailedPayloadV1 reports a failed XP award.
type XPAwardFailedPayloadV1 struct {
	GuildID sharedtypes.GuildID   `json:"guild_id"`
	UserID  sharedtypes.DiscordID `json:"user_id"`
	Reason  string                `json:"reason"`
}
