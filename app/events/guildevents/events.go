// Package guildevents defines topics and payloads for guild lifecycle events.
package guildevents

import (
	"time"

	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

const (
	GuildSetupRequestedV1 = "guild.setup.requested.v1"
	GuildReadyV1          = "guild.ready.v1"
	GuildSetupFailedV1    = "guild.setup.failed.v1"
)

// GuildSetupRequestedPayloadV1 is published when the bot joins a guild or a
// command touches a guild with no record yet.
type GuildSetupRequestedPayloadV1 struct {
	GuildID sharedtypes.GuildID `json:"guild_id"`
}

// GuildReadyPayloadV1 confirms a guild record exists.
type GuildReadyPayloadV1 struct {
	GuildID   sharedtypes.GuildID `json:"guild_id"`
	CreatedAt time.Time           `json:"created_at"`
}

// GuildSetupFailedPayloadV1 reports a failed setup attempt.
type GuildSetupFailedPayloadV1 struct {
	GuildID sharedtypes.GuildID `json:"guild_id"`
	Reason  string              `json:"reason"`
}
