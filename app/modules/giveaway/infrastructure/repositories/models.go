package giveawaydb

import (
	"time"

	"github.com/uptrace/bun"

	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

// Giveaway is a time-boxed prize draw. Ended flips exactly once, when the
// scheduled end job fires or an admin ends it early.
type Giveaway struct {
	bun.BaseModel `bun:"table:giveaways,alias:gw"`

	ID          int64                 `bun:"id,pk,autoincrement"`
	GuildID     sharedtypes.GuildID   `bun:"guild_id,notnull,type:varchar(20)"`
	Name        string                `bun:"name,notnull"`
	Description string                `bun:"description,nullzero"`
	CreatedBy   sharedtypes.DiscordID `bun:"created_by,notnull,type:varchar(20)"`
	ChannelID   sharedtypes.ChannelID `bun:"channel_id,nullzero,type:varchar(20)"`
	MessageID   sharedtypes.MessageID `bun:"message_id,nullzero,type:varchar(20)"`
	EndsAt      time.Time             `bun:"ends_at,notnull"`
	Ended       bool                  `bun:"ended,notnull,default:false"`
	WinnerID    sharedtypes.DiscordID `bun:"winner_user_id,nullzero,type:varchar(20)"`
	CreatedAt   time.Time             `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
