package userdb

import (
	"time"

	"github.com/uptrace/bun"

	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

// User holds a member's per-guild economy state. One row per (user, guild).
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	UserID    sharedtypes.DiscordID `bun:"user_id,pk,notnull,type:varchar(20)"`
	GuildID   sharedtypes.GuildID   `bun:"guild_id,pk,notnull,type:varchar(20)"`
	Credits   int64                 `bun:"credits,notnull,default:0"`
	XP        int64                 `bun:"xp,notnull,default:0"`
	Level     int                   `bun:"level,notnull,default:0"`
	CreatedAt time.Time             `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time             `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
