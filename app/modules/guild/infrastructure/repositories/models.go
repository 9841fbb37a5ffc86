package guilddb

import (
	"time"

	"github.com/uptrace/bun"

	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

// Guild is the aggregate root scoping tickets and role bindings to one server.
// A row must exist before any child entity referencing it is created.
type Guild struct {
	bun.BaseModel `bun:"table:guilds,alias:g"`

	GuildID   sharedtypes.GuildID `bun:"guild_id,pk,notnull,type:varchar(20)"`
	CreatedAt time.Time           `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time           `bun:"updated_at,nullzero,notnull,default:current_timestamp"`

	Tickets             []*Ticket             `bun:"rel:has-many,join:guild_id=guild_id"`
	SelfAssignableRoles []*SelfAssignableRole `bun:"rel:has-many,join:guild_id=guild_id"`
}

// Ticket is a durable, voteable proposal mirrored by one rendered chat message.
// MessageID is empty until the first render succeeds.
type Ticket struct {
	bun.BaseModel `bun:"table:tickets,alias:t"`

	ID          sharedtypes.TicketID  `bun:"id,pk,autoincrement"`
	GuildID     sharedtypes.GuildID   `bun:"guild_id,notnull,type:varchar(20)"`
	UserID      sharedtypes.DiscordID `bun:"user_id,notnull,type:varchar(20)"`
	Description string                `bun:"description,notnull"`
	Color       string                `bun:"color,notnull,default:'#ff0000',type:varchar(9)"`
	Likes       int                   `bun:"likes,notnull,default:0"`
	Dislikes    int                   `bun:"dislikes,notnull,default:0"`
	MessageID   sharedtypes.MessageID `bun:"message_id,nullzero,type:varchar(20)"`
	CreatedAt   time.Time             `bun:"created_at,nullzero,notnull,default:current_timestamp"`

	Guild *Guild `bun:"rel:belongs-to,join:guild_id=guild_id" json:"-"`
}

// SelfAssignableRole binds a Discord role users may grant themselves.
type SelfAssignableRole struct {
	bun.BaseModel `bun:"table:self_assignable_roles,alias:sar"`

	ID      int64               `bun:"id,pk,autoincrement"`
	GuildID sharedtypes.GuildID `bun:"guild_id,notnull,type:varchar(20)"`
	RoleID  sharedtypes.RoleID  `bun:"role_id,notnull,type:varchar(20)"`
	Name    string              `bun:"name,notnull,type:varchar(100)"`

	Guild *Guild `bun:"rel:belongs-to,join:guild_id=guild_id" json:"-"`
}
