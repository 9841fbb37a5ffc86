package sharedtypes

// GuildID is a Discord guild (server) snowflake.
type GuildID string

// DiscordID is a Discord user snowflake.
type DiscordID string

// ChannelID is a Discord channel snowflake.
type ChannelID string

// MessageID is a Discord message snowflake.
type MessageID string

// RoleID is a Discord role snowflake.
type RoleID string

// TicketID is the store-assigned numeric identifier of a ticket.
type TicketID int64
