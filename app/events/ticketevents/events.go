// Package ticketevents defines topics and payloads for ticket lifecycle events.
package ticketevents

import (
	"time"

	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

const (
	TicketCreatedV1 = "ticket.created.v1"
	TicketEditedV1  = "ticket.edited.v1"
	TicketFailedV1  = "ticket.failed.v1"
)

// TicketCreatedPayloadV1 is published after a ticket is persisted and rendered.
type TicketCreatedPayloadV1 struct {
	GuildID     sharedtypes.GuildID   `json:"guild_id"`
	TicketID    sharedtypes.TicketID  `json:"ticket_id"`
	AuthorID    sharedtypes.DiscordID `json:"author_id"`
	Description string                `json:"description"`
	MessageID   sharedtypes.MessageID `json:"message_id"`
	CreatedAt   time.Time             `json:"created_at"`
}

// TicketEditedPayloadV1 is published after a ticket description changes.
type TicketEditedPayloadV1 struct {
	GuildID     sharedtypes.GuildID   `json:"guild_id"`
	TicketID    sharedtypes.TicketID  `json:"ticket_id"`
	EditorID    sharedtypes.DiscordID `json:"editor_id"`
	Description string                `json:"description"`
}

// TicketFailedPayloadV1 reports a ticket operation that ended in a typed
// failure. TicketID is zero when the failure precedes id assignment.
type TicketFailedPayloadV1 struct {
	GuildID   sharedtypes.GuildID  `json:"guild_id"`
	TicketID  sharedtypes.TicketID `json:"ticket_id,omitempty"`
	Operation string               `json:"operation"`
	Reason    string               `json:"reason"`
}
