package commands

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	ticketevents "github.com/Night-Owls-Club/tavern-bot/app/events/ticketevents"
	guilddb "github.com/Night-Owls-Club/tavern-bot/app/modules/guild/infrastructure/repositories"
	ticketservice "github.com/Night-Owls-Club/tavern-bot/app/modules/ticket/application"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/chat"
)

// TicketCommands exposes the suggestion commands.
type TicketCommands struct {
	tickets   ticketservice.Service
	session   *discordgo.Session
	messenger chat.Messenger
}

func NewTicketCommands(tickets ticketservice.Service, session *discordgo.Session, messenger chat.Messenger) *TicketCommands {
	return &TicketCommands{tickets: tickets, session: session, messenger: messenger}
}

// Register binds suggest and suggestedit on the dispatcher.
func (c *TicketCommands) Register(d *Dispatcher) {
	d.Register("suggest", c.Suggest)
	d.Register("suggestedit", c.SuggestEdit)
}

// Suggest submits a new suggestion ticket.
func (c *TicketCommands) Suggest(ctx context.Context, inv Invocation) error {
	if inv.Args == "" {
		return c.messenger.SendText(ctx, inv.ChannelID, "Usage: suggest <description>")
	}

	result, err := c.tickets.CreateTicket(ctx, inv.GuildID, inv.AuthorID, c.authorColor(inv), inv.Args)
	if err != nil {
		return err
	}
	if failure, ok := result.Failure.(*ticketevents.TicketFailedPayloadV1); ok {
		return c.messenger.SendText(ctx, inv.ChannelID, fmt.Sprintf("Could not submit the suggestion: %s.", failure.Reason))
	}

	ticket, ok := result.Success.(*guilddb.Ticket)
	if !ok {
		return fmt.Errorf("unexpected create ticket payload %T", result.Success)
	}
	return c.messenger.SendText(ctx, inv.ChannelID, fmt.Sprintf("Suggestion #%d submitted.", ticket.ID))
}

// authorColor resolves the invoking member's highest role color as a hex
// string. Returns "" when the member has no colored role, leaving the ticket
// on its default color.
func (c *TicketCommands) authorColor(inv Invocation) string {
	if c.session == nil || c.session.State == nil {
		return ""
	}
	color := c.session.State.UserColor(string(inv.AuthorID), string(inv.ChannelID))
	if color == 0 {
		return ""
	}
	return fmt.Sprintf("#%06x", color)
}

// SuggestEdit updates an existing suggestion. Members with Manage Messages
// may edit suggestions they do not own.
func (c *TicketCommands) SuggestEdit(ctx context.Context, inv Invocation) error {
	if inv.Args == "" {
		return c.messenger.SendText(ctx, inv.ChannelID, "Usage: suggestedit <id> <new description>")
	}

	elevated := inv.Has(discordgo.PermissionManageMessages)
	result, err := c.tickets.EditTicket(ctx, inv.GuildID, inv.AuthorID, elevated, inv.Args)
	if err != nil {
		return err
	}
	if failure, ok := result.Failure.(*ticketevents.TicketFailedPayloadV1); ok {
		return c.messenger.SendText(ctx, inv.ChannelID, editFailureReply(failure))
	}

	ticket, ok := result.Success.(*guilddb.Ticket)
	if !ok {
		return fmt.Errorf("unexpected edit ticket payload %T", result.Success)
	}
	return c.messenger.SendText(ctx, inv.ChannelID, fmt.Sprintf("Suggestion #%d updated.", ticket.ID))
}

func editFailureReply(failure *ticketevents.TicketFailedPayloadV1) string {
	switch failure.Reason {
	case guilddb.ErrTicketNotFound.Error():
		return "No suggestion with that id."
	case ticketservice.ErrForbidden.Error():
		return "You can only edit your own suggestions."
	case ticketservice.ErrRenderedMessageMissing.Error():
		return "That suggestion's message no longer exists, so it cannot be edited."
	case ticketservice.ErrNotEditable.Error():
		return fmt.Sprintf("Suggestion #%d was updated, but its message could not be re-rendered.", failure.TicketID)
	default:
		return fmt.Sprintf("Could not edit the suggestion: %s.", failure.Reason)
	}
}
