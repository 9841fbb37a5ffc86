package ticketservice

import (
	"context"

	"github.com/Night-Owls-Club/tavern-bot/app/shared/results"
	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

// Service is the ticket synchronization surface consumed by the command layer.
type Service interface {
	// CreateTicket persists a new ticket and renders it into the guild's
	// tickets channel.
	CreateTicket(ctx context.Context, guildID sharedtypes.GuildID, authorID sharedtypes.DiscordID, authorColor, description string) (results.OperationResult, error)

	// EditTicket updates a ticket's description and re-renders its message.
	// args is the raw command remainder of the form "<ticketId> <newDescription>".
	EditTicket(ctx context.Context, guildID sharedtypes.GuildID, requesterID sharedtypes.DiscordID, hasElevatedPermission bool, args string) (results.OperationResult, error)
}
