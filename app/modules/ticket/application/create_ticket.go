package ticketservice

import (
	"context"
	"errors"
	"strings"
	"time"

	ticketevents "github.com/Night-Owls-Club/tavern-bot/app/events/ticketevents"
	guilddb "github.com/Night-Owls-Club/tavern-bot/app/modules/guild/infrastructure/repositories"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/attr"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/chat"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/results"
	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

// CreateTicket persists a new ticket and renders it into the tickets channel.
//
// The render happens in two phases: an initial message without an id, then an
// in-place edit once the store has assigned one. Any failure after the persist
// leaves an orphaned-but-valid ticket; there is no two-phase rollback.
func (s *TicketService) CreateTicket(ctx context.Context, guildID sharedtypes.GuildID, authorID sharedtypes.DiscordID, authorColor, description string) (results.OperationResult, error) {
	return s.withTelemetry(ctx, "create_ticket", guildID, func(ctx context.Context) (results.OperationResult, error) {
		description = strings.TrimSpace(description)
		if description == "" {
			return s.createFailure(ctx, guildID, ErrEmptyDescription.Error()), nil
		}

		channel, err := s.messenger.FindChannelByName(ctx, guildID, s.channelName)
		if err != nil {
			if errors.Is(err, chat.ErrChannelNotFound) {
				// Nothing is persisted on this path, not even the guild row.
				return s.createFailure(ctx, guildID, ErrChannelNotConfigured.Error()), nil
			}
			return results.OperationResult{}, err
		}

		color := authorColor
		if color == "" {
			color = defaultTicketColor
		}
		ticket := &guilddb.Ticket{
			GuildID:     guildID,
			UserID:      authorID,
			Description: description,
			Color:       color,
			CreatedAt:   time.Now().UTC(),
		}

		// Phase one: render without an id. Nothing has been persisted yet, so
		// a render failure here leaves no trace in the store.
		ref, err := s.messenger.SendEmbed(ctx, channel.ID, ticketEmbed(ticket))
		if err != nil {
			return results.OperationResult{}, err
		}

		if _, err := s.repo.EnsureGuild(ctx, guildID); err != nil {
			return results.OperationResult{}, err
		}

		ticket.MessageID = ref.ID
		saved, err := s.repo.SaveTicket(ctx, guildID, ticket)
		if err != nil {
			// The rendered message is now orphaned. Reconciled on next read,
			// not rolled back.
			return results.OperationResult{}, err
		}

		// Phase two: the id only exists after the store assigned it. Failures
		// from here on never undo the persisted ticket.
		if err := s.messenger.EditEmbed(ctx, ref, ticketEmbed(saved)); err != nil {
			s.logger.WarnContext(ctx, "Ticket persisted but final render failed",
				attr.ExtractCorrelationID(ctx),
				attr.Int64("ticket_id", int64(saved.ID)),
				attr.Error(err),
			)
		}

		for _, emoji := range []string{upvoteEmoji, downvoteEmoji} {
			if err := s.messenger.React(ctx, ref, emoji); err != nil {
				s.logger.WarnContext(ctx, "Failed to add vote reaction",
					attr.Int64("ticket_id", int64(saved.ID)),
					attr.String("emoji", emoji),
					attr.Error(err),
				)
			}
		}

		s.publish(ctx, ticketevents.TicketCreatedV1, &ticketevents.TicketCreatedPayloadV1{
			GuildID:     guildID,
			TicketID:    saved.ID,
			AuthorID:    authorID,
			Description: saved.Description,
			MessageID:   saved.MessageID,
			CreatedAt:   saved.CreatedAt,
		})

		return results.SuccessResult(saved), nil
	})
}

func (s *TicketService) createFailure(ctx context.Context, guildID sharedtypes.GuildID, reason string) results.OperationResult {
	payload := &ticketevents.TicketFailedPayloadV1{
		GuildID:   guildID,
		Operation: "create_ticket",
		Reason:    reason,
	}
	s.publish(ctx, ticketevents.TicketFailedV1, payload)
	return results.FailureResult(payload)
}
