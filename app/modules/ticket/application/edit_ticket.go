package ticketservice

import (
	"context"
	"errors"
	"strconv"
	"strings"

	ticketevents "github.com/Night-Owls-Club/tavern-bot/app/events/ticketevents"
	guilddb "github.com/Night-Owls-Club/tavern-bot/app/modules/guild/infrastructure/repositories"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/chat"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/results"
	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

// EditTicket updates a ticket's description and re-renders its message.
//
// Authorization requires ticket ownership or an elevated permission. The
// persist and the re-render are not transactionally linked: a description
// update can succeed while its visual reflection fails, and that divergence
// surfaces as a NotEditable failure rather than being hidden.
func (s *TicketService) EditTicket(ctx context.Context, guildID sharedtypes.GuildID, requesterID sharedtypes.DiscordID, hasElevatedPermission bool, args string) (results.OperationResult, error) {
	return s.withTelemetry(ctx, "edit_ticket", guildID, func(ctx context.Context) (results.OperationResult, error) {
		ticketID, description, ok := parseEditArgs(args)
		if !ok {
			// A malformed id resolves like a missing ticket, not a parse error.
			return s.editFailure(ctx, guildID, 0, guilddb.ErrTicketNotFound.Error()), nil
		}
		if description == "" {
			return s.editFailure(ctx, guildID, ticketID, ErrEmptyDescription.Error()), nil
		}

		ticket, err := s.repo.FindTicket(ctx, guildID, ticketID)
		if err != nil {
			if errors.Is(err, guilddb.ErrTicketNotFound) {
				return s.editFailure(ctx, guildID, ticketID, guilddb.ErrTicketNotFound.Error()), nil
			}
			return results.OperationResult{}, err
		}

		if requesterID != ticket.UserID && !hasElevatedPermission {
			return s.editFailure(ctx, guildID, ticketID, ErrForbidden.Error()), nil
		}

		channel, err := s.messenger.FindChannelByName(ctx, guildID, s.channelName)
		if err != nil {
			if errors.Is(err, chat.ErrChannelNotFound) {
				return s.editFailure(ctx, guildID, ticketID, ErrChannelNotConfigured.Error()), nil
			}
			return results.OperationResult{}, err
		}

		// The rendered message must exist before anything is mutated. Edits
		// never recreate a message that was deleted externally.
		if ticket.MessageID == "" {
			return s.editFailure(ctx, guildID, ticketID, ErrRenderedMessageMissing.Error()), nil
		}
		ref, err := s.messenger.FindMessage(ctx, channel.ID, ticket.MessageID)
		if err != nil {
			if errors.Is(err, chat.ErrMessageNotFound) {
				return s.editFailure(ctx, guildID, ticketID, ErrRenderedMessageMissing.Error()), nil
			}
			return results.OperationResult{}, err
		}

		ticket.Description = description
		saved, err := s.repo.SaveTicket(ctx, guildID, ticket)
		if err != nil {
			return results.OperationResult{}, err
		}

		s.publish(ctx, ticketevents.TicketEditedV1, &ticketevents.TicketEditedPayloadV1{
			GuildID:     guildID,
			TicketID:    saved.ID,
			EditorID:    requesterID,
			Description: saved.Description,
		})

		// Color and creation timestamp are preserved; only the description
		// line changes in the render.
		if !ref.Editable {
			return s.editFailure(ctx, guildID, ticketID, ErrNotEditable.Error()), nil
		}
		if err := s.messenger.EditEmbed(ctx, ref, ticketEmbed(saved)); err != nil {
			if errors.Is(err, chat.ErrNotEditable) {
				return s.editFailure(ctx, guildID, ticketID, ErrNotEditable.Error()), nil
			}
			return s.editFailure(ctx, guildID, ticketID, err.Error()), nil
		}

		return results.SuccessResult(saved), nil
	})
}

// parseEditArgs splits "<ticketId> <newDescription>" into its parts. The id is
// the substring up to the first space; the description is the trimmed
// remainder.
func parseEditArgs(args string) (sharedtypes.TicketID, string, bool) {
	args = strings.TrimSpace(args)
	idPart, rest, _ := strings.Cut(args, " ")
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || id <= 0 {
		return 0, "", false
	}
	return sharedtypes.TicketID(id), strings.TrimSpace(rest), true
}

func (s *TicketService) editFailure(ctx context.Context, guildID sharedtypes.GuildID, ticketID sharedtypes.TicketID, reason string) results.OperationResult {
	payload := &ticketevents.TicketFailedPayloadV1{
		GuildID:   guildID,
		TicketID:  ticketID,
		Operation: "edit_ticket",
		Reason:    reason,
	}
	s.publish(ctx, ticketevents.TicketFailedV1, payload)
	return results.FailureResult(payload)
}
