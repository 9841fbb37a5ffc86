package userhandlers

import (
	"context"
	"errors"

	ticketevents "github.com/Night-Owls-Club/tavern-bot/app/events/ticketevents"
	userevents "github.com/Night-Owls-Club/tavern-bot/app/events/userevents"
	userservice "github.com/Night-Owls-Club/tavern-bot/app/modules/user/application"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/handlerwrapper"
)

// XPPerTicket is the XP granted for submitting a suggestion ticket.
const XPPerTicket = 25

// HandleTicketCreated awards XP to a ticket's author. A LevelChanged event is
// appended when the award crosses a level boundary.
func (h *UserHandlers) HandleTicketCreated(ctx context.Context, payload *ticketevents.TicketCreatedPayloadV1) ([]handlerwrapper.Result, error) {
	if payload == nil {
		return nil, errors.New("payload cannot be nil")
	}

	result, err := h.service.AwardXP(ctx, payload.GuildID, payload.AuthorID, XPPerTicket)
	if err != nil {
		return nil, err
	}

	award, ok := result.Success.(*userservice.XPAward)
	if !ok {
		return mapOperationResult(result,
			userevents.XPAwardedV1,
			userevents.XPAwardFailedV1,
		), nil
	}

	out := []handlerwrapper.Result{{
		Topic: userevents.XPAwardedV1,
		Payload: &userevents.XPAwardedPayloadV1{
			GuildID: payload.GuildID,
			UserID:  payload.AuthorID,
			Amount:  award.Amount,
			TotalXP: award.User.XP,
		},
	}}

	if award.LevelChanged() {
		out = append(out, handlerwrapper.Result{
			Topic: userevents.LevelChangedV1,
			Payload: &userevents.LevelChangedPayloadV1{
				GuildID:  payload.GuildID,
				UserID:   payload.AuthorID,
				OldLevel: award.OldLevel,
				NewLevel: award.NewLevel,
			},
		})
	}

	return out, nil
}
