package userhandlers

import (
	"context"

	ticketevents "github.com/Night-Owls-Club/tavern-bot/app/events/ticketevents"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/handlerwrapper"
)

// Handlers is the user event handler surface.
type Handlers interface {
	HandleTicketCreated(ctx context.Context, payload *ticketevents.TicketCreatedPayloadV1) ([]handlerwrapper.Result, error)
}

var _ Handlers = (*UserHandlers)(nil)
