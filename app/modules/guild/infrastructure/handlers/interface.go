package guildhandlers

import (
	"context"

	guildevents "github.com/Night-Owls-Club/tavern-bot/app/events/guildevents"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/handlerwrapper"
)

// Handlers is the guild event handler surface.
type Handlers interface {
	HandleGuildSetup(ctx context.Context, payload *guildevents.GuildSetupRequestedPayloadV1) ([]handlerwrapper.Result, error)
}

var _ Handlers = (*GuildHandlers)(nil)
