package guildhandlers

import (
	"context"
	"errors"

	guildevents "github.com/Night-Owls-Club/tavern-bot/app/events/guildevents"
	guilddb "github.com/Night-Owls-Club/tavern-bot/app/modules/guild/infrastructure/repositories"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/handlerwrapper"
)

// HandleGuildSetup handles the GuildSetupRequested event by ensuring the
// guild record exists.
func (h *GuildHandlers) HandleGuildSetup(ctx context.Context, payload *guildevents.GuildSetupRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	if payload == nil {
		return nil, errors.New("payload cannot be nil")
	}

	result, err := h.service.EnsureGuild(ctx, payload.GuildID)
	if err != nil {
		return nil, err
	}

	// The service returns the stored guild on success; the event carries only
	// the fields consumers need.
	if guild, ok := result.Success.(*guilddb.Guild); ok {
		result.Success = &guildevents.GuildReadyPayloadV1{
			GuildID:   guild.GuildID,
			CreatedAt: guild.CreatedAt,
		}
	}

	return mapOperationResult(result,
		guildevents.GuildReadyV1,
		guildevents.GuildSetupFailedV1,
	), nil
}
