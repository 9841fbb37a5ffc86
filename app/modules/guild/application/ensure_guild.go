package guildservice

import (
	"context"
	"errors"

	guildevents "github.com/Night-Owls-Club/tavern-bot/app/events/guildevents"
	guilddb "github.com/Night-Owls-Club/tavern-bot/app/modules/guild/infrastructure/repositories"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/results"
	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

// EnsureGuild returns the guild record, creating an empty one on first use.
func (s *GuildService) EnsureGuild(ctx context.Context, guildID sharedtypes.GuildID) (results.OperationResult, error) {
	return s.withTelemetry(ctx, "ensure_guild", guildID, func(ctx context.Context) (results.OperationResult, error) {
		if guildID == "" {
			return results.FailureResult(&guildevents.GuildSetupFailedPayloadV1{
				GuildID: guildID,
				Reason:  ErrInvalidGuildID.Error(),
			}), nil
		}

		guild, err := s.repo.EnsureGuild(ctx, guildID)
		if err != nil {
			return results.OperationResult{}, err
		}

		return results.SuccessResult(guild), nil
	})
}

// LoadGuild fetches the guild with its tickets and role bindings.
func (s *GuildService) LoadGuild(ctx context.Context, guildID sharedtypes.GuildID) (results.OperationResult, error) {
	return s.withTelemetry(ctx, "load_guild", guildID, func(ctx context.Context) (results.OperationResult, error) {
		if guildID == "" {
			return results.FailureResult(&guildevents.GuildSetupFailedPayloadV1{
				GuildID: guildID,
				Reason:  ErrInvalidGuildID.Error(),
			}), nil
		}

		guild, err := s.repo.GetGuild(ctx, guildID)
		if err != nil {
			if errors.Is(err, guilddb.ErrGuildNotFound) {
				return results.FailureResult(&guildevents.GuildSetupFailedPayloadV1{
					GuildID: guildID,
					Reason:  guilddb.ErrGuildNotFound.Error(),
				}), nil
			}
			return results.OperationResult{}, err
		}

		return results.SuccessResult(guild), nil
	})
}
