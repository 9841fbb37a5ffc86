package giveawayservice

import (
	"context"
	"errors"
	"strings"
	"time"

	giveawayevents "github.com/Night-Owls-Club/tavern-bot/app/events/giveawayevents"
	giveawaydb "github.com/Night-Owls-Club/tavern-bot/app/modules/giveaway/infrastructure/repositories"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/attr"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/results"
	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

// GiveawayFailure is the failure payload for giveaway operations.
type GiveawayFailure struct {
	GuildID    sharedtypes.GuildID `json:"guild_id"`
	GiveawayID int64               `json:"giveaway_id,omitempty"`
	Reason     string              `json:"reason"`
}

// CreateGiveaway persists a giveaway and schedules its end job. Scheduling
// failure is logged but does not undo the persisted row; the giveaway can be
// ended manually.
func (s *GiveawayService) CreateGiveaway(ctx context.Context, guildID sharedtypes.GuildID, creatorID sharedtypes.DiscordID, name, description string, endsAt time.Time) (results.OperationResult, error) {
	return s.withTelemetry(ctx, "create_giveaway", guildID, func(ctx context.Context) (results.OperationResult, error) {
		name = strings.TrimSpace(name)
		if name == "" {
			return results.FailureResult(&GiveawayFailure{GuildID: guildID, Reason: ErrEmptyName.Error()}), nil
		}
		if !endsAt.After(time.Now()) {
			return results.FailureResult(&GiveawayFailure{GuildID: guildID, Reason: ErrEndsInPast.Error()}), nil
		}

		giveaway, err := s.repo.CreateGiveaway(ctx, &giveawaydb.Giveaway{
			GuildID:     guildID,
			Name:        name,
			Description: strings.TrimSpace(description),
			CreatedBy:   creatorID,
			EndsAt:      endsAt,
		})
		if err != nil {
			return results.OperationResult{}, err
		}

		if err := s.queue.ScheduleGiveawayEnd(ctx, guildID, giveaway.ID, giveaway.Name, endsAt); err != nil {
			s.logger.ErrorContext(ctx, "Giveaway persisted but end job scheduling failed",
				attr.Int64("giveaway_id", giveaway.ID),
				attr.Error(err),
			)
		}

		s.publish(ctx, giveawayevents.GiveawayCreatedV1, &giveawayevents.GiveawayCreatedPayloadV1{
			GuildID:    guildID,
			GiveawayID: giveaway.ID,
			Name:       giveaway.Name,
			EndsAt:     giveaway.EndsAt,
		})

		return results.SuccessResult(giveaway), nil
	})
}

// EndGiveaway ends a giveaway early, cancelling its scheduled job. A non-empty
// winnerID is recorded on the row.
func (s *GiveawayService) EndGiveaway(ctx context.Context, guildID sharedtypes.GuildID, giveawayID int64, winnerID sharedtypes.DiscordID) (results.OperationResult, error) {
	return s.withTelemetry(ctx, "end_giveaway", guildID, func(ctx context.Context) (results.OperationResult, error) {
		existing, err := s.repo.GetGiveaway(ctx, guildID, giveawayID)
		if err != nil {
			if errors.Is(err, giveawaydb.ErrGiveawayNotFound) {
				return results.FailureResult(&GiveawayFailure{
					GuildID:    guildID,
					GiveawayID: giveawayID,
					Reason:     giveawaydb.ErrGiveawayNotFound.Error(),
				}), nil
			}
			return results.OperationResult{}, err
		}
		if existing.Ended {
			return results.FailureResult(&GiveawayFailure{
				GuildID:    guildID,
				GiveawayID: giveawayID,
				Reason:     ErrAlreadyEnded.Error(),
			}), nil
		}

		giveaway, err := s.repo.MarkEnded(ctx, guildID, giveawayID, winnerID)
		if err != nil {
			return results.OperationResult{}, err
		}

		if err := s.queue.CancelGiveawayJobs(ctx, giveawayID); err != nil {
			s.logger.WarnContext(ctx, "Failed to cancel scheduled end job",
				attr.Int64("giveaway_id", giveawayID),
				attr.Error(err),
			)
		}

		s.publish(ctx, giveawayevents.GiveawayEndedV1, &giveawayevents.GiveawayEndedPayloadV1{
			GuildID:    guildID,
			GiveawayID: giveaway.ID,
			Name:       giveaway.Name,
			WinnerID:   giveaway.WinnerID,
		})

		return results.SuccessResult(giveaway), nil
	})
}

// ListActiveGiveaways returns the guild's running giveaways.
func (s *GiveawayService) ListActiveGiveaways(ctx context.Context, guildID sharedtypes.GuildID) (results.OperationResult, error) {
	return s.withTelemetry(ctx, "list_active_giveaways", guildID, func(ctx context.Context) (results.OperationResult, error) {
		giveaways, err := s.repo.ListActiveGiveaways(ctx, guildID)
		if err != nil {
			return results.OperationResult{}, err
		}
		return results.SuccessResult(giveaways), nil
	})
}
