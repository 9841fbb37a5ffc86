package userservice

import (
	"context"
	"errors"
	"math"

	userevents "github.com/Night-Owls-Club/tavern-bot/app/events/userevents"
	userdb "github.com/Night-Owls-Club/tavern-bot/app/modules/user/infrastructure/repositories"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/results"
	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

// XPAward is the success payload of AwardXP.
type XPAward struct {
	User     *userdb.User
	Amount   int64
	OldLevel int
	NewLevel int
}

// LevelChanged reports whether the award crossed a level boundary.
func (a *XPAward) LevelChanged() bool {
	return a.NewLevel != a.OldLevel
}

// levelForXP maps accumulated XP to a level. Each level requires
// quadratically more XP than the last (level n starts at 100*n^2 XP).
func levelForXP(xp int64) int {
	if xp <= 0 {
		return 0
	}
	return int(math.Sqrt(float64(xp)) / 10)
}

// GetOrCreateUser returns the user's economy row, creating one on first contact.
func (s *UserService) GetOrCreateUser(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (results.OperationResult, error) {
	return s.withTelemetry(ctx, "get_or_create_user", userID, func(ctx context.Context) (results.OperationResult, error) {
		if guildID == "" {
			return results.FailureResult(&userevents.XPAwardFailedPayloadV1{
				GuildID: guildID,
				UserID:  userID,
				Reason:  ErrInvalidGuildID.Error(),
			}), nil
		}
		if userID == "" {
			return results.FailureResult(&userevents.XPAwardFailedPayloadV1{
				GuildID: guildID,
				UserID:  userID,
				Reason:  ErrInvalidUserID.Error(),
			}), nil
		}

		user, err := s.repo.EnsureUser(ctx, guildID, userID)
		if err != nil {
			return results.OperationResult{}, err
		}
		return results.SuccessResult(user), nil
	})
}

// AdjustCredits applies a signed delta to the user's credits balance. The row
// is created on first contact so that a grant to a never-seen user succeeds.
func (s *UserService) AdjustCredits(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, delta int64) (results.OperationResult, error) {
	return s.withTelemetry(ctx, "adjust_credits", userID, func(ctx context.Context) (results.OperationResult, error) {
		if _, err := s.repo.EnsureUser(ctx, guildID, userID); err != nil {
			return results.OperationResult{}, err
		}

		user, err := s.repo.AddCredits(ctx, guildID, userID, delta)
		if err != nil {
			return results.OperationResult{}, err
		}

		return results.SuccessResult(&userevents.CreditsAdjustedPayloadV1{
			GuildID: guildID,
			UserID:  userID,
			Delta:   delta,
			Balance: user.Credits,
		}), nil
	})
}

// GetCredits reads the user's economy row without creating one. A user the
// store has never seen reads as a zeroed row.
func (s *UserService) GetCredits(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (results.OperationResult, error) {
	return s.withTelemetry(ctx, "get_credits", userID, func(ctx context.Context) (results.OperationResult, error) {
		user, err := s.repo.GetUser(ctx, guildID, userID)
		if err != nil {
			if errors.Is(err, userdb.ErrUserNotFound) {
				return results.SuccessResult(&userdb.User{GuildID: guildID, UserID: userID}), nil
			}
			return results.OperationResult{}, err
		}
		return results.SuccessResult(user), nil
	})
}

// ResetLevel zeroes a user's XP and level. Credits survive the reset.
func (s *UserService) ResetLevel(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (results.OperationResult, error) {
	return s.withTelemetry(ctx, "reset_level", userID, func(ctx context.Context) (results.OperationResult, error) {
		user, err := s.repo.ResetProgress(ctx, guildID, userID)
		if err != nil {
			if errors.Is(err, userdb.ErrUserNotFound) {
				return results.FailureResult(&userevents.XPAwardFailedPayloadV1{
					GuildID: guildID,
					UserID:  userID,
					Reason:  userdb.ErrUserNotFound.Error(),
				}), nil
			}
			return results.OperationResult{}, err
		}
		return results.SuccessResult(user), nil
	})
}

// AwardXP adds XP and recomputes the level from the new total.
func (s *UserService) AwardXP(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, amount int64) (results.OperationResult, error) {
	return s.withTelemetry(ctx, "award_xp", userID, func(ctx context.Context) (results.OperationResult, error) {
		if amount <= 0 {
			return results.FailureResult(&userevents.XPAwardFailedPayloadV1{
				GuildID: guildID,
				UserID:  userID,
				Reason:  ErrInvalidXPAmount.Error(),
			}), nil
		}

		before, err := s.repo.EnsureUser(ctx, guildID, userID)
		if err != nil {
			return results.OperationResult{}, err
		}

		user, err := s.repo.AddXP(ctx, guildID, userID, amount)
		if err != nil {
			return results.OperationResult{}, err
		}

		newLevel := levelForXP(user.XP)
		if newLevel != before.Level {
			if err := s.repo.SetLevel(ctx, guildID, userID, newLevel); err != nil {
				return results.OperationResult{}, err
			}
			user.Level = newLevel
		}

		return results.SuccessResult(&XPAward{
			User:     user,
			Amount:   amount,
			OldLevel: before.Level,
			NewLevel: newLevel,
		}), nil
	})
}
