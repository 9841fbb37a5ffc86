package guildservice

import (
	"context"
	"errors"

	guilddb "github.com/Night-Owls-Club/tavern-bot/app/modules/guild/infrastructure/repositories"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/results"
	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

type roleBindingFailure struct {
	GuildID sharedtypes.GuildID `json:"guild_id"`
	RoleID  sharedtypes.RoleID  `json:"role_id"`
	Reason  string              `json:"reason"`
}

// RoleBindingRemoved is the success payload for RemoveSelfAssignableRole.
type RoleBindingRemoved struct {
	GuildID sharedtypes.GuildID `json:"guild_id"`
	RoleID  sharedtypes.RoleID  `json:"role_id"`
}

// AddSelfAssignableRole records a role binding. The guild record is created
// implicitly on first use.
func (s *GuildService) AddSelfAssignableRole(ctx context.Context, guildID sharedtypes.GuildID, roleID sharedtypes.RoleID, name string) (results.OperationResult, error) {
	return s.withTelemetry(ctx, "add_self_assignable_role", guildID, func(ctx context.Context) (results.OperationResult, error) {
		switch {
		case guildID == "":
			return results.FailureResult(&roleBindingFailure{GuildID: guildID, RoleID: roleID, Reason: ErrInvalidGuildID.Error()}), nil
		case roleID == "":
			return results.FailureResult(&roleBindingFailure{GuildID: guildID, RoleID: roleID, Reason: ErrInvalidRoleID.Error()}), nil
		case name == "":
			return results.FailureResult(&roleBindingFailure{GuildID: guildID, RoleID: roleID, Reason: ErrEmptyRoleName.Error()}), nil
		}

		if _, err := s.repo.EnsureGuild(ctx, guildID); err != nil {
			return results.OperationResult{}, err
		}

		binding := &guilddb.SelfAssignableRole{
			GuildID: guildID,
			RoleID:  roleID,
			Name:    name,
		}
		if err := s.repo.AddSelfAssignableRole(ctx, guildID, binding); err != nil {
			return results.OperationResult{}, err
		}

		return results.SuccessResult(binding), nil
	})
}

// RemoveSelfAssignableRole deletes a role binding.
func (s *GuildService) RemoveSelfAssignableRole(ctx context.Context, guildID sharedtypes.GuildID, roleID sharedtypes.RoleID) (results.OperationResult, error) {
	return s.withTelemetry(ctx, "remove_self_assignable_role", guildID, func(ctx context.Context) (results.OperationResult, error) {
		if roleID == "" {
			return results.FailureResult(&roleBindingFailure{GuildID: guildID, RoleID: roleID, Reason: ErrInvalidRoleID.Error()}), nil
		}

		err := s.repo.RemoveSelfAssignableRole(ctx, guildID, roleID)
		if err != nil {
			if errors.Is(err, guilddb.ErrRoleBindingNotFound) {
				return results.FailureResult(&roleBindingFailure{
					GuildID: guildID,
					RoleID:  roleID,
					Reason:  guilddb.ErrRoleBindingNotFound.Error(),
				}), nil
			}
			return results.OperationResult{}, err
		}

		return results.SuccessResult(&RoleBindingRemoved{GuildID: guildID, RoleID: roleID}), nil
	})
}

// ListSelfAssignableRoles returns the guild's role bindings. Plain read, no
// result envelope.
func (s *GuildService) ListSelfAssignableRoles(ctx context.Context, guildID sharedtypes.GuildID) ([]*guilddb.SelfAssignableRole, error) {
	return s.repo.ListSelfAssignableRoles(ctx, guildID)
}
