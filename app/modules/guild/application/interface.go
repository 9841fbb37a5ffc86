package guildservice

import (
	"context"

	guilddb "github.com/Night-Owls-Club/tavern-bot/app/modules/guild/infrastructure/repositories"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/results"
	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

// Service is the guild aggregate application surface.
type Service interface {
	// EnsureGuild returns the guild, creating an empty record first if needed.
	EnsureGuild(ctx context.Context, guildID sharedtypes.GuildID) (results.OperationResult, error)

	// LoadGuild fetches the guild with tickets and role bindings.
	LoadGuild(ctx context.Context, guildID sharedtypes.GuildID) (results.OperationResult, error)

	// AddSelfAssignableRole records a role binding under the guild.
	AddSelfAssignableRole(ctx context.Context, guildID sharedtypes.GuildID, roleID sharedtypes.RoleID, name string) (results.OperationResult, error)

	// RemoveSelfAssignableRole deletes a role binding.
	RemoveSelfAssignableRole(ctx context.Context, guildID sharedtypes.GuildID, roleID sharedtypes.RoleID) (results.OperationResult, error)

	// ListSelfAssignableRoles returns the guild's role bindings.
	ListSelfAssignableRoles(ctx context.Context, guildID sharedtypes.GuildID) ([]*guilddb.SelfAssignableRole, error)
}

var _ Service = (*GuildService)(nil)
