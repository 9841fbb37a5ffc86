package guilddb

import (
	"context"
	"errors"

	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

var (
	// ErrGuildNotFound indicates no guild row exists for the given ID. Callers
	// treat this as a retryable precondition failure, not a fatal error.
	ErrGuildNotFound = errors.New("guild not found")
	// ErrTicketNotFound indicates no ticket with that ID under the guild.
	ErrTicketNotFound = errors.New("ticket not found")
	// ErrRoleBindingNotFound indicates no matching self-assignable role binding.
	ErrRoleBindingNotFound = errors.New("self-assignable role not found")
)

// Repository is the guild aggregate store.
type Repository interface {
	// GetGuild fetches a guild with its tickets and role bindings eagerly
	// loaded. Pure read.
	GetGuild(ctx context.Context, guildID sharedtypes.GuildID) (*Guild, error)

	// EnsureGuild returns the existing guild or creates an empty one.
	// Idempotent under concurrent calls for the same ID.
	EnsureGuild(ctx context.Context, guildID sharedtypes.GuildID) (*Guild, error)

	// SaveTicket persists a new or modified ticket under the guild. Returns
	// ErrGuildNotFound when the guild row is missing; it never auto-creates
	// the guild on this path.
	SaveTicket(ctx context.Context, guildID sharedtypes.GuildID, ticket *Ticket) (*Ticket, error)

	// FindTicket looks a ticket up by ID within the guild.
	FindTicket(ctx context.Context, guildID sharedtypes.GuildID, ticketID sharedtypes.TicketID) (*Ticket, error)

	// AddSelfAssignableRole records a role binding under the guild.
	AddSelfAssignableRole(ctx context.Context, guildID sharedtypes.GuildID, binding *SelfAssignableRole) error

	// RemoveSelfAssignableRole deletes a role binding by role ID.
	RemoveSelfAssignableRole(ctx context.Context, guildID sharedtypes.GuildID, roleID sharedtypes.RoleID) error

	// ListSelfAssignableRoles returns all role bindings for the guild.
	ListSelfAssignableRoles(ctx context.Context, guildID sharedtypes.GuildID) ([]*SelfAssignableRole, error)
}
