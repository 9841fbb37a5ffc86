package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Night-Owls-Club/tavern-bot/app/interaction"
	guildservice "github.com/Night-Owls-Club/tavern-bot/app/modules/guild/application"
	guilddb "github.com/Night-Owls-Club/tavern-bot/app/modules/guild/infrastructure/repositories"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/chat"
	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

// RoleCommands exposes the self-assignable role commands. iam and iamnot
// disambiguate ambiguous queries through a disambiguation session.
type RoleCommands struct {
	guilds    guildservice.Service
	resolver  *interaction.Resolver
	session   *discordgo.Session
	messenger chat.Messenger
}

func NewRoleCommands(guilds guildservice.Service, resolver *interaction.Resolver, session *discordgo.Session, messenger chat.Messenger) *RoleCommands {
	return &RoleCommands{
		guilds:    guilds,
		resolver:  resolver,
		session:   session,
		messenger: messenger,
	}
}

// Register binds the role commands on the dispatcher.
func (c *RoleCommands) Register(d *Dispatcher) {
	d.Register("iam", c.IAm)
	d.Register("iamnot", c.IAmNot)
	d.Register("addselfrole", c.AddSelfRole)
	d.Register("delselfrole", c.DelSelfRole)
}

// IAm grants the member a self-assignable role matching the query.
func (c *RoleCommands) IAm(ctx context.Context, inv Invocation) error {
	return c.toggleRole(ctx, inv, true)
}

// IAmNot removes a self-assignable role matching the query.
func (c *RoleCommands) IAmNot(ctx context.Context, inv Invocation) error {
	return c.toggleRole(ctx, inv, false)
}

func (c *RoleCommands) toggleRole(ctx context.Context, inv Invocation, grant bool) error {
	query := strings.TrimSpace(inv.Args)
	if query == "" {
		usage := "Usage: iam <role name>"
		if !grant {
			usage = "Usage: iamnot <role name>"
		}
		return c.messenger.SendText(ctx, inv.ChannelID, usage)
	}

	bindings, err := c.guilds.ListSelfAssignableRoles(ctx, inv.GuildID)
	if err != nil {
		return err
	}

	candidates := matchRoleBindings(bindings, query)
	if len(candidates) == 0 {
		return c.messenger.SendText(ctx, inv.ChannelID, fmt.Sprintf("No self-assignable role matches %q.", query))
	}

	outcome, err := c.resolver.Resolve(ctx, candidates, inv.AuthorID, inv.ChannelID)
	if err != nil {
		if errors.Is(err, interaction.ErrSessionActive) {
			return c.messenger.SendText(ctx, inv.ChannelID, "Finish your pending selection first.")
		}
		return err
	}

	switch outcome.Kind {
	case interaction.OutcomeCancelled:
		return c.messenger.SendText(ctx, inv.ChannelID, "Selection cancelled.")
	case interaction.OutcomeTimedOut:
		return c.messenger.SendText(ctx, inv.ChannelID, "Selection timed out.")
	}

	role := outcome.Candidate
	if grant {
		if err := c.session.GuildMemberRoleAdd(string(inv.GuildID), string(inv.AuthorID), role.ID); err != nil {
			return fmt.Errorf("failed to grant role: %w", err)
		}
		return c.messenger.SendText(ctx, inv.ChannelID, fmt.Sprintf("You now have the %s role.", role.Name))
	}
	if err := c.session.GuildMemberRoleRemove(string(inv.GuildID), string(inv.AuthorID), role.ID); err != nil {
		return fmt.Errorf("failed to remove role: %w", err)
	}
	return c.messenger.SendText(ctx, inv.ChannelID, fmt.Sprintf("You no longer have the %s role.", role.Name))
}

// AddSelfRole records a role as self-assignable. Requires Manage Roles.
func (c *RoleCommands) AddSelfRole(ctx context.Context, inv Invocation) error {
	if !inv.Has(discordgo.PermissionManageRoles) {
		return c.messenger.SendText(ctx, inv.ChannelID, "You need Manage Roles to do that.")
	}

	roleID, name, _ := strings.Cut(strings.TrimSpace(inv.Args), " ")
	name = strings.TrimSpace(name)
	if roleID == "" || name == "" {
		return c.messenger.SendText(ctx, inv.ChannelID, "Usage: addselfrole <roleId> <name>")
	}

	result, err := c.guilds.AddSelfAssignableRole(ctx, inv.GuildID, sharedtypes.RoleID(roleID), name)
	if err != nil {
		return err
	}
	if result.Failure != nil {
		return c.messenger.SendText(ctx, inv.ChannelID, "Could not add the self-assignable role.")
	}
	return c.messenger.SendText(ctx, inv.ChannelID, fmt.Sprintf("%s is now self-assignable.", name))
}

// DelSelfRole removes a self-assignable role binding. Requires Manage Roles.
func (c *RoleCommands) DelSelfRole(ctx context.Context, inv Invocation) error {
	if !inv.Has(discordgo.PermissionManageRoles) {
		return c.messenger.SendText(ctx, inv.ChannelID, "You need Manage Roles to do that.")
	}

	roleID := strings.TrimSpace(inv.Args)
	if roleID == "" {
		return c.messenger.SendText(ctx, inv.ChannelID, "Usage: delselfrole <roleId>")
	}

	result, err := c.guilds.RemoveSelfAssignableRole(ctx, inv.GuildID, sharedtypes.RoleID(roleID))
	if err != nil {
		return err
	}
	if result.Failure != nil {
		return c.messenger.SendText(ctx, inv.ChannelID, "No self-assignable role with that id.")
	}
	return c.messenger.SendText(ctx, inv.ChannelID, "Self-assignable role removed.")
}

// matchRoleBindings filters bindings whose name contains the query,
// case-insensitively, preserving stored order.
func matchRoleBindings(bindings []*guilddb.SelfAssignableRole, query string) []interaction.Candidate {
	query = strings.ToLower(query)
	var candidates []interaction.Candidate
	for _, binding := range bindings {
		if strings.Contains(strings.ToLower(binding.Name), query) {
			candidates = append(candidates, interaction.Candidate{
				ID:   string(binding.RoleID),
				Name: binding.Name,
			})
		}
	}
	return candidates
}
