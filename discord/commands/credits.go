package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	userevents "github.com/Night-Owls-Club/tavern-bot/app/events/userevents"
	userservice "github.com/Night-Owls-Club/tavern-bot/app/modules/user/application"
	userdb "github.com/Night-Owls-Club/tavern-bot/app/modules/user/infrastructure/repositories"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/chat"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/results"
	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

// UserCommands exposes the economy commands.
type UserCommands struct {
	users     userservice.Service
	messenger chat.Messenger
}

func NewUserCommands(users userservice.Service, messenger chat.Messenger) *UserCommands {
	return &UserCommands{users: users, messenger: messenger}
}

// Register binds the economy commands on the dispatcher.
func (c *UserCommands) Register(d *Dispatcher) {
	d.Register("credits", c.Credits)
	d.Register("givecredits", c.GiveCredits)
	d.Register("resetlevel", c.ResetLevel)
}

// Credits shows a member's balance, XP, and level. With no argument it shows
// the invoker's own row, creating it on first contact; looking up another
// member is a pure read.
func (c *UserCommands) Credits(ctx context.Context, inv Invocation) error {
	var (
		result results.OperationResult
		err    error
	)
	if target := parseUserMention(inv.Args); target != "" {
		result, err = c.users.GetCredits(ctx, inv.GuildID, target)
	} else {
		result, err = c.users.GetOrCreateUser(ctx, inv.GuildID, inv.AuthorID)
	}
	if err != nil {
		return err
	}
	if result.Failure != nil {
		return c.messenger.SendText(ctx, inv.ChannelID, "Could not look up that balance.")
	}

	user, ok := result.Success.(*userdb.User)
	if !ok {
		return fmt.Errorf("unexpected user payload %T", result.Success)
	}
	return c.messenger.SendText(ctx, inv.ChannelID,
		fmt.Sprintf("Credits: %d | XP: %d (level %d)", user.Credits, user.XP, user.Level))
}

// ResetLevel zeroes a member's XP and level. Requires Administrator.
func (c *UserCommands) ResetLevel(ctx context.Context, inv Invocation) error {
	if !inv.Has(discordgo.PermissionAdministrator) {
		return c.messenger.SendText(ctx, inv.ChannelID, "You need Administrator to do that.")
	}

	targetID := parseUserMention(inv.Args)
	if targetID == "" {
		return c.messenger.SendText(ctx, inv.ChannelID, "Usage: resetlevel <@member>")
	}

	result, err := c.users.ResetLevel(ctx, inv.GuildID, targetID)
	if err != nil {
		return err
	}
	if result.Failure != nil {
		return c.messenger.SendText(ctx, inv.ChannelID, "That member has no progress to reset.")
	}

	user, ok := result.Success.(*userdb.User)
	if !ok {
		return fmt.Errorf("unexpected user payload %T", result.Success)
	}
	return c.messenger.SendText(ctx, inv.ChannelID,
		fmt.Sprintf("Reset <@%s> to level %d. Credits kept: %d.", user.UserID, user.Level, user.Credits))
}

// GiveCredits applies a signed credit delta to a member. Requires
// Administrator.
func (c *UserCommands) GiveCredits(ctx context.Context, inv Invocation) error {
	if !inv.Has(discordgo.PermissionAdministrator) {
		return c.messenger.SendText(ctx, inv.ChannelID, "You need Administrator to do that.")
	}

	target, deltaPart, _ := strings.Cut(strings.TrimSpace(inv.Args), " ")
	targetID := parseUserMention(target)
	delta, err := strconv.ParseInt(strings.TrimSpace(deltaPart), 10, 64)
	if targetID == "" || err != nil || delta == 0 {
		return c.messenger.SendText(ctx, inv.ChannelID, "Usage: givecredits <@member> <amount>")
	}

	result, err := c.users.AdjustCredits(ctx, inv.GuildID, targetID, delta)
	if err != nil {
		return err
	}
	if result.Failure != nil {
		return c.messenger.SendText(ctx, inv.ChannelID, "Could not adjust that member's credits.")
	}

	adjusted, ok := result.Success.(*userevents.CreditsAdjustedPayloadV1)
	if !ok {
		return fmt.Errorf("unexpected credits payload %T", result.Success)
	}
	return c.messenger.SendText(ctx, inv.ChannelID,
		fmt.Sprintf("Adjusted <@%s> by %+d credits. New balance: %d.", adjusted.UserID, adjusted.Delta, adjusted.Balance))
}

// parseUserMention accepts "<@id>", "<@!id>", or a bare snowflake.
func parseUserMention(s string) sharedtypes.DiscordID {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "<@"), ">")
	s = strings.TrimPrefix(s, "!")
	if s == "" {
		return ""
	}
	if _, err := strconv.ParseUint(s, 10, 64); err != nil {
		return ""
	}
	return sharedtypes.DiscordID(s)
}
