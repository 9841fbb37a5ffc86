package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	giveawayservice "github.com/Night-Owls-Club/tavern-bot/app/modules/giveaway/application"
	giveawaydb "github.com/Night-Owls-Club/tavern-bot/app/modules/giveaway/infrastructure/repositories"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/chat"
)

// GiveawayCommands exposes the giveaway commands under a single "giveaway"
// entry point with create, end, and list subcommands.
type GiveawayCommands struct {
	giveaways giveawayservice.Service
	messenger chat.Messenger
}

func NewGiveawayCommands(giveaways giveawayservice.Service, messenger chat.Messenger) *GiveawayCommands {
	return &GiveawayCommands{giveaways: giveaways, messenger: messenger}
}

// Register binds the giveaway command on the dispatcher.
func (c *GiveawayCommands) Register(d *Dispatcher) {
	d.Register("giveaway", c.Giveaway)
}

const giveawayUsage = "Usage: giveaway create <duration> <name> [| <description>], giveaway end <id> [@winner], giveaway list"

// Giveaway routes the subcommand.
func (c *GiveawayCommands) Giveaway(ctx context.Context, inv Invocation) error {
	sub, rest, _ := strings.Cut(strings.TrimSpace(inv.Args), " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(sub) {
	case "create":
		return c.create(ctx, inv, rest)
	case "end":
		return c.end(ctx, inv, rest)
	case "list":
		return c.list(ctx, inv)
	default:
		return c.messenger.SendText(ctx, inv.ChannelID, giveawayUsage)
	}
}

// create starts a giveaway ending after the given duration. Requires Manage
// Server.
func (c *GiveawayCommands) create(ctx context.Context, inv Invocation, args string) error {
	if !inv.Has(discordgo.PermissionManageGuild) {
		return c.messenger.SendText(ctx, inv.ChannelID, "You need Manage Server to do that.")
	}

	durationPart, rest, _ := strings.Cut(args, " ")
	name, description, _ := strings.Cut(rest, "|")
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	duration, err := time.ParseDuration(durationPart)
	if err != nil || name == "" {
		return c.messenger.SendText(ctx, inv.ChannelID, "Usage: giveaway create <duration> <name> [| <description>]  Ex.: giveaway create 24h Nitro")
	}

	result, err := c.giveaways.CreateGiveaway(ctx, inv.GuildID, inv.AuthorID, name, description, time.Now().Add(duration))
	if err != nil {
		return err
	}
	if failure, ok := result.Failure.(*giveawayservice.GiveawayFailure); ok {
		return c.messenger.SendText(ctx, inv.ChannelID, fmt.Sprintf("Could not create the giveaway: %s.", failure.Reason))
	}

	giveaway, ok := result.Success.(*giveawaydb.Giveaway)
	if !ok {
		return fmt.Errorf("unexpected giveaway payload %T", result.Success)
	}
	return c.messenger.SendText(ctx, inv.ChannelID,
		fmt.Sprintf("Giveaway #%d %q started, ends %s.", giveaway.ID, giveaway.Name, giveaway.EndsAt.UTC().Format(time.RFC1123)))
}

// end stops a giveaway early, optionally recording a winner. Requires
// Manage Server.
func (c *GiveawayCommands) end(ctx context.Context, inv Invocation, args string) error {
	if !inv.Has(discordgo.PermissionManageGuild) {
		return c.messenger.SendText(ctx, inv.ChannelID, "You need Manage Server to do that.")
	}

	idPart, winnerPart, _ := strings.Cut(strings.TrimSpace(args), " ")
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || id <= 0 {
		return c.messenger.SendText(ctx, inv.ChannelID, "Usage: giveaway end <id> [@winner]")
	}
	winnerID := parseUserMention(winnerPart)

	result, err := c.giveaways.EndGiveaway(ctx, inv.GuildID, id, winnerID)
	if err != nil {
		return err
	}
	if failure, ok := result.Failure.(*giveawayservice.GiveawayFailure); ok {
		return c.messenger.SendText(ctx, inv.ChannelID, fmt.Sprintf("Could not end the giveaway: %s.", failure.Reason))
	}

	giveaway, ok := result.Success.(*giveawaydb.Giveaway)
	if !ok {
		return fmt.Errorf("unexpected giveaway payload %T", result.Success)
	}
	if giveaway.WinnerID != "" {
		return c.messenger.SendText(ctx, inv.ChannelID,
			fmt.Sprintf("Giveaway #%d %q ended. Winner: <@%s>.", giveaway.ID, giveaway.Name, giveaway.WinnerID))
	}
	return c.messenger.SendText(ctx, inv.ChannelID, fmt.Sprintf("Giveaway #%d %q ended.", giveaway.ID, giveaway.Name))
}

// list shows the guild's running giveaways.
func (c *GiveawayCommands) list(ctx context.Context, inv Invocation) error {
	result, err := c.giveaways.ListActiveGiveaways(ctx, inv.GuildID)
	if err != nil {
		return err
	}

	giveaways, ok := result.Success.([]*giveawaydb.Giveaway)
	if !ok {
		return fmt.Errorf("unexpected giveaway list payload %T", result.Success)
	}
	if len(giveaways) == 0 {
		return c.messenger.SendText(ctx, inv.ChannelID, "No giveaways are running.")
	}

	var b strings.Builder
	for _, g := range giveaways {
		fmt.Fprintf(&b, "#%d %s, ends %s\n", g.ID, g.Name, g.EndsAt.UTC().Format(time.RFC1123))
	}
	return c.messenger.SendText(ctx, inv.ChannelID, strings.TrimRight(b.String(), "\n"))
}
