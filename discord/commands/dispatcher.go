// Package commands implements the prefix command surface. The dispatcher
// parses incoming messages, applies per-user throttling, and hands the
// invocation to the registered handler.
package commands

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/Night-Owls-Club/tavern-bot/app/shared/attr"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/chat"
	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

const (
	// throttleBurst and throttleWindow bound command usage to two
	// invocations per user per command within the window.
	throttleBurst  = 2
	throttleWindow = 3 * time.Second

	// commandTimeout caps a single invocation, including any disambiguation
	// session it opens.
	commandTimeout = 2 * time.Minute
)

// Invocation is one parsed command from a guild member.
type Invocation struct {
	GuildID     sharedtypes.GuildID
	ChannelID   sharedtypes.ChannelID
	AuthorID    sharedtypes.DiscordID
	Name        string
	Args        string
	Permissions int64
}

// Has reports whether the invoker holds the permission in the channel.
// Administrators pass every check.
func (inv Invocation) Has(perm int64) bool {
	return inv.Permissions&perm != 0 || inv.Permissions&discordgo.PermissionAdministrator != 0
}

// HandlerFunc handles one invocation. A returned error is an infrastructure
// failure; domain outcomes are reported to the channel by the handler itself.
type HandlerFunc func(ctx context.Context, inv Invocation) error

// Dispatcher routes prefix commands to handlers.
type Dispatcher struct {
	ctx       context.Context
	prefix    string
	session   *discordgo.Session
	messenger chat.Messenger
	logger    *slog.Logger
	throttle  *throttle

	mu       sync.RWMutex
	handlers map[string]HandlerFunc
}

// NewDispatcher creates a dispatcher and registers its MessageCreate handler
// on the session. ctx bounds the lifetime of all dispatched commands.
func NewDispatcher(ctx context.Context, session *discordgo.Session, messenger chat.Messenger, logger *slog.Logger, prefix string) *Dispatcher {
	d := &Dispatcher{
		ctx:       ctx,
		prefix:    prefix,
		session:   session,
		messenger: messenger,
		logger:    logger,
		throttle:  newThrottle(throttleWindow, throttleBurst),
		handlers:  make(map[string]HandlerFunc),
	}
	session.AddHandler(d.handleMessageCreate)
	return d
}

// Register binds a handler to a command name. Names are matched
// case-insensitively.
func (d *Dispatcher) Register(name string, handler HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[strings.ToLower(name)] = handler
}

func (d *Dispatcher) handleMessageCreate(s *discordgo.Session, event *discordgo.MessageCreate) {
	if event.Author == nil || event.Author.Bot || event.GuildID == "" {
		return
	}

	name, args, ok := parseCommand(d.prefix, event.Content)
	if !ok {
		return
	}

	perms, err := s.UserChannelPermissions(event.Author.ID, event.ChannelID)
	if err != nil {
		perms = 0
	}

	inv := Invocation{
		GuildID:     sharedtypes.GuildID(event.GuildID),
		ChannelID:   sharedtypes.ChannelID(event.ChannelID),
		AuthorID:    sharedtypes.DiscordID(event.Author.ID),
		Name:        name,
		Args:        args,
		Permissions: perms,
	}

	// Handlers can block on a listening window, so each invocation gets its
	// own goroutine.
	go d.Dispatch(d.ctx, inv)
}

// Dispatch runs the handler for the invocation, enforcing the throttle.
// Unknown commands and throttled invocations are dropped silently.
func (d *Dispatcher) Dispatch(ctx context.Context, inv Invocation) {
	d.mu.RLock()
	handler, ok := d.handlers[inv.Name]
	d.mu.RUnlock()
	if !ok {
		return
	}

	if !d.throttle.Allow(string(inv.AuthorID), inv.Name) {
		d.logger.DebugContext(ctx, "Command throttled",
			attr.String("command", inv.Name),
			attr.String("user_id", string(inv.AuthorID)),
		)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	// Events published while handling this invocation inherit the ID.
	ctx = attr.WithCorrelationID(ctx, uuid.NewString())

	if err := handler(ctx, inv); err != nil {
		d.logger.ErrorContext(ctx, "Command failed",
			attr.String("command", inv.Name),
			attr.String("guild_id", string(inv.GuildID)),
			attr.String("user_id", string(inv.AuthorID)),
			attr.Error(err),
		)
		_ = d.messenger.SendText(ctx, inv.ChannelID, "Something went wrong running that command.")
	}
}

// parseCommand splits "<prefix><name> <args>" into its parts. Content without
// the prefix, or a bare prefix, is not a command.
func parseCommand(prefix, content string) (name, args string, ok bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", "", false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(content, prefix))
	if rest == "" {
		return "", "", false
	}
	name, args, _ = strings.Cut(rest, " ")
	return strings.ToLower(name), strings.TrimSpace(args), true
}
