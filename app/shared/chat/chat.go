// Package chat defines the transport contract the bot core depends on. The
// Discord adapter implements Messenger; the core never imports the transport
// library directly.
package chat

import (
	"context"
	"errors"
	"time"

	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

var (
	// ErrChannelNotFound indicates a named channel lookup failed.
	ErrChannelNotFound = errors.New("channel not found")
	// ErrMessageNotFound indicates a rendered message could not be located.
	ErrMessageNotFound = errors.New("message not found")
	// ErrNotEditable indicates the transport refuses to edit the message.
	ErrNotEditable = errors.New("message not editable")
)

// ChannelRef identifies a channel on the transport.
type ChannelRef struct {
	ID   sharedtypes.ChannelID
	Name string
}

// MessageRef identifies a rendered message on the transport.
type MessageRef struct {
	ID        sharedtypes.MessageID
	ChannelID sharedtypes.ChannelID
	Editable  bool
}

// IncomingMessage is a message observed on a channel during a listening window.
type IncomingMessage struct {
	ID        sharedtypes.MessageID
	ChannelID sharedtypes.ChannelID
	AuthorID  sharedtypes.DiscordID
	Content   string
}

// EmbedField is one titled field of a rendered embed.
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// Embed is the opaque structured rendering payload passed through to the
// transport unchanged.
type Embed struct {
	Author      string
	Title       string
	Description string
	Footer      string
	Color       string // hex, e.g. "#ff0000"
	Fields      []EmbedField
	Timestamp   time.Time
}

// Messenger is the outbound/await surface consumed by the core.
type Messenger interface {
	// FindChannelByName locates a text channel by name within a guild.
	FindChannelByName(ctx context.Context, guildID sharedtypes.GuildID, name string) (ChannelRef, error)

	// SendText sends a plain text message, fire-and-observe.
	SendText(ctx context.Context, channelID sharedtypes.ChannelID, content string) error

	// SendEmbed renders a structured message and returns its reference.
	SendEmbed(ctx context.Context, channelID sharedtypes.ChannelID, embed Embed) (MessageRef, error)

	// EditEmbed replaces the structured content of an existing message.
	EditEmbed(ctx context.Context, ref MessageRef, embed Embed) error

	// FindMessage locates an existing message by ID within a channel.
	FindMessage(ctx context.Context, channelID sharedtypes.ChannelID, messageID sharedtypes.MessageID) (MessageRef, error)

	// React adds an emoji reaction, best effort.
	React(ctx context.Context, ref MessageRef, emoji string) error

	// AwaitNextMatching blocks until a message matching the predicate arrives
	// on the channel or ctx expires. It accepts at most one message.
	AwaitNextMatching(ctx context.Context, channelID sharedtypes.ChannelID, match func(IncomingMessage) bool) (IncomingMessage, error)
}
