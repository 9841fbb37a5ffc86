// Package discord adapts the chat transport contract onto discordgo. The
// core modules only see the chat.Messenger interface.
package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Night-Owls-Club/tavern-bot/app/shared/chat"
	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

// Messenger implements chat.Messenger on a discordgo session.
type Messenger struct {
	session *discordgo.Session
	logger  *slog.Logger

	mu       sync.Mutex
	awaiters []*awaiter
}

type awaiter struct {
	channelID sharedtypes.ChannelID
	match     func(chat.IncomingMessage) bool
	delivery  chan chat.IncomingMessage
	done      bool
}

// NewMessenger wraps a session. The returned Messenger registers a
// MessageCreate handler to feed listening windows; callers own session
// lifecycle.
func NewMessenger(session *discordgo.Session, logger *slog.Logger) *Messenger {
	m := &Messenger{
		session: session,
		logger:  logger,
	}
	session.AddHandler(m.handleMessageCreate)
	return m
}

var _ chat.Messenger = (*Messenger)(nil)

func (m *Messenger) FindChannelByName(ctx context.Context, guildID sharedtypes.GuildID, name string) (chat.ChannelRef, error) {
	channels, err := m.session.GuildChannels(string(guildID))
	if err != nil {
		return chat.ChannelRef{}, fmt.Errorf("failed to list channels for guild %s: %w", guildID, err)
	}
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildText && strings.EqualFold(ch.Name, name) {
			return chat.ChannelRef{ID: sharedtypes.ChannelID(ch.ID), Name: ch.Name}, nil
		}
	}
	return chat.ChannelRef{}, chat.ErrChannelNotFound
}

func (m *Messenger) SendText(ctx context.Context, channelID sharedtypes.ChannelID, content string) error {
	if _, err := m.session.ChannelMessageSend(string(channelID), content); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func (m *Messenger) SendEmbed(ctx context.Context, channelID sharedtypes.ChannelID, embed chat.Embed) (chat.MessageRef, error) {
	msg, err := m.session.ChannelMessageSendEmbed(string(channelID), toDiscordEmbed(embed))
	if err != nil {
		return chat.MessageRef{}, fmt.Errorf("failed to send embed: %w", err)
	}
	return chat.MessageRef{
		ID:        sharedtypes.MessageID(msg.ID),
		ChannelID: channelID,
		Editable:  true, // the bot just authored it
	}, nil
}

func (m *Messenger) EditEmbed(ctx context.Context, ref chat.MessageRef, embed chat.Embed) error {
	if !ref.Editable {
		return chat.ErrNotEditable
	}
	_, err := m.session.ChannelMessageEditEmbed(string(ref.ChannelID), string(ref.ID), toDiscordEmbed(embed))
	if err != nil {
		var restErr *discordgo.RESTError
		if errors.As(err, &restErr) && restErr.Message != nil &&
			restErr.Message.Code == discordgo.ErrCodeCannotEditFromAnotherUser {
			return chat.ErrNotEditable
		}
		return fmt.Errorf("failed to edit embed: %w", err)
	}
	return nil
}

func (m *Messenger) FindMessage(ctx context.Context, channelID sharedtypes.ChannelID, messageID sharedtypes.MessageID) (chat.MessageRef, error) {
	msg, err := m.session.ChannelMessage(string(channelID), string(messageID))
	if err != nil {
		var restErr *discordgo.RESTError
		if errors.As(err, &restErr) && restErr.Message != nil &&
			restErr.Message.Code == discordgo.ErrCodeUnknownMessage {
			return chat.MessageRef{}, chat.ErrMessageNotFound
		}
		return chat.MessageRef{}, fmt.Errorf("failed to fetch message: %w", err)
	}

	editable := m.session.State != nil && m.session.State.User != nil &&
		msg.Author != nil && msg.Author.ID == m.session.State.User.ID
	return chat.MessageRef{
		ID:        sharedtypes.MessageID(msg.ID),
		ChannelID: channelID,
		Editable:  editable,
	}, nil
}

func (m *Messenger) React(ctx context.Context, ref chat.MessageRef, emoji string) error {
	if err := m.session.MessageReactionAdd(string(ref.ChannelID), string(ref.ID), emoji); err != nil {
		return fmt.Errorf("failed to add reaction: %w", err)
	}
	return nil
}

// AwaitNextMatching registers a single-shot listening window on the channel.
// The first matching message resolves it; the window never accepts a second.
func (m *Messenger) AwaitNextMatching(ctx context.Context, channelID sharedtypes.ChannelID, match func(chat.IncomingMessage) bool) (chat.IncomingMessage, error) {
	w := &awaiter{
		channelID: channelID,
		match:     match,
		delivery:  make(chan chat.IncomingMessage, 1),
	}

	m.mu.Lock()
	m.awaiters = append(m.awaiters, w)
	m.mu.Unlock()

	defer m.removeAwaiter(w)

	select {
	case msg := <-w.delivery:
		return msg, nil
	case <-ctx.Done():
		return chat.IncomingMessage{}, ctx.Err()
	}
}

func (m *Messenger) removeAwaiter(w *awaiter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, candidate := range m.awaiters {
		if candidate == w {
			m.awaiters = append(m.awaiters[:i], m.awaiters[i+1:]...)
			return
		}
	}
}

func (m *Messenger) handleMessageCreate(s *discordgo.Session, event *discordgo.MessageCreate) {
	if event.Author == nil || (s.State != nil && s.State.User != nil && event.Author.ID == s.State.User.ID) {
		return
	}

	incoming := chat.IncomingMessage{
		ID:        sharedtypes.MessageID(event.ID),
		ChannelID: sharedtypes.ChannelID(event.ChannelID),
		AuthorID:  sharedtypes.DiscordID(event.Author.ID),
		Content:   event.Content,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.awaiters {
		if w.done || w.channelID != incoming.ChannelID || !w.match(incoming) {
			continue
		}
		w.done = true
		w.delivery <- incoming
	}
}

// toDiscordEmbed converts the transport-neutral embed payload.
func toDiscordEmbed(embed chat.Embed) *discordgo.MessageEmbed {
	out := &discordgo.MessageEmbed{
		Title:       embed.Title,
		Description: embed.Description,
		Color:       parseHexColor(embed.Color),
	}
	if embed.Author != "" {
		out.Author = &discordgo.MessageEmbedAuthor{Name: embed.Author}
	}
	if embed.Footer != "" {
		out.Footer = &discordgo.MessageEmbedFooter{Text: embed.Footer}
	}
	if !embed.Timestamp.IsZero() {
		out.Timestamp = embed.Timestamp.Format(time.RFC3339)
	}
	for _, field := range embed.Fields {
		out.Fields = append(out.Fields, &discordgo.MessageEmbedField{
			Name:   field.Name,
			Value:  field.Value,
			Inline: field.Inline,
		})
	}
	return out
}

// parseHexColor converts "#rrggbb" to the int Discord expects. Unparseable
// values fall back to 0 (no color bar).
func parseHexColor(hex string) int {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if hex == "" {
		return 0
	}
	value, err := strconv.ParseInt(hex, 16, 32)
	if err != nil {
		return 0
	}
	return int(value)
}
