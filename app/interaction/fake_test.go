package interaction

import (
	"context"

	"github.com/Night-Owls-Club/tavern-bot/app/shared/chat"
	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

// ------------------------
// Fake Messenger
// ------------------------

// FakeMessenger provides a programmable stub for the chat.Messenger interface.
type FakeMessenger struct {
	trace []string

	// Incoming is the scripted message feed consumed by AwaitNextMatching.
	// Messages failing the predicate are skipped; if none match, the await
	// blocks until the context expires.
	Incoming []chat.IncomingMessage

	FindChannelByNameFunc func(ctx context.Context, guildID sharedtypes.GuildID, name string) (chat.ChannelRef, error)
	AwaitNextMatchingFunc func(ctx context.Context, channelID sharedtypes.ChannelID, match func(chat.IncomingMessage) bool) (chat.IncomingMessage, error)
	SendTextFunc          func(ctx context.Context, channelID sharedtypes.ChannelID, content string) error
	SendEmbedFunc         func(ctx context.Context, channelID sharedtypes.ChannelID, embed chat.Embed) (chat.MessageRef, error)
	EditEmbedFunc         func(ctx context.Context, ref chat.MessageRef, embed chat.Embed) error
	FindMessageFunc       func(ctx context.Context, channelID sharedtypes.ChannelID, messageID sharedtypes.MessageID) (chat.MessageRef, error)
	ReactFunc             func(ctx context.Context, ref chat.MessageRef, emoji string) error
}

// NewFakeMessenger initializes a new FakeMessenger with an empty trace.
func NewFakeMessenger() *FakeMessenger {
	return &FakeMessenger{trace: []string{}}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeMessenger) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeMessenger) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeMessenger) FindChannelByName(ctx context.Context, guildID sharedtypes.GuildID, name string) (chat.ChannelRef, error) {
	f.record("FindChannelByName")
	if f.FindChannelByNameFunc != nil {
		return f.FindChannelByNameFunc(ctx, guildID, name)
	}
	return chat.ChannelRef{}, chat.ErrChannelNotFound
}

func (f *FakeMessenger) SendText(ctx context.Context, channelID sharedtypes.ChannelID, content string) error {
	f.record("SendText")
	if f.SendTextFunc != nil {
		return f.SendTextFunc(ctx, channelID, content)
	}
	return nil
}

func (f *FakeMessenger) SendEmbed(ctx context.Context, channelID sharedtypes.ChannelID, embed chat.Embed) (chat.MessageRef, error) {
	f.record("SendEmbed")
	if f.SendEmbedFunc != nil {
		return f.SendEmbedFunc(ctx, channelID, embed)
	}
	return chat.MessageRef{ID: "listing-1", ChannelID: channelID, Editable: true}, nil
}

func (f *FakeMessenger) EditEmbed(ctx context.Context, ref chat.MessageRef, embed chat.Embed) error {
	f.record("EditEmbed")
	if f.EditEmbedFunc != nil {
		return f.EditEmbedFunc(ctx, ref, embed)
	}
	return nil
}

func (f *FakeMessenger) FindMessage(ctx context.Context, channelID sharedtypes.ChannelID, messageID sharedtypes.MessageID) (chat.MessageRef, error) {
	f.record("FindMessage")
	if f.FindMessageFunc != nil {
		return f.FindMessageFunc(ctx, channelID, messageID)
	}
	return chat.MessageRef{}, chat.ErrMessageNotFound
}

func (f *FakeMessenger) React(ctx context.Context, ref chat.MessageRef, emoji string) error {
	f.record("React")
	if f.ReactFunc != nil {
		return f.ReactFunc(ctx, ref, emoji)
	}
	return nil
}

func (f *FakeMessenger) AwaitNextMatching(ctx context.Context, channelID sharedtypes.ChannelID, match func(chat.IncomingMessage) bool) (chat.IncomingMessage, error) {
	f.record("AwaitNextMatching")
	if f.AwaitNextMatchingFunc != nil {
		return f.AwaitNextMatchingFunc(ctx, channelID, match)
	}
	for _, m := range f.Incoming {
		if m.ChannelID != channelID {
			continue
		}
		if match(m) {
			return m, nil
		}
	}
	<-ctx.Done()
	return chat.IncomingMessage{}, ctx.Err()
}

// Ensure the fake actually satisfies the interface
var _ chat.Messenger = (*FakeMessenger)(nil)
