package ticketservice

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	guilddb "github.com/Night-Owls-Club/tavern-bot/app/modules/guild/infrastructure/repositories"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/chat"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/eventbus"
	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

// ------------------------
// Fake guild repository
// ------------------------

// FakeGuildRepo is an in-memory guilddb.Repository with programmable overrides.
type FakeGuildRepo struct {
	trace []string

	guilds  map[sharedtypes.GuildID]*guilddb.Guild
	tickets map[sharedtypes.TicketID]*guilddb.Ticket
	nextID  sharedtypes.TicketID

	EnsureGuildFunc func(ctx context.Context, guildID sharedtypes.GuildID) (*guilddb.Guild, error)
	SaveTicketFunc  func(ctx context.Context, guildID sharedtypes.GuildID, ticket *guilddb.Ticket) (*guilddb.Ticket, error)
	FindTicketFunc  func(ctx context.Context, guildID sharedtypes.GuildID, ticketID sharedtypes.TicketID) (*guilddb.Ticket, error)
}

func NewFakeGuildRepo() *FakeGuildRepo {
	return &FakeGuildRepo{
		trace:   []string{},
		guilds:  make(map[sharedtypes.GuildID]*guilddb.Guild),
		tickets: make(map[sharedtypes.TicketID]*guilddb.Ticket),
		nextID:  1,
	}
}

func (f *FakeGuildRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeGuildRepo) record(step string) {
	f.trace = append(f.trace, step)
}

// Seed installs a guild row, and optionally tickets, ahead of a test.
func (f *FakeGuildRepo) Seed(guildID sharedtypes.GuildID, tickets ...*guilddb.Ticket) {
	f.guilds[guildID] = &guilddb.Guild{GuildID: guildID}
	for _, t := range tickets {
		if t.ID >= f.nextID {
			f.nextID = t.ID + 1
		}
		f.tickets[t.ID] = t
	}
}

// StoredTicket returns the persisted state of a ticket, or nil.
func (f *FakeGuildRepo) StoredTicket(id sharedtypes.TicketID) *guilddb.Ticket {
	return f.tickets[id]
}

func (f *FakeGuildRepo) GetGuild(ctx context.Context, guildID sharedtypes.GuildID) (*guilddb.Guild, error) {
	f.record("GetGuild")
	g, ok := f.guilds[guildID]
	if !ok {
		return nil, guilddb.ErrGuildNotFound
	}
	return g, nil
}

func (f *FakeGuildRepo) EnsureGuild(ctx context.Context, guildID sharedtypes.GuildID) (*guilddb.Guild, error) {
	f.record("EnsureGuild")
	if f.EnsureGuildFunc != nil {
		return f.EnsureGuildFunc(ctx, guildID)
	}
	if g, ok := f.guilds[guildID]; ok {
		return g, nil
	}
	g := &guilddb.Guild{GuildID: guildID}
	f.guilds[guildID] = g
	return g, nil
}

func (f *FakeGuildRepo) SaveTicket(ctx context.Context, guildID sharedtypes.GuildID, ticket *guilddb.Ticket) (*guilddb.Ticket, error) {
	f.record("SaveTicket")
	if f.SaveTicketFunc != nil {
		return f.SaveTicketFunc(ctx, guildID, ticket)
	}
	if _, ok := f.guilds[guildID]; !ok {
		return nil, guilddb.ErrGuildNotFound
	}
	if ticket.ID == 0 {
		ticket.ID = f.nextID
		f.nextID++
	}
	stored := *ticket
	f.tickets[ticket.ID] = &stored
	return &stored, nil
}

func (f *FakeGuildRepo) FindTicket(ctx context.Context, guildID sharedtypes.GuildID, ticketID sharedtypes.TicketID) (*guilddb.Ticket, error) {
	f.record("FindTicket")
	if f.FindTicketFunc != nil {
		return f.FindTicketFunc(ctx, guildID, ticketID)
	}
	t, ok := f.tickets[ticketID]
	if !ok || t.GuildID != guildID {
		return nil, guilddb.ErrTicketNotFound
	}
	copied := *t
	return &copied, nil
}

func (f *FakeGuildRepo) AddSelfAssignableRole(ctx context.Context, guildID sharedtypes.GuildID, binding *guilddb.SelfAssignableRole) error {
	f.record("AddSelfAssignableRole")
	return nil
}

func (f *FakeGuildRepo) RemoveSelfAssignableRole(ctx context.Context, guildID sharedtypes.GuildID, roleID sharedtypes.RoleID) error {
	f.record("RemoveSelfAssignableRole")
	return nil
}

func (f *FakeGuildRepo) ListSelfAssignableRoles(ctx context.Context, guildID sharedtypes.GuildID) ([]*guilddb.SelfAssignableRole, error) {
	f.record("ListSelfAssignableRoles")
	return nil, nil
}

var _ guilddb.Repository = (*FakeGuildRepo)(nil)

// ------------------------
// Fake messenger
// ------------------------

// FakeMessenger is a programmable chat.Messenger recording sent and edited
// embeds.
type FakeMessenger struct {
	trace []string

	Channels map[string]chat.ChannelRef
	Messages map[sharedtypes.MessageID]chat.MessageRef

	Sent      []chat.Embed
	Edited    []chat.Embed
	Reactions []string

	SendEmbedFunc   func(ctx context.Context, channelID sharedtypes.ChannelID, embed chat.Embed) (chat.MessageRef, error)
	EditEmbedFunc   func(ctx context.Context, ref chat.MessageRef, embed chat.Embed) error
	FindMessageFunc func(ctx context.Context, channelID sharedtypes.ChannelID, messageID sharedtypes.MessageID) (chat.MessageRef, error)
	ReactFunc       func(ctx context.Context, ref chat.MessageRef, emoji string) error

	sendCount int
}

func NewFakeMessenger() *FakeMessenger {
	return &FakeMessenger{
		trace:    []string{},
		Channels: make(map[string]chat.ChannelRef),
		Messages: make(map[sharedtypes.MessageID]chat.MessageRef),
	}
}

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
	ch, ok := f.Channels[name]
	if !ok {
		return chat.ChannelRef{}, chat.ErrChannelNotFound
	}
	return ch, nil
}

func (f *FakeMessenger) SendText(ctx context.Context, channelID sharedtypes.ChannelID, content string) error {
	f.record("SendText")
	return nil
}

func (f *FakeMessenger) SendEmbed(ctx context.Context, channelID sharedtypes.ChannelID, embed chat.Embed) (chat.MessageRef, error) {
	f.record("SendEmbed")
	if f.SendEmbedFunc != nil {
		return f.SendEmbedFunc(ctx, channelID, embed)
	}
	f.sendCount++
	f.Sent = append(f.Sent, embed)
	ref := chat.MessageRef{
		ID:        sharedtypes.MessageID(fmt.Sprintf("msg-%d", f.sendCount)),
		ChannelID: channelID,
		Editable:  true,
	}
	f.Messages[ref.ID] = ref
	return ref, nil
}

func (f *FakeMessenger) EditEmbed(ctx context.Context, ref chat.MessageRef, embed chat.Embed) error {
	f.record("EditEmbed")
	if f.EditEmbedFunc != nil {
		return f.EditEmbedFunc(ctx, ref, embed)
	}
	f.Edited = append(f.Edited, embed)
	return nil
}

func (f *FakeMessenger) FindMessage(ctx context.Context, channelID sharedtypes.ChannelID, messageID sharedtypes.MessageID) (chat.MessageRef, error) {
	f.record("FindMessage")
	if f.FindMessageFunc != nil {
		return f.FindMessageFunc(ctx, channelID, messageID)
	}
	ref, ok := f.Messages[messageID]
	if !ok {
		return chat.MessageRef{}, chat.ErrMessageNotFound
	}
	return ref, nil
}

func (f *FakeMessenger) React(ctx context.Context, ref chat.MessageRef, emoji string) error {
	f.record("React")
	if f.ReactFunc != nil {
		return f.ReactFunc(ctx, ref, emoji)
	}
	f.Reactions = append(f.Reactions, emoji)
	return nil
}

func (f *FakeMessenger) AwaitNextMatching(ctx context.Context, channelID sharedtypes.ChannelID, match func(chat.IncomingMessage) bool) (chat.IncomingMessage, error) {
	f.record("AwaitNextMatching")
	<-ctx.Done()
	return chat.IncomingMessage{}, ctx.Err()
}

var _ chat.Messenger = (*FakeMessenger)(nil)

// ------------------------
// Fake event bus
// ------------------------

// FakeEventBus records published messages keyed by topic.
type FakeEventBus struct {
	Published map[string][]*message.Message
}

func NewFakeEventBus() *FakeEventBus {
	return &FakeEventBus{Published: make(map[string][]*message.Message)}
}

func (f *FakeEventBus) Publish(topic string, messages ...*message.Message) error {
	f.Published[topic] = append(f.Published[topic], messages...)
	return nil
}

func (f *FakeEventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	ch := make(chan *message.Message)
	close(ch)
	return ch, nil
}

func (f *FakeEventBus) CreateStream(ctx context.Context, streamName string, subjects ...string) error {
	return nil
}

func (f *FakeEventBus) Close() error {
	return nil
}

var _ eventbus.EventBus = (*FakeEventBus)(nil)
