package commands

import (
	"context"
	"sync"
	"time"

	guilddb "github.com/Night-Owls-Club/tavern-bot/app/modules/guild/infrastructure/repositories"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/chat"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/results"
	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

// fakeMessenger records sent text and serves canned replies to listening
// windows.
type fakeMessenger struct {
	mu   sync.Mutex
	Sent []string

	// Replies are returned by AwaitNextMatching in order once they pass the
	// predicate. An empty queue blocks until ctx expires.
	Replies []chat.IncomingMessage
}

var _ chat.Messenger = (*fakeMessenger)(nil)

func (f *fakeMessenger) FindChannelByName(ctx context.Context, guildID sharedtypes.GuildID, name string) (chat.ChannelRef, error) {
	return chat.ChannelRef{ID: "chan-1", Name: name}, nil
}

func (f *fakeMessenger) SendText(ctx context.Context, channelID sharedtypes.ChannelID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sent = append(f.Sent, content)
	return nil
}

func (f *fakeMessenger) SendEmbed(ctx context.Context, channelID sharedtypes.ChannelID, embed chat.Embed) (chat.MessageRef, error) {
	return chat.MessageRef{ID: "msg-1", ChannelID: channelID, Editable: true}, nil
}

func (f *fakeMessenger) EditEmbed(ctx context.Context, ref chat.MessageRef, embed chat.Embed) error {
	return nil
}

func (f *fakeMessenger) FindMessage(ctx context.Context, channelID sharedtypes.ChannelID, messageID sharedtypes.MessageID) (chat.MessageRef, error) {
	return chat.MessageRef{ID: messageID, ChannelID: channelID, Editable: true}, nil
}

func (f *fakeMessenger) React(ctx context.Context, ref chat.MessageRef, emoji string) error {
	return nil
}

func (f *fakeMessenger) AwaitNextMatching(ctx context.Context, channelID sharedtypes.ChannelID, match func(chat.IncomingMessage) bool) (chat.IncomingMessage, error) {
	f.mu.Lock()
	replies := f.Replies
	f.Replies = nil
	f.mu.Unlock()

	for _, reply := range replies {
		if match(reply) {
			return reply, nil
		}
	}
	<-ctx.Done()
	return chat.IncomingMessage{}, ctx.Err()
}

func (f *fakeMessenger) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Sent...)
}

// fakeTicketService programs CreateTicket and EditTicket per test.
type fakeTicketService struct {
	CreateTicketFunc func(ctx context.Context, guildID sharedtypes.GuildID, authorID sharedtypes.DiscordID, authorColor, description string) (results.OperationResult, error)
	EditTicketFunc   func(ctx context.Context, guildID sharedtypes.GuildID, requesterID sharedtypes.DiscordID, hasElevatedPermission bool, args string) (results.OperationResult, error)
}

func (f *fakeTicketService) CreateTicket(ctx context.Context, guildID sharedtypes.GuildID, authorID sharedtypes.DiscordID, authorColor, description string) (results.OperationResult, error) {
	return f.CreateTicketFunc(ctx, guildID, authorID, authorColor, description)
}

func (f *fakeTicketService) EditTicket(ctx context.Context, guildID sharedtypes.GuildID, requesterID sharedtypes.DiscordID, hasElevatedPermission bool, args string) (results.OperationResult, error) {
	return f.EditTicketFunc(ctx, guildID, requesterID, hasElevatedPermission, args)
}

// fakeUserService programs the economy surface per test.
type fakeUserService struct {
	GetOrCreateUserFunc func(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (results.OperationResult, error)
	AdjustCreditsFunc   func(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, delta int64) (results.OperationResult, error)
	GetCreditsFunc      func(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (results.OperationResult, error)
	ResetLevelFunc      func(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (results.OperationResult, error)
}

func (f *fakeUserService) GetOrCreateUser(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (results.OperationResult, error) {
	return f.GetOrCreateUserFunc(ctx, guildID, userID)
}

func (f *fakeUserService) AdjustCredits(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, delta int64) (results.OperationResult, error) {
	return f.AdjustCreditsFunc(ctx, guildID, userID, delta)
}

func (f *fakeUserService) AwardXP(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, amount int64) (results.OperationResult, error) {
	return results.OperationResult{}, nil
}

func (f *fakeUserService) GetCredits(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (results.OperationResult, error) {
	return f.GetCreditsFunc(ctx, guildID, userID)
}

func (f *fakeUserService) ResetLevel(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (results.OperationResult, error) {
	return f.ResetLevelFunc(ctx, guildID, userID)
}

// fakeGiveawayService programs the giveaway surface per test.
type fakeGiveawayService struct {
	CreateGiveawayFunc      func(ctx context.Context, guildID sharedtypes.GuildID, creatorID sharedtypes.DiscordID, name, description string, endsAt time.Time) (results.OperationResult, error)
	EndGiveawayFunc         func(ctx context.Context, guildID sharedtypes.GuildID, giveawayID int64, winnerID sharedtypes.DiscordID) (results.OperationResult, error)
	ListActiveGiveawaysFunc func(ctx context.Context, guildID sharedtypes.GuildID) (results.OperationResult, error)
}

func (f *fakeGiveawayService) CreateGiveaway(ctx context.Context, guildID sharedtypes.GuildID, creatorID sharedtypes.DiscordID, name, description string, endsAt time.Time) (results.OperationResult, error) {
	return f.CreateGiveawayFunc(ctx, guildID, creatorID, name, description, endsAt)
}

func (f *fakeGiveawayService) EndGiveaway(ctx context.Context, guildID sharedtypes.GuildID, giveawayID int64, winnerID sharedtypes.DiscordID) (results.OperationResult, error) {
	return f.EndGiveawayFunc(ctx, guildID, giveawayID, winnerID)
}

func (f *fakeGiveawayService) ListActiveGiveaways(ctx context.Context, guildID sharedtypes.GuildID) (results.OperationResult, error) {
	return f.ListActiveGiveawaysFunc(ctx, guildID)
}

// fakeGuildService serves a fixed role binding list; the mutation methods
// are programmable per test.
type fakeGuildService struct {
	Bindings []*guilddb.SelfAssignableRole

	AddSelfAssignableRoleFunc    func(ctx context.Context, guildID sharedtypes.GuildID, roleID sharedtypes.RoleID, name string) (results.OperationResult, error)
	RemoveSelfAssignableRoleFunc func(ctx context.Context, guildID sharedtypes.GuildID, roleID sharedtypes.RoleID) (results.OperationResult, error)
}

func (f *fakeGuildService) EnsureGuild(ctx context.Context, guildID sharedtypes.GuildID) (results.OperationResult, error) {
	return results.SuccessResult(&guilddb.Guild{GuildID: guildID}), nil
}

func (f *fakeGuildService) LoadGuild(ctx context.Context, guildID sharedtypes.GuildID) (results.OperationResult, error) {
	return results.SuccessResult(&guilddb.Guild{GuildID: guildID}), nil
}

func (f *fakeGuildService) AddSelfAssignableRole(ctx context.Context, guildID sharedtypes.GuildID, roleID sharedtypes.RoleID, name string) (results.OperationResult, error) {
	return f.AddSelfAssignableRoleFunc(ctx, guildID, roleID, name)
}

func (f *fakeGuildService) RemoveSelfAssignableRole(ctx context.Context, guildID sharedtypes.GuildID, roleID sharedtypes.RoleID) (results.OperationResult, error) {
	return f.RemoveSelfAssignableRoleFunc(ctx, guildID, roleID)
}

func (f *fakeGuildService) ListSelfAssignableRoles(ctx context.Context, guildID sharedtypes.GuildID) ([]*guilddb.SelfAssignableRole, error) {
	return f.Bindings, nil
}
