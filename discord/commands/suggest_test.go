package commands

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ticketevents "github.com/Night-Owls-Club/tavern-bot/app/events/ticketevents"
	guilddb "github.com/Night-Owls-Club/tavern-bot/app/modules/guild/infrastructure/repositories"
	ticketservice "github.com/Night-Owls-Club/tavern-bot/app/modules/ticket/application"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/results"
	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

func TestSuggest_RepliesWithTicketID(t *testing.T) {
	messenger := &fakeMessenger{}
	tickets := &fakeTicketService{
		CreateTicketFunc: func(ctx context.Context, guildID sharedtypes.GuildID, authorID sharedtypes.DiscordID, authorColor, description string) (results.OperationResult, error) {
			assert.Equal(t, "add dark mode", description)
			return results.SuccessResult(&guilddb.Ticket{ID: 7, Description: description}), nil
		},
	}
	c := NewTicketCommands(tickets, nil, messenger)

	err := c.Suggest(context.Background(), testInvocation("suggest", "add dark mode"))

	require.NoError(t, err)
	sent := messenger.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "Suggestion #7 submitted.", sent[0])
}

func TestSuggest_EmptyArgsShowsUsage(t *testing.T) {
	messenger := &fakeMessenger{}
	c := NewTicketCommands(&fakeTicketService{}, nil, messenger)

	err := c.Suggest(context.Background(), testInvocation("suggest", ""))

	require.NoError(t, err)
	sent := messenger.sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "Usage")
}

func TestSuggest_FailureSurfacesReason(t *testing.T) {
	messenger := &fakeMessenger{}
	tickets := &fakeTicketService{
		CreateTicketFunc: func(ctx context.Context, guildID sharedtypes.GuildID, authorID sharedtypes.DiscordID, authorColor, description string) (results.OperationResult, error) {
			return results.FailureResult(&ticketevents.TicketFailedPayloadV1{
				GuildID:   guildID,
				Operation: "create_ticket",
				Reason:    ticketservice.ErrChannelNotConfigured.Error(),
			}), nil
		},
	}
	c := NewTicketCommands(tickets, nil, messenger)

	err := c.Suggest(context.Background(), testInvocation("suggest", "add dark mode"))

	require.NoError(t, err)
	sent := messenger.sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], ticketservice.ErrChannelNotConfigured.Error())
}

func TestSuggestEdit_PassesElevatedPermission(t *testing.T) {
	messenger := &fakeMessenger{}
	var gotElevated bool
	tickets := &fakeTicketService{
		EditTicketFunc: func(ctx context.Context, guildID sharedtypes.GuildID, requesterID sharedtypes.DiscordID, hasElevatedPermission bool, args string) (results.OperationResult, error) {
			gotElevated = hasElevatedPermission
			return results.SuccessResult(&guilddb.Ticket{ID: 7}), nil
		},
	}
	c := NewTicketCommands(tickets, nil, messenger)

	inv := testInvocation("suggestedit", "7 new text")
	inv.Permissions = discordgo.PermissionManageMessages
	err := c.SuggestEdit(context.Background(), inv)

	require.NoError(t, err)
	assert.True(t, gotElevated)
	sent := messenger.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "Suggestion #7 updated.", sent[0])
}

func TestEditFailureReply(t *testing.T) {
	tests := []struct {
		name    string
		failure *ticketevents.TicketFailedPayloadV1
		want    string
	}{
		{
			name:    "not found",
			failure: &ticketevents.TicketFailedPayloadV1{Reason: guilddb.ErrTicketNotFound.Error()},
			want:    "No suggestion with that id.",
		},
		{
			name:    "forbidden",
			failure: &ticketevents.TicketFailedPayloadV1{Reason: ticketservice.ErrForbidden.Error()},
			want:    "You can only edit your own suggestions.",
		},
		{
			name:    "rendered message missing",
			failure: &ticketevents.TicketFailedPayloadV1{Reason: ticketservice.ErrRenderedMessageMissing.Error()},
			want:    "That suggestion's message no longer exists, so it cannot be edited.",
		},
		{
			name:    "not editable keeps the persisted change visible",
			failure: &ticketevents.TicketFailedPayloadV1{TicketID: 7, Reason: ticketservice.ErrNotEditable.Error()},
			want:    "Suggestion #7 was updated, but its message could not be re-rendered.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, editFailureReply(tt.failure))
		})
	}
}
