package guilddb

import (
	"context"
	"database/sql"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"

	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

const testGuildID sharedtypes.GuildID = "guild-1"

func setupTestDB(t *testing.T) *GuildDBImpl {
	t.Helper()

	sqldb, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// A single connection keeps the in-memory database alive for the test.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	for _, model := range []interface{}{
		(*Guild)(nil),
		(*Ticket)(nil),
		(*SelfAssignableRole)(nil),
	} {
		_, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx)
		require.NoError(t, err)
	}

	return &GuildDBImpl{DB: db}
}

func TestEnsureGuild_Idempotent(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	first, err := repo.EnsureGuild(ctx, testGuildID)
	require.NoError(t, err)
	require.Equal(t, testGuildID, first.GuildID)

	// Repeated calls for the same ID converge on a single row.
	for i := 0; i < 5; i++ {
		again, err := repo.EnsureGuild(ctx, testGuildID)
		require.NoError(t, err)
		assert.Equal(t, first.GuildID, again.GuildID)
	}

	count, err := repo.DB.NewSelect().Model((*Guild)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGetGuild_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetGuild(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrGuildNotFound)
}

func TestGetGuild_LoadsRelations(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	_, err := repo.EnsureGuild(ctx, testGuildID)
	require.NoError(t, err)

	_, err = repo.SaveTicket(ctx, testGuildID, &Ticket{
		UserID:      "author-1",
		Description: "add dark mode",
		Color:       "#ff0000",
	})
	require.NoError(t, err)

	require.NoError(t, repo.AddSelfAssignableRole(ctx, testGuildID, &SelfAssignableRole{
		RoleID: "role-1",
		Name:   "gamer",
	}))

	guild, err := repo.GetGuild(ctx, testGuildID)
	require.NoError(t, err)
	assert.Len(t, guild.Tickets, 1)
	assert.Len(t, guild.SelfAssignableRoles, 1)
}

func TestSaveTicket_RequiresExistingGuild(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.SaveTicket(context.Background(), "missing", &Ticket{
		UserID:      "author-1",
		Description: "add dark mode",
	})

	assert.ErrorIs(t, err, ErrGuildNotFound)
}

func TestSaveTicket_InsertAssignsID(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	_, err := repo.EnsureGuild(ctx, testGuildID)
	require.NoError(t, err)

	saved, err := repo.SaveTicket(ctx, testGuildID, &Ticket{
		UserID:      "author-1",
		Description: "add dark mode",
		Color:       "#ff0000",
		MessageID:   "msg-1",
	})
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)

	found, err := repo.FindTicket(ctx, testGuildID, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "add dark mode", found.Description)
	assert.Equal(t, sharedtypes.MessageID("msg-1"), found.MessageID)
	assert.Equal(t, 0, found.Likes)
	assert.Equal(t, 0, found.Dislikes)
}

func TestSaveTicket_UpdateExisting(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	_, err := repo.EnsureGuild(ctx, testGuildID)
	require.NoError(t, err)

	saved, err := repo.SaveTicket(ctx, testGuildID, &Ticket{
		UserID:      "author-1",
		Description: "add dark mode",
		Color:       "#ff0000",
	})
	require.NoError(t, err)

	saved.Description = "add dark mode toggle"
	_, err = repo.SaveTicket(ctx, testGuildID, saved)
	require.NoError(t, err)

	found, err := repo.FindTicket(ctx, testGuildID, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "add dark mode toggle", found.Description)

	count, err := repo.DB.NewSelect().Model((*Ticket)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSaveTicket_BulkInsertKeepsAllRows(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	_, err := repo.EnsureGuild(ctx, testGuildID)
	require.NoError(t, err)

	const n = 25
	seen := make(map[sharedtypes.TicketID]bool, n)
	for i := 0; i < n; i++ {
		saved, err := repo.SaveTicket(ctx, testGuildID, &Ticket{
			UserID:      sharedtypes.DiscordID(gofakeit.DigitN(18)),
			Description: gofakeit.Sentence(8),
			Color:       gofakeit.HexColor(),
			MessageID:   sharedtypes.MessageID(gofakeit.DigitN(18)),
		})
		require.NoError(t, err)
		assert.False(t, seen[saved.ID], "ticket ids must be unique")
		seen[saved.ID] = true
	}

	guild, err := repo.GetGuild(ctx, testGuildID)
	require.NoError(t, err)
	assert.Len(t, guild.Tickets, n)
}

func TestFindTicket_NotFound(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	_, err := repo.EnsureGuild(ctx, testGuildID)
	require.NoError(t, err)

	_, err = repo.FindTicket(ctx, testGuildID, 42)
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestSelfAssignableRoles_AddListRemove(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	_, err := repo.EnsureGuild(ctx, testGuildID)
	require.NoError(t, err)

	require.NoError(t, repo.AddSelfAssignableRole(ctx, testGuildID, &SelfAssignableRole{RoleID: "role-2", Name: "zebra"}))
	require.NoError(t, repo.AddSelfAssignableRole(ctx, testGuildID, &SelfAssignableRole{RoleID: "role-1", Name: "artist"}))

	bindings, err := repo.ListSelfAssignableRoles(ctx, testGuildID)
	require.NoError(t, err)
	require.Len(t, bindings, 2)
	assert.Equal(t, "artist", bindings[0].Name) // ordered by name

	require.NoError(t, repo.RemoveSelfAssignableRole(ctx, testGuildID, "role-2"))

	bindings, err = repo.ListSelfAssignableRoles(ctx, testGuildID)
	require.NoError(t, err)
	assert.Len(t, bindings, 1)
}

func TestRemoveSelfAssignableRole_NotFound(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	_, err := repo.EnsureGuild(ctx, testGuildID)
	require.NoError(t, err)

	err = repo.RemoveSelfAssignableRole(ctx, testGuildID, "missing")
	assert.ErrorIs(t, err, ErrRoleBindingNotFound)
}
