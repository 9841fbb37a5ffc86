package userservice

import (
	"context"

	userdb "github.com/Night-Owls-Club/tavern-bot/app/modules/user/infrastructure/repositories"
	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

type userKey struct {
	GuildID sharedtypes.GuildID
	UserID  sharedtypes.DiscordID
}

// FakeUserRepo is an in-memory userdb.Repository with programmable overrides.
type FakeUserRepo struct {
	trace []string
	users map[userKey]*userdb.User

	AddXPFunc    func(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, amount int64) (*userdb.User, error)
	SetLevelFunc func(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, level int) error
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		trace: []string{},
		users: make(map[userKey]*userdb.User),
	}
}

func (f *FakeUserRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeUserRepo) record(step string) {
	f.trace = append(f.trace, step)
}

// Seed installs a user row ahead of a test.
func (f *FakeUserRepo) Seed(u *userdb.User) {
	f.users[userKey{GuildID: u.GuildID, UserID: u.UserID}] = u
}

// Stored returns the persisted state of a user, or nil.
func (f *FakeUserRepo) Stored(guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) *userdb.User {
	return f.users[userKey{GuildID: guildID, UserID: userID}]
}

func (f *FakeUserRepo) GetUser(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (*userdb.User, error) {
	f.record("GetUser")
	u, ok := f.users[userKey{GuildID: guildID, UserID: userID}]
	if !ok {
		return nil, userdb.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *FakeUserRepo) EnsureUser(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (*userdb.User, error) {
	f.record("EnsureUser")
	key := userKey{GuildID: guildID, UserID: userID}
	if u, ok := f.users[key]; ok {
		copied := *u
		return &copied, nil
	}
	u := &userdb.User{UserID: userID, GuildID: guildID}
	f.users[key] = u
	copied := *u
	return &copied, nil
}

func (f *FakeUserRepo) AddCredits(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, delta int64) (*userdb.User, error) {
	f.record("AddCredits")
	u, ok := f.users[userKey{GuildID: guildID, UserID: userID}]
	if !ok {
		return nil, userdb.ErrUserNotFound
	}
	u.Credits += delta
	copied := *u
	return &copied, nil
}

func (f *FakeUserRepo) AddXP(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, amount int64) (*userdb.User, error) {
	f.record("AddXP")
	if f.AddXPFunc != nil {
		return f.AddXPFunc(ctx, guildID, userID, amount)
	}
	u, ok := f.users[userKey{GuildID: guildID, UserID: userID}]
	if !ok {
		return nil, userdb.ErrUserNotFound
	}
	u.XP += amount
	copied := *u
	return &copied, nil
}

func (f *FakeUserRepo) ResetProgress(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (*userdb.User, error) {
	f.record("ResetProgress")
	u, ok := f.users[userKey{GuildID: guildID, UserID: userID}]
	if !ok {
		return nil, userdb.ErrUserNotFound
	}
	u.XP = 0
	u.Level = 0
	copied := *u
	return &copied, nil
}

func (f *FakeUserRepo) SetLevel(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, level int) error {
	f.record("SetLevel")
	if f.SetLevelFunc != nil {
		return f.SetLevelFunc(ctx, guildID, userID, level)
	}
	u, ok := f.users[userKey{GuildID: guildID, UserID: userID}]
	if !ok {
		return userdb.ErrUserNotFound
	}
	u.Level = level
	return nil
}

var _ userdb.Repository = (*FakeUserRepo)(nil)
