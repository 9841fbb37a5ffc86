package userdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

// UserDBImpl implements Repository on bun.
type UserDBImpl struct {
	DB *bun.DB
}

var _ Repository = (*UserDBImpl)(nil)

func (db *UserDBImpl) GetUser(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (*User, error) {
	user := &User{}
	err := db.DB.NewSelect().
		Model(user).
		Where("u.guild_id = ? AND u.user_id = ?", guildID, userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user %s in guild %s: %w", userID, guildID, err)
	}
	return user, nil
}

// EnsureUser inserts a zeroed row if none exists and returns the row. The
// conflict clause makes concurrent calls for the same key converge.
func (db *UserDBImpl) EnsureUser(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (*User, error) {
	user := &User{UserID: userID, GuildID: guildID}
	_, err := db.DB.NewInsert().
		Model(user).
		On("CONFLICT (user_id, guild_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure user %s in guild %s: %w", userID, guildID, err)
	}
	return db.GetUser(ctx, guildID, userID)
}

func (db *UserDBImpl) AddCredits(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, delta int64) (*User, error) {
	return db.adjust(ctx, guildID, userID, "credits", delta)
}

func (db *UserDBImpl) AddXP(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, amount int64) (*User, error) {
	return db.adjust(ctx, guildID, userID, "xp", amount)
}

// adjust increments a counter column in SQL and returns the updated row.
func (db *UserDBImpl) adjust(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, column string, delta int64) (*User, error) {
	result, err := db.DB.NewUpdate().
		Model((*User)(nil)).
		Set("? = ? + ?", bun.Ident(column), bun.Ident(column), delta).
		Set("updated_at = current_timestamp").
		Where("guild_id = ? AND user_id = ?", guildID, userID).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust %s for user %s: %w", column, userID, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, ErrUserNotFound
	}
	return db.GetUser(ctx, guildID, userID)
}

func (db *UserDBImpl) ResetProgress(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (*User, error) {
	result, err := db.DB.NewUpdate().
		Model((*User)(nil)).
		Set("xp = 0").
		Set("level = 0").
		Set("updated_at = current_timestamp").
		Where("guild_id = ? AND user_id = ?", guildID, userID).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reset progress for user %s: %w", userID, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, ErrUserNotFound
	}
	return db.GetUser(ctx, guildID, userID)
}

func (db *UserDBImpl) SetLevel(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, level int) error {
	result, err := db.DB.NewUpdate().
		Model((*User)(nil)).
		Set("level = ?", level).
		Set("updated_at = current_timestamp").
		Where("guild_id = ? AND user_id = ?", guildID, userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set level for user %s: %w", userID, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}
