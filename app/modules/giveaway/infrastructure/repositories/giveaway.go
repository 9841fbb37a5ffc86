package giveawaydb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

// GiveawayDBImpl implements Repository on bun.
type GiveawayDBImpl struct {
	DB *bun.DB
}

var _ Repository = (*GiveawayDBImpl)(nil)

func (db *GiveawayDBImpl) CreateGiveaway(ctx context.Context, giveaway *Giveaway) (*Giveaway, error) {
	if _, err := db.DB.NewInsert().
		Model(giveaway).
		Returning("id").
		Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to insert giveaway: %w", err)
	}
	return giveaway, nil
}

func (db *GiveawayDBImpl) GetGiveaway(ctx context.Context, guildID sharedtypes.GuildID, id int64) (*Giveaway, error) {
	giveaway := &Giveaway{}
	err := db.DB.NewSelect().
		Model(giveaway).
		Where("gw.guild_id = ? AND gw.id = ?", guildID, id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGiveawayNotFound
		}
		return nil, fmt.Errorf("failed to find giveaway %d: %w", id, err)
	}
	return giveaway, nil
}

func (db *GiveawayDBImpl) ListActiveGiveaways(ctx context.Context, guildID sharedtypes.GuildID) ([]*Giveaway, error) {
	var giveaways []*Giveaway
	err := db.DB.NewSelect().
		Model(&giveaways).
		Where("guild_id = ? AND ended = ?", guildID, false).
		Order("ends_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active giveaways: %w", err)
	}
	return giveaways, nil
}

func (db *GiveawayDBImpl) MarkEnded(ctx context.Context, guildID sharedtypes.GuildID, id int64, winnerID sharedtypes.DiscordID) (*Giveaway, error) {
	query := db.DB.NewUpdate().
		Model((*Giveaway)(nil)).
		Set("ended = ?", true).
		Where("guild_id = ? AND id = ?", guildID, id)
	if winnerID != "" {
		query = query.Set("winner_user_id = ?", winnerID)
	}
	result, err := query.Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to mark giveaway %d ended: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, ErrGiveawayNotFound
	}
	return db.GetGiveaway(ctx, guildID, id)
}
