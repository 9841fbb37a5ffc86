package guilddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

// GuildDBImpl implements Repository on bun.
type GuildDBImpl struct {
	DB *bun.DB
}

var _ Repository = (*GuildDBImpl)(nil)

func (db *GuildDBImpl) GetGuild(ctx context.Context, guildID sharedtypes.GuildID) (*Guild, error) {
	guild := &Guild{}
	err := db.DB.NewSelect().
		Model(guild).
		Relation("Tickets").
		Relation("SelfAssignableRoles").
		Where("g.guild_id = ?", guildID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGuildNotFound
		}
		return nil, fmt.Errorf("failed to load guild %s: %w", guildID, err)
	}
	return guild, nil
}

// EnsureGuild inserts an empty guild row if none exists and returns the row.
// The conflict clause makes concurrent calls for the same ID converge on a
// single record.
func (db *GuildDBImpl) EnsureGuild(ctx context.Context, guildID sharedtypes.GuildID) (*Guild, error) {
	guild := &Guild{GuildID: guildID}
	_, err := db.DB.NewInsert().
		Model(guild).
		On("CONFLICT (guild_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure guild %s: %w", guildID, err)
	}
	return db.GetGuild(ctx, guildID)
}

func (db *GuildDBImpl) SaveTicket(ctx context.Context, guildID sharedtypes.GuildID, ticket *Ticket) (*Ticket, error) {
	exists, err := db.DB.NewSelect().
		Model((*Guild)(nil)).
		Where("guild_id = ?", guildID).
		Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check guild %s: %w", guildID, err)
	}
	if !exists {
		return nil, ErrGuildNotFound
	}

	ticket.GuildID = guildID
	if ticket.ID == 0 {
		if _, err := db.DB.NewInsert().
			Model(ticket).
			Returning("id").
			Exec(ctx); err != nil {
			return nil, fmt.Errorf("failed to insert ticket: %w", err)
		}
		return ticket, nil
	}

	if _, err := db.DB.NewUpdate().
		Model(ticket).
		WherePK().
		Where("guild_id = ?", guildID).
		Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to update ticket %d: %w", ticket.ID, err)
	}
	return ticket, nil
}

func (db *GuildDBImpl) FindTicket(ctx context.Context, guildID sharedtypes.GuildID, ticketID sharedtypes.TicketID) (*Ticket, error) {
	ticket := &Ticket{}
	err := db.DB.NewSelect().
		Model(ticket).
		Where("t.guild_id = ? AND t.id = ?", guildID, ticketID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to find ticket %d: %w", ticketID, err)
	}
	return ticket, nil
}

func (db *GuildDBImpl) AddSelfAssignableRole(ctx context.Context, guildID sharedtypes.GuildID, binding *SelfAssignableRole) error {
	binding.GuildID = guildID
	_, err := db.DB.NewInsert().Model(binding).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to add self-assignable role %s: %w", binding.RoleID, err)
	}
	return nil
}

func (db *GuildDBImpl) RemoveSelfAssignableRole(ctx context.Context, guildID sharedtypes.GuildID, roleID sharedtypes.RoleID) error {
	result, err := db.DB.NewDelete().
		Model((*SelfAssignableRole)(nil)).
		Where("guild_id = ? AND role_id = ?", guildID, roleID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to remove self-assignable role %s: %w", roleID, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrRoleBindingNotFound
	}
	return nil
}

func (db *GuildDBImpl) ListSelfAssignableRoles(ctx context.Context, guildID sharedtypes.GuildID) ([]*SelfAssignableRole, error) {
	var bindings []*SelfAssignableRole
	err := db.DB.NewSelect().
		Model(&bindings).
		Where("guild_id = ?", guildID).
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list self-assignable roles: %w", err)
	}
	return bindings, nil
}
