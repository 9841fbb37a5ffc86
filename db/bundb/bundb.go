package bundb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	giveawaydb "github.com/Night-Owls-Club/tavern-bot/app/modules/giveaway/infrastructure/repositories"
	guilddb "github.com/Night-Owls-Club/tavern-bot/app/modules/guild/infrastructure/repositories"
	userdb "github.com/Night-Owls-Club/tavern-bot/app/modules/user/infrastructure/repositories"
	"github.com/Night-Owls-Club/tavern-bot/config"
)

// DBService bundles the module repositories over one bun connection.
type DBService struct {
	GuildDB    *guilddb.GuildDBImpl
	UserDB     *userdb.UserDBImpl
	GiveawayDB *giveawaydb.GiveawayDBImpl
	db         *bun.DB
}

// GetDB returns the underlying database connection pool.
func (dbService *DBService) GetDB() *bun.DB {
	return dbService.db
}

// NewBunDBService initializes a new DBService with the provided Postgres configuration.
func NewBunDBService(ctx context.Context, cfg config.PostgresConfig) (*DBService, error) {
	sqldb, err := pgConn(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := bun.NewDB(sqldb, pgdialect.New())

	db.RegisterModel(
		(*guilddb.Guild)(nil),
		(*guilddb.Ticket)(nil),
		(*guilddb.SelfAssignableRole)(nil),
		(*userdb.User)(nil),
		(*giveawaydb.Giveaway)(nil),
	)

	return &DBService{
		GuildDB:    &guilddb.GuildDBImpl{DB: db},
		UserDB:     &userdb.UserDBImpl{DB: db},
		GiveawayDB: &giveawaydb.GiveawayDBImpl{DB: db},
		db:         db,
	}, nil
}

func pgConn(ctx context.Context, dsn string) (*sql.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))

	if err := sqldb.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return sqldb, nil
}
