package migrations

import (
	"context"

	"github.com/uptrace/bun"

	giveawaydb "github.com/Night-Owls-Club/tavern-bot/app/modules/giveaway/infrastructure/repositories"
	guilddb "github.com/Night-Owls-Club/tavern-bot/app/modules/guild/infrastructure/repositories"
	userdb "github.com/Night-Owls-Club/tavern-bot/app/modules/user/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		// Guilds first; tickets and role bindings reference them.
		models := []interface{}{
			(*guilddb.Guild)(nil),
			(*guilddb.Ticket)(nil),
			(*guilddb.SelfAssignableRole)(nil),
			(*userdb.User)(nil),
			(*giveawaydb.Giveaway)(nil),
		}

		for _, model := range models {
			if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		// Reverse order to avoid foreign key constraints.
		models := []interface{}{
			(*giveawaydb.Giveaway)(nil),
			(*userdb.User)(nil),
			(*guilddb.SelfAssignableRole)(nil),
			(*guilddb.Ticket)(nil),
			(*guilddb.Guild)(nil),
		}

		for _, model := range models {
			if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}
