package guild

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	guildservice "github.com/Night-Owls-Club/tavern-bot/app/modules/guild/application"
	guilddb "github.com/Night-Owls-Club/tavern-bot/app/modules/guild/infrastructure/repositories"
	guildrouter "github.com/Night-Owls-Club/tavern-bot/app/modules/guild/infrastructure/router"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/eventbus"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/observability"
)

// Module represents the guild module.
type Module struct {
	EventBus     eventbus.EventBus
	GuildService guildservice.Service
	GuildRouter  *guildrouter.GuildRouter
	cancelFunc   context.CancelFunc
	obs          *observability.Observability
}

// NewGuildModule creates a new instance of the Guild module.
func NewGuildModule(
	ctx context.Context,
	obs *observability.Observability,
	guildDB guilddb.Repository,
	bus eventbus.EventBus,
	router *message.Router,
) (*Module, error) {
	logger := obs.Logger

	guildService := guildservice.NewGuildService(guildDB, logger, obs.Metrics, obs.Tracer)

	guildRouter := guildrouter.NewGuildRouter(logger, router, bus, obs.Tracer, obs.Metrics)
	if err := guildRouter.Configure(ctx, guildService); err != nil {
		return nil, fmt.Errorf("failed to configure guild router: %w", err)
	}

	return &Module{
		EventBus:     bus,
		GuildService: guildService,
		GuildRouter:  guildRouter,
		obs:          obs,
	}, nil
}

// Run keeps the guild module alive until the context is canceled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.obs.Logger
	logger.InfoContext(ctx, "Starting guild module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Guild module goroutine stopped")
}

// Close stops the guild module and cleans up resources.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.obs.Logger.Info("Guild module stopped")
	return nil
}
