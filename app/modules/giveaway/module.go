package giveaway

import (
	"context"
	"fmt"
	"sync"
	"time"

	giveawayservice "github.com/Night-Owls-Club/tavern-bot/app/modules/giveaway/application"
	giveawayqueue "github.com/Night-Owls-Club/tavern-bot/app/modules/giveaway/infrastructure/queue"
	giveawaydb "github.com/Night-Owls-Club/tavern-bot/app/modules/giveaway/infrastructure/repositories"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/eventbus"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/observability"
	"github.com/uptrace/bun"
)

// queueStopTimeout bounds how long shutdown waits for in-flight jobs.
const queueStopTimeout = 10 * time.Second

// Module represents the giveaway module. It owns the River queue service that
// fires giveaway end jobs.
type Module struct {
	EventBus        eventbus.EventBus
	GiveawayService giveawayservice.Service
	Queue           giveawayqueue.QueueService
	cancelFunc      context.CancelFunc
	obs             *observability.Observability
}

// NewGiveawayModule creates a new instance of the Giveaway module.
func NewGiveawayModule(
	ctx context.Context,
	obs *observability.Observability,
	giveawayDB giveawaydb.Repository,
	bunDB *bun.DB,
	dsn string,
	bus eventbus.EventBus,
) (*Module, error) {
	queue, err := giveawayqueue.NewService(ctx, bunDB, obs.Logger, dsn, obs.Metrics, giveawayDB, bus)
	if err != nil {
		return nil, fmt.Errorf("failed to create giveaway queue service: %w", err)
	}

	service := giveawayservice.NewGiveawayService(
		giveawayDB,
		queue,
		bus,
		obs.Logger,
		obs.Metrics,
		obs.Tracer,
	)

	return &Module{
		EventBus:        bus,
		GiveawayService: service,
		Queue:           queue,
		obs:             obs,
	}, nil
}

// Run starts the queue service and keeps the module alive until the context
// is canceled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.obs.Logger
	logger.InfoContext(ctx, "Starting giveaway module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if err := m.Queue.Start(ctx); err != nil {
		logger.ErrorContext(ctx, "Failed to start giveaway queue service", "error", err)
		return
	}

	<-ctx.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), queueStopTimeout)
	defer stopCancel()
	if err := m.Queue.Stop(stopCtx); err != nil {
		logger.Error("Failed to stop giveaway queue service", "error", err)
	}

	logger.InfoContext(ctx, "Giveaway module goroutine stopped")
}

// Close stops the giveaway module.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.obs.Logger.Info("Giveaway module stopped")
	return nil
}
