package ticket

import (
	"context"
	"sync"

	guilddb "github.com/Night-Owls-Club/tavern-bot/app/modules/guild/infrastructure/repositories"
	ticketservice "github.com/Night-Owls-Club/tavern-bot/app/modules/ticket/application"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/chat"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/eventbus"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/observability"
)

// Module represents the ticket module. It is invoked synchronously by the
// command surface rather than through the message router, so it carries no
// router of its own; lifecycle events still go out over the bus.
type Module struct {
	EventBus      eventbus.EventBus
	TicketService ticketservice.Service
	cancelFunc    context.CancelFunc
	obs           *observability.Observability
}

// NewTicketModule creates a new instance of the Ticket module.
func NewTicketModule(
	ctx context.Context,
	obs *observability.Observability,
	guildDB guilddb.Repository,
	messenger chat.Messenger,
	bus eventbus.EventBus,
	channelName string,
) (*Module, error) {
	service := ticketservice.NewTicketService(
		guildDB,
		messenger,
		bus,
		channelName,
		obs.Logger,
		obs.Metrics,
		obs.Tracer,
	)

	return &Module{
		EventBus:      bus,
		TicketService: service,
		obs:           obs,
	}, nil
}

// Run keeps the ticket module alive until the context is canceled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.obs.Logger
	logger.InfoContext(ctx, "Starting ticket module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Ticket module goroutine stopped")
}

// Close stops the ticket module and cleans up resources.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.obs.Logger.Info("Ticket module stopped")
	return nil
}
