package user

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	userservice "github.com/Night-Owls-Club/tavern-bot/app/modules/user/application"
	userdb "github.com/Night-Owls-Club/tavern-bot/app/modules/user/infrastructure/repositories"
	userrouter "github.com/Night-Owls-Club/tavern-bot/app/modules/user/infrastructure/router"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/eventbus"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/observability"
)

// Module represents the user module.
type Module struct {
	EventBus    eventbus.EventBus
	UserService userservice.Service
	UserRouter  *userrouter.UserRouter
	cancelFunc  context.CancelFunc
	obs         *observability.Observability
}

// NewUserModule creates a new instance of the User module.
func NewUserModule(
	ctx context.Context,
	obs *observability.Observability,
	userDB userdb.Repository,
	bus eventbus.EventBus,
	router *message.Router,
) (*Module, error) {
	logger := obs.Logger

	userService := userservice.NewUserService(userDB, logger, obs.Metrics, obs.Tracer)

	userRouter := userrouter.NewUserRouter(logger, router, bus, obs.Tracer, obs.Metrics)
	if err := userRouter.Configure(ctx, userService); err != nil {
		return nil, fmt.Errorf("failed to configure user router: %w", err)
	}

	return &Module{
		EventBus:    bus,
		UserService: userService,
		UserRouter:  userRouter,
		obs:         obs,
	}, nil
}

// Run keeps the user module alive until the context is canceled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.obs.Logger
	logger.InfoContext(ctx, "Starting user module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "User module goroutine stopped")
}

// Close stops the user module and cleans up resources.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.obs.Logger.Info("User module stopped")
	return nil
}
