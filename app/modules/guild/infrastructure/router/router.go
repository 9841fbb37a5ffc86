package guildrouter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.opentelemetry.io/otel/trace"

	guildevents "github.com/Night-Owls-Club/tavern-bot/app/events/guildevents"
	guildservice "github.com/Night-Owls-Club/tavern-bot/app/modules/guild/application"
	guildhandlers "github.com/Night-Owls-Club/tavern-bot/app/modules/guild/infrastructure/handlers"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/eventbus"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/handlerwrapper"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/observability"
)

// GuildRouter handles routing for guild module events.
type GuildRouter struct {
	logger     *slog.Logger
	Router     *message.Router
	subscriber eventbus.EventBus
	publisher  eventbus.EventBus
	tracer     trace.Tracer
	metrics    observability.OperationMetrics
}

// NewGuildRouter creates a new GuildRouter.
func NewGuildRouter(
	logger *slog.Logger,
	router *message.Router,
	bus eventbus.EventBus,
	tracer trace.Tracer,
	metrics observability.OperationMetrics,
) *GuildRouter {
	return &GuildRouter{
		logger:     logger,
		Router:     router,
		subscriber: bus,
		publisher:  bus,
		tracer:     tracer,
		metrics:    metrics,
	}
}

// Configure sets up the router with the necessary handlers and dependencies.
func (r *GuildRouter) Configure(ctx context.Context, guildService guildservice.Service) error {
	handlers := guildhandlers.NewGuildHandlers(guildService, r.logger, r.tracer)

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
	)

	if err := r.RegisterHandlers(ctx, handlers); err != nil {
		return fmt.Errorf("failed to register handlers: %w", err)
	}
	return nil
}

type handlerDeps struct {
	router     *message.Router
	subscriber eventbus.EventBus
	publisher  eventbus.EventBus
	logger     *slog.Logger
	tracer     trace.Tracer
	metrics    observability.OperationMetrics
}

// registerHandler registers a pure transformation-pattern handler with typed payload.
func registerHandler[T any](
	deps handlerDeps,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "guild." + topic

	deps.router.AddHandler(
		handlerName,
		topic,
		deps.subscriber,
		"", // the event bus reads the topic from message metadata when empty
		deps.publisher,
		handlerwrapper.WrapTransformingTyped(
			handlerName,
			deps.logger,
			deps.tracer,
			deps.metrics,
			handler,
		),
	)
}

// RegisterHandlers registers event handlers using the pure transformation pattern.
func (r *GuildRouter) RegisterHandlers(ctx context.Context, handlers guildhandlers.Handlers) error {
	deps := handlerDeps{
		router:     r.Router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
		metrics:    r.metrics,
	}

	registerHandler(deps, guildevents.GuildSetupRequestedV1, handlers.HandleGuildSetup)

	return nil
}

// Close stops the router.
func (r *GuildRouter) Close() error {
	return r.Router.Close()
}
