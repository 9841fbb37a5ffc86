package guildhandlers

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	guildservice "github.com/Night-Owls-Club/tavern-bot/app/modules/guild/application"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/handlerwrapper"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/results"
)

// GuildHandlers implements the Handlers interface for guild events.
type GuildHandlers struct {
	service guildservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewGuildHandlers creates a new GuildHandlers instance.
func NewGuildHandlers(service guildservice.Service, logger *slog.Logger, tracer trace.Tracer) *GuildHandlers {
	return &GuildHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// mapOperationResult converts a service OperationResult to handler results.
func mapOperationResult(
	result results.OperationResult,
	successTopic, failureTopic string,
) []handlerwrapper.Result {
	handlerResults := result.MapToHandlerResults(successTopic, failureTopic)

	wrapperResults := make([]handlerwrapper.Result, len(handlerResults))
	for i, hr := range handlerResults {
		wrapperResults[i] = handlerwrapper.Result{
			Topic:    hr.Topic,
			Payload:  hr.Payload,
			Metadata: hr.Metadata,
		}
	}

	return wrapperResults
}
