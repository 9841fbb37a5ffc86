package userhandlers

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	userservice "github.com/Night-Owls-Club/tavern-bot/app/modules/user/application"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/handlerwrapper"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/results"
)

// UserHandlers implements the Handlers interface for user economy events.
type UserHandlers struct {
	service userservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewUserHandlers creates a new UserHandlers instance.
func NewUserHandlers(service userservice.Service, logger *slog.Logger, tracer trace.Tracer) *UserHandlers {
	return &UserHandlers{
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
