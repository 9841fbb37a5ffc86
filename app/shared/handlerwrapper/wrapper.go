// Package handlerwrapper standardizes watermill handlers around the pure
// transformation pattern: unmarshal a typed payload, invoke the handler, and
// publish whatever results it returns.
package handlerwrapper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Night-Owls-Club/tavern-bot/app/shared/attr"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/eventbus"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/observability"
)

// Result is one outbound message produced by a transformation handler.
type Result struct {
	Topic    string
	Payload  any
	Metadata map[string]string
}

// WrapTransformingTyped adapts a typed transformation handler to watermill's
// HandlerFunc. The incoming payload is unmarshaled into T; returned Results
// are marshaled and stamped with their destination topic in metadata, which
// the event bus reads because the router's publish topic is empty.
func WrapTransformingTyped[T any](
	handlerName string,
	logger *slog.Logger,
	tracer trace.Tracer,
	metrics observability.OperationMetrics,
	handler func(context.Context, *T) ([]Result, error),
) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		ctx, span := tracer.Start(msg.Context(), handlerName, trace.WithAttributes(
			attribute.String("handler", handlerName),
			attribute.String("message_uuid", msg.UUID),
		))
		defer span.End()

		correlationID := middleware.MessageCorrelationID(msg)
		ctx = attr.WithCorrelationID(ctx, correlationID)

		metrics.RecordOperationAttempt(ctx, handlerName, "handler")
		start := time.Now()
		defer func() {
			metrics.RecordOperationDuration(ctx, handlerName, "handler", time.Since(start))
		}()

		var payload T
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			metrics.RecordOperationFailure(ctx, handlerName, "handler")
			logger.ErrorContext(ctx, "Failed to unmarshal payload",
				attr.ExtractCorrelationID(ctx),
				attr.String("handler", handlerName),
				attr.Error(err),
			)
			span.RecordError(err)
			return nil, fmt.Errorf("%s: unmarshal payload: %w", handlerName, err)
		}

		handlerResults, err := handler(ctx, &payload)
		if err != nil {
			metrics.RecordOperationFailure(ctx, handlerName, "handler")
			logger.ErrorContext(ctx, "Handler returned error",
				attr.ExtractCorrelationID(ctx),
				attr.String("handler", handlerName),
				attr.Error(err),
			)
			span.RecordError(err)
			return nil, err
		}

		out := make([]*message.Message, 0, len(handlerResults))
		for _, result := range handlerResults {
			body, err := json.Marshal(result.Payload)
			if err != nil {
				metrics.RecordOperationFailure(ctx, handlerName, "handler")
				span.RecordError(err)
				return nil, fmt.Errorf("%s: marshal result for topic %s: %w", handlerName, result.Topic, err)
			}

			outMsg := message.NewMessage(watermill.NewUUID(), body)
			outMsg.SetContext(ctx)
			outMsg.Metadata.Set(eventbus.TopicMetadataKey, result.Topic)
			middleware.SetCorrelationID(correlationID, outMsg)
			for k, v := range result.Metadata {
				outMsg.Metadata.Set(k, v)
			}
			out = append(out, outMsg)
		}

		metrics.RecordOperationSuccess(ctx, handlerName, "handler")
		return out, nil
	}
}
