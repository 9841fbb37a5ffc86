package giveawayservice

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

	giveawayqueue "github.com/Night-Owls-Club/tavern-bot/app/modules/giveaway/infrastructure/queue"
	giveawaydb "github.com/Night-Owls-Club/tavern-bot/app/modules/giveaway/infrastructure/repositories"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/attr"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/eventbus"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/observability"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/results"
	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

// GiveawayService implements the Service interface.
type GiveawayService struct {
	repo      giveawaydb.Repository
	queue     giveawayqueue.QueueService
	publisher eventbus.EventBus
	logger    *slog.Logger
	metrics   observability.OperationMetrics
	tracer    trace.Tracer
}

// NewGiveawayService creates a new GiveawayService.
func NewGiveawayService(
	repo giveawaydb.Repository,
	queue giveawayqueue.QueueService,
	publisher eventbus.EventBus,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
) *GiveawayService {
	return &GiveawayService{
		repo:      repo,
		queue:     queue,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
	}
}

// operationFunc is the signature for service operation functions.
type operationFunc func(ctx context.Context) (results.OperationResult, error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func (s *GiveawayService) withTelemetry(
	ctx context.Context,
	operationName string,
	guildID sharedtypes.GuildID,
	op operationFunc,
) (result results.OperationResult, err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("guild_id", string(guildID)),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, "GiveawayService")

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, "GiveawayService", time.Since(startTime))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("guild_id", string(guildID)),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, "GiveawayService")
			span.RecordError(err)
			result = results.OperationResult{}
		}
	}()

	result, err = op(ctx)
	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("guild_id", string(guildID)),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName, "GiveawayService")
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.Failure != nil {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("guild_id", string(guildID)),
			attr.Any("failure_payload", result.Failure),
		)
	}

	s.metrics.RecordOperationSuccess(ctx, operationName, "GiveawayService")
	return result, nil
}

// publish emits a lifecycle event, best effort.
func (s *GiveawayService) publish(ctx context.Context, topic string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to marshal event payload",
			attr.String("topic", topic),
			attr.Error(err),
		)
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set(eventbus.TopicMetadataKey, topic)
	if correlationID := attr.CorrelationIDFromContext(ctx); correlationID != "" {
		middleware.SetCorrelationID(correlationID, msg)
	}

	if err := s.publisher.Publish(topic, msg); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish event",
			attr.String("topic", topic),
			attr.Error(err),
		)
	}
}
