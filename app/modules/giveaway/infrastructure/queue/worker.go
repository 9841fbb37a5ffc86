package giveawayqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/riverqueue/river"

	giveawayevents "github.com/Night-Owls-Club/tavern-bot/app/events/giveawayevents"
	giveawaydb "github.com/Night-Owls-Club/tavern-bot/app/modules/giveaway/infrastructure/repositories"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/attr"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/eventbus"
)

// GiveawayEndWorker marks a giveaway ended when its scheduled job fires and
// publishes the ended event for downstream consumers.
type GiveawayEndWorker struct {
	river.WorkerDefaults[GiveawayEndJob]
	logger *slog.Logger
	repo   giveawaydb.Repository
	bus    eventbus.EventBus
}

// NewGiveawayEndWorker creates a new GiveawayEndWorker.
func NewGiveawayEndWorker(logger *slog.Logger, repo giveawaydb.Repository, bus eventbus.EventBus) *GiveawayEndWorker {
	return &GiveawayEndWorker{logger: logger, repo: repo, bus: bus}
}

func (w *GiveawayEndWorker) Work(ctx context.Context, job *river.Job[GiveawayEndJob]) error {
	args := job.Args

	w.logger.InfoContext(ctx, "Giveaway end job firing",
		attr.String("guild_id", string(args.GuildID)),
		attr.Int64("giveaway_id", args.GiveawayID),
	)

	giveaway, err := w.repo.MarkEnded(ctx, args.GuildID, args.GiveawayID, "")
	if err != nil {
		if errors.Is(err, giveawaydb.ErrGiveawayNotFound) {
			// Deleted before the job fired; nothing left to do.
			w.logger.WarnContext(ctx, "Giveaway gone before end job fired",
				attr.Int64("giveaway_id", args.GiveawayID),
			)
			return nil
		}
		return fmt.Errorf("failed to mark giveaway %d ended: %w", args.GiveawayID, err)
	}

	payload, err := json.Marshal(&giveawayevents.GiveawayEndedPayloadV1{
		GuildID:    giveaway.GuildID,
		GiveawayID: giveaway.ID,
		Name:       giveaway.Name,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal giveaway ended payload: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(eventbus.TopicMetadataKey, giveawayevents.GiveawayEndedV1)
	if err := w.bus.Publish(giveawayevents.GiveawayEndedV1, msg); err != nil {
		return fmt.Errorf("failed to publish giveaway ended event: %w", err)
	}

	return nil
}
