package discord

import (
	"encoding/json"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	guildevents "github.com/Night-Owls-Club/tavern-bot/app/events/guildevents"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/attr"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/eventbus"
	sharedtypes "github.com/Night-Owls-Club/tavern-bot/app/shared/types"
)

// GuildAnnouncer publishes guild lifecycle events onto the bus as the gateway
// reports them. GuildCreate fires once per guild on connect and again whenever
// the bot is invited somewhere new, so the setup request is idempotent
// downstream.
type GuildAnnouncer struct {
	bus    eventbus.EventBus
	logger *slog.Logger
}

// NewGuildAnnouncer wires a GuildCreate handler onto the session. Callers own
// the session lifecycle.
func NewGuildAnnouncer(session *discordgo.Session, bus eventbus.EventBus, logger *slog.Logger) *GuildAnnouncer {
	a := &GuildAnnouncer{bus: bus, logger: logger}
	session.AddHandler(a.handleGuildCreate)
	return a
}

func (a *GuildAnnouncer) handleGuildCreate(_ *discordgo.Session, event *discordgo.GuildCreate) {
	if event.Guild == nil || event.Unavailable {
		return
	}
	a.announceSetup(sharedtypes.GuildID(event.ID))
}

func (a *GuildAnnouncer) announceSetup(guildID sharedtypes.GuildID) {
	data, err := json.Marshal(&guildevents.GuildSetupRequestedPayloadV1{GuildID: guildID})
	if err != nil {
		a.logger.Error("Failed to marshal guild setup payload",
			attr.String("guild_id", string(guildID)),
			attr.Error(err),
		)
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set(eventbus.TopicMetadataKey, guildevents.GuildSetupRequestedV1)
	middleware.SetCorrelationID(uuid.NewString(), msg)

	if err := a.bus.Publish(guildevents.GuildSetupRequestedV1, msg); err != nil {
		a.logger.Error("Failed to publish guild setup request",
			attr.String("guild_id", string(guildID)),
			attr.Error(err),
		)
	}
}
