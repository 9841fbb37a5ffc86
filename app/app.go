// Package app wires configuration, storage, the event bus, the Discord
// transport, and the domain modules into one runnable application.
package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appeventbus "github.com/Night-Owls-Club/tavern-bot/app/eventbus"
	"github.com/Night-Owls-Club/tavern-bot/app/interaction"
	"github.com/Night-Owls-Club/tavern-bot/app/modules/giveaway"
	"github.com/Night-Owls-Club/tavern-bot/app/modules/guild"
	"github.com/Night-Owls-Club/tavern-bot/app/modules/ticket"
	"github.com/Night-Owls-Club/tavern-bot/app/modules/user"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/attr"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/eventbus"
	"github.com/Night-Owls-Club/tavern-bot/app/shared/observability"
	"github.com/Night-Owls-Club/tavern-bot/config"
	"github.com/Night-Owls-Club/tavern-bot/db/bundb"
	"github.com/Night-Owls-Club/tavern-bot/discord"
	"github.com/Night-Owls-Club/tavern-bot/discord/commands"
)

const httpShutdownTimeout = 5 * time.Second

// streamSubjects maps each JetStream stream to the subjects it captures.
var streamSubjects = map[string][]string{
	"guild":    {"guild.>"},
	"ticket":   {"ticket.>"},
	"user":     {"user.>"},
	"giveaway": {"giveaway.>"},
}

// App holds the application components.
type App struct {
	Config *config.Config
	Obs    *observability.Observability

	db       *bundb.DBService
	eventBus eventbus.EventBus
	session  *discordgo.Session

	guildModule    *guild.Module
	ticketModule   *ticket.Module
	userModule     *user.Module
	giveawayModule *giveaway.Module

	routers    []*message.Router
	httpServer *http.Server
}

// NewApp builds the full application graph.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	obs := observability.Init("tavern-bot", cfg.Observability.Environment)
	logger := obs.Logger

	dbService, err := bundb.NewBunDBService(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database service: %w", err)
	}

	bus, err := appeventbus.NewEventBus(ctx, cfg.NATS.URL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize event bus: %w", err)
	}

	for stream, subjects := range streamSubjects {
		if err := bus.CreateStream(ctx, stream, subjects...); err != nil {
			return nil, fmt.Errorf("failed to create stream %s: %w", stream, err)
		}
	}

	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentMessageContent

	messenger := discord.NewMessenger(session, logger)
	discord.NewGuildAnnouncer(session, bus, logger)
	resolver := interaction.NewResolver(messenger, logger, obs.Tracer, cfg.Discord.ResolveTimeout)

	watermillLogger := watermill.NewSlogLogger(logger)

	// Each module router gets its own instance so middleware stacks stay
	// per-module.
	guildMsgRouter, err := message.NewRouter(message.RouterConfig{}, watermillLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create guild router: %w", err)
	}
	userMsgRouter, err := message.NewRouter(message.RouterConfig{}, watermillLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create user router: %w", err)
	}

	guildModule, err := guild.NewGuildModule(ctx, obs, dbService.GuildDB, bus, guildMsgRouter)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize guild module: %w", err)
	}

	ticketModule, err := ticket.NewTicketModule(ctx, obs, dbService.GuildDB, messenger, bus, cfg.Discord.SuggestionsChannel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ticket module: %w", err)
	}

	userModule, err := user.NewUserModule(ctx, obs, dbService.UserDB, bus, userMsgRouter)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize user module: %w", err)
	}

	giveawayModule, err := giveaway.NewGiveawayModule(ctx, obs, dbService.GiveawayDB, dbService.GetDB(), cfg.Postgres.DSN, bus)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize giveaway module: %w", err)
	}

	dispatcher := commands.NewDispatcher(ctx, session, messenger, logger, cfg.Discord.CommandPrefix)
	commands.NewTicketCommands(ticketModule.TicketService, session, messenger).Register(dispatcher)
	commands.NewRoleCommands(guildModule.GuildService, resolver, session, messenger).Register(dispatcher)
	commands.NewUserCommands(userModule.UserService, messenger).Register(dispatcher)
	commands.NewGiveawayCommands(giveawayModule.GiveawayService, messenger).Register(dispatcher)

	return &App{
		Config:         cfg,
		Obs:            obs,
		db:             dbService,
		eventBus:       bus,
		session:        session,
		guildModule:    guildModule,
		ticketModule:   ticketModule,
		userModule:     userModule,
		giveawayModule: giveawayModule,
		routers:        []*message.Router{guildMsgRouter, userMsgRouter},
		httpServer:     newHTTPServer(cfg.Observability.MetricsAddress, obs),
	}, nil
}

// Run opens the gateway connection and blocks until ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	logger := a.Obs.Logger

	go func() {
		logger.Info("Serving health and metrics", attr.String("address", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", attr.Error(err))
		}
	}()

	for _, router := range a.routers {
		go func(r *message.Router) {
			if err := r.Run(ctx); err != nil {
				logger.Error("Message router stopped", attr.Error(err))
			}
		}(router)
	}

	var wg sync.WaitGroup
	for _, module := range []interface {
		Run(ctx context.Context, wg *sync.WaitGroup)
	}{a.guildModule, a.ticketModule, a.userModule, a.giveawayModule} {
		wg.Add(1)
		go module.Run(ctx, &wg)
	}

	if err := a.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord gateway: %w", err)
	}
	logger.Info("Gateway connection open")

	<-ctx.Done()
	wg.Wait()
	return nil
}

// Close shuts everything down in reverse dependency order.
func (a *App) Close() error {
	logger := a.Obs.Logger

	if err := a.session.Close(); err != nil {
		logger.Error("Failed to close discord session", attr.Error(err))
	}

	for _, module := range []interface{ Close() error }{
		a.giveawayModule, a.userModule, a.ticketModule, a.guildModule,
	} {
		if err := module.Close(); err != nil {
			logger.Error("Failed to close module", attr.Error(err))
		}
	}

	for _, router := range a.routers {
		if err := router.Close(); err != nil {
			logger.Error("Failed to close message router", attr.Error(err))
		}
	}

	if err := a.eventBus.Close(); err != nil {
		logger.Error("Failed to close event bus", attr.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shut down HTTP server", attr.Error(err))
	}

	if err := a.db.GetDB().Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

func newHTTPServer(address string, obs *observability.Observability) *http.Server {
	router := chi.NewRouter()
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{}))

	return &http.Server{
		Addr:    address,
		Handler: router,
	}
}
