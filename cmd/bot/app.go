package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/kyogre/pkg/community"
	"github.com/Jacobbrewer1/kyogre/pkg/configuration"
	"github.com/Jacobbrewer1/kyogre/pkg/dataaccess"
	"github.com/Jacobbrewer1/kyogre/pkg/logging"
	"github.com/Jacobbrewer1/kyogre/pkg/prompt"
	"github.com/Jacobbrewer1/kyogre/pkg/request"
	"github.com/Jacobbrewer1/kyogre/pkg/resolver"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

// IApp is the interface for the application.
type IApp interface {
	// Log returns the logger.
	Log() *slog.Logger

	// Session returns the discord session.
	Session() *discordgo.Session

	// SettingsDal returns the settings data access layer.
	SettingsDal() dataaccess.SettingsDal

	// Broker returns the broker routing direct messages to configuration sessions.
	Broker() *prompt.Broker

	// StartConfiguration runs a configuration session in the background. The session is closed when it ends.
	StartConfiguration(sess *prompt.Session, guildID string, sections []string)

	// RegisterCommands registers the slash commands in a guild.
	RegisterCommands(guildID string) error

	// ForgetCommands drops the slash commands of a guild the bot has left.
	ForgetCommands(guildID string)
}

type App struct {
	// is the logger.
	*slog.Logger

	// ctx is cancelled when the application shuts down.
	ctx    context.Context
	cancel context.CancelFunc

	// r is the router for the application.
	r *mux.Router

	// svr is the server for the application.
	svr *http.Server

	// s is the discord session.
	s *discordgo.Session

	// eventNotifier is the channel for notifying of events.
	eventNotifier chan any

	settings     dataaccess.SettingsDal
	broker       *prompt.Broker
	configurator *configuration.Configurator

	// sessions tracks running configuration sessions so shutdown can wait for them.
	sessions sync.WaitGroup

	cmdMtx sync.Mutex

	// commands maps a guild ID to the ID of the configure command registered in it.
	commands map[string]string
}

// NewApp creates a new instance of App.
func NewApp(l *slog.Logger, r *mux.Router) *App {
	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		Logger:   l,
		ctx:      ctx,
		cancel:   cancel,
		r:        r,
		commands: make(map[string]string),
	}
}

func (a *App) Run() error {
	if err := connectMongo(a.ctx, a.Log()); err != nil {
		return err
	}
	a.settings = dataaccess.NewSettingsDal(a.Log())

	// Register bot.
	if err := a.RegisterBot(); err != nil {
		return fmt.Errorf("error registering bot: %w", err)
	}

	a.s.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		a.Info(fmt.Sprintf("Logged in as %s#%s", r.User.Username, r.User.Discriminator))
	})

	if err := a.RegisterDiscordHandlers(); err != nil {
		return fmt.Errorf("error registering discord handlers: %w", err)
	}

	// Start event listener.
	go a.eventListener()

	// Open websocket.
	if err := a.s.Open(); err != nil {
		return fmt.Errorf("error opening connection to Discord: %w", err)
	}

	// Register slash commands.
	if err := a.registerSlashCommands(); err != nil {
		return fmt.Errorf("error registering slash commands: %w", err)
	}

	a.Info("Bot is now running.")

	a.generateServer()
	a.setupRoutes()
	a.runServer()

	// Register listener for shutdown signal.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	sig := <-c
	a.Info("Received shutdown signal", slog.String("signal", sig.String()))
	return a.ShutdownHook()
}

func (a *App) ShutdownHook() error {
	// Reset the total number of guilds to 0.
	TotalDiscordGuilds.Set(0)

	// Stop configuration sessions. Nothing they collected is committed.
	a.cancel()
	a.sessions.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if a.svr != nil {
		if err := a.svr.Shutdown(ctx); err != nil {
			a.Error("Error shutting down monitoring server", slog.String(logging.KeyError, err.Error()))
		}
	}

	// Unregister slash commands.
	if err := a.unregisterSlashCommands(); err != nil {
		a.Error("Error unregistering slash commands", slog.String(logging.KeyError, err.Error()))
	}

	// Close the connection to Discord.
	if err := a.s.Close(); err != nil {
		return fmt.Errorf("error closing connection to Discord: %w", err)
	}

	if err := dataaccess.MongoDB.Disconnect(ctx); err != nil {
		return fmt.Errorf("error disconnecting from MongoDB: %w", err)
	}
	return nil
}

func (a *App) RegisterBot() error {
	// Default the number of guilds to 0.
	TotalDiscordGuilds.Set(0)

	dg, err := discordgo.New("Bot " + BotToken)
	if err != nil {
		return fmt.Errorf("error creating Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsAll)

	if a.eventNotifier == nil {
		// Create event notifier. It is buffered to prevent blocking.
		a.eventNotifier = make(chan any, 100)
	}

	dg.SetEventNotifier(a.eventNotifier)

	a.s = dg

	comm := community.New(a.Log(), dg)
	a.broker = prompt.NewBroker(a.Log(), comm, PromptOptions)
	a.configurator = configuration.NewConfigurator(a.Log(), a.settings, resolver.New(comm), comm, comm)
	return nil
}

func (a *App) runServer() {
	go func() {
		a.Info("Starting monitoring server", slog.String("addr", a.svr.Addr))
		if err := a.svr.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Error("Error starting monitoring server", slog.String(logging.KeyError, err.Error()))
			a.Warn("Monitoring server will not be available")
		}
	}()
}

func (a *App) setupRoutes() {
	// PathMetrics is the path for metrics.
	a.r.HandleFunc(PathMetrics, middlewareHttp(a.Log(), promhttp.Handler().ServeHTTP)).Methods(http.MethodGet)

	// PathHealth is the path for health check.
	a.r.HandleFunc(PathHealth, middlewareHttp(a.Log(), a.healthCheck())).Methods(http.MethodGet)

	// PathGuildSettings serves the committed settings of a guild.
	a.r.HandleFunc(PathGuildSettings, middlewareHttp(a.Log(), settingsHandler(a.Log(), a.settings))).Methods(http.MethodGet)

	// NotFoundHandler is the handler for 404.
	a.r.NotFoundHandler = request.NotFoundHandler(a.Log())

	// MethodNotAllowedHandler is the handler for 405.
	a.r.MethodNotAllowedHandler = request.MethodNotAllowedHandler(a.Log())
}

func (a *App) generateServer() {
	a.svr = &http.Server{
		Addr:              ":" + MonitoringPort,
		Handler:           a.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func (a *App) GetJoinedGuilds() ([]*discordgo.UserGuild, error) {
	guilds, err := a.s.UserGuilds(0, "", "")
	if err != nil {
		return nil, fmt.Errorf("error getting guilds: %w", err)
	}
	return guilds, nil
}

func (a *App) RegisterDiscordHandlers() error {
	// Bot joined guild.
	a.s.AddHandler(guildJoinedHandler(a))

	// Bot left guild.
	a.s.AddHandler(guildLeaveHandler(a))

	// Replies to configuration prompts.
	a.s.AddHandler(directMessageHandler(a))

	// Interaction create handler.
	a.s.AddHandler(interactionHandler(a, map[string]slashProcessor{
		configureCmdName: configureCmdProcessor,
	}))
	return nil
}

func (a *App) eventListener() {
	for e := range a.eventNotifier {
		switch t := e.(type) {
		case *discordgo.Event:
			if t.Type != "" {
				TotalDiscordEvents.WithLabelValues(t.Type).Inc()
			} else {
				// If there is no type, then use the operation name.
				TotalDiscordEvents.WithLabelValues(strings.ToUpper(t.Operation.String())).Inc()
			}
		default:
			a.Error("Unknown event type", slog.String("type", fmt.Sprintf("%T", e)))
			TotalDiscordEvents.WithLabelValues("UNKNOWN").Inc()
		}
	}
}

func (a *App) registerSlashCommands() error {
	// Get all guilds the bot is in.
	guilds, err := a.GetJoinedGuilds()
	if err != nil {
		return fmt.Errorf("error getting guilds: %w", err)
	}

	for _, g := range guilds {
		if err := a.RegisterCommands(g.ID); err != nil {
			return err
		}
	}
	return nil
}

// RegisterCommands registers the configure command in a guild unless it is already registered.
func (a *App) RegisterCommands(guildID string) error {
	a.cmdMtx.Lock()
	defer a.cmdMtx.Unlock()

	if _, ok := a.commands[guildID]; ok {
		return nil
	}

	cmd, err := a.s.ApplicationCommandCreate(ApplicationId, guildID, configureCmd)
	if err != nil {
		return fmt.Errorf("error creating configure command for guild %s: %w", guildID, err)
	}
	a.commands[guildID] = cmd.ID
	return nil
}

// ForgetCommands drops the registered command of a guild the bot has left.
func (a *App) ForgetCommands(guildID string) {
	a.cmdMtx.Lock()
	defer a.cmdMtx.Unlock()
	delete(a.commands, guildID)
}

func (a *App) unregisterSlashCommands() error {
	a.cmdMtx.Lock()
	defer a.cmdMtx.Unlock()

	var errs []error
	for guildID, cmdID := range a.commands {
		if err := a.s.ApplicationCommandDelete(ApplicationId, guildID, cmdID); err != nil {
			errs = append(errs, fmt.Errorf("error deleting configure command for guild %s: %w", guildID, err))
			continue
		}
		delete(a.commands, guildID)
	}
	return errors.Join(errs...)
}

// StartConfiguration runs a configuration session in the background.
func (a *App) StartConfiguration(sess *prompt.Session, guildID string, sections []string) {
	a.sessions.Add(1)
	ActiveConfigurations.Inc()

	go func() {
		defer a.sessions.Done()
		defer ActiveConfigurations.Dec()
		defer sess.Close()

		l := a.With(
			slog.String(logging.KeySessionID, sess.ID()),
			slog.String(logging.KeyUserID, sess.UserID()),
			slog.String(logging.KeyGuildID, guildID),
		)
		l.Info("Configuration started", slog.String("sections", strings.Join(sections, ",")))

		err := a.configurator.Run(a.ctx, guildID, sess, sections)
		switch {
		case err == nil:
			l.Info("Configuration completed")
		case errors.Is(err, prompt.ErrCancelled), errors.Is(err, prompt.ErrTimeout), errors.Is(err, context.Canceled):
			l.Info("Configuration ended without changes", slog.String("reason", err.Error()))
		default:
			l.Error("Configuration failed", slog.String(logging.KeyError, err.Error()))
		}
	}()
}

func (a *App) Log() *slog.Logger {
	return a.Logger
}

func (a *App) Session() *discordgo.Session {
	return a.s
}

func (a *App) SettingsDal() dataaccess.SettingsDal {
	return a.settings
}

func (a *App) Broker() *prompt.Broker {
	return a.broker
}
