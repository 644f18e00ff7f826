// Presenter agent worker: joins a room, resolves product/user context,
// and drives one conversational session per connection.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/affanstats/Product-Presenter/internal/catalog"
	"github.com/affanstats/Product-Presenter/internal/config"
	"github.com/affanstats/Product-Presenter/internal/convo"
	"github.com/affanstats/Product-Presenter/internal/journal"
	"github.com/affanstats/Product-Presenter/internal/mailer"
	"github.com/affanstats/Product-Presenter/internal/room"
	"github.com/affanstats/Product-Presenter/internal/session"
	"github.com/affanstats/Product-Presenter/internal/tools"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.Room.URL == "" {
		slog.Error("ROOM_URL is required for the agent worker")
		os.Exit(1)
	}

	slog.Info("Starting presenter agent", "room", cfg.Room.Name, "api_base_url", cfg.APIBaseURL)

	interactions, err := journal.New(journal.Config{
		Path:      cfg.Journal.InteractionLogPath,
		QueueSize: cfg.Journal.QueueSize,
	}, logger)
	if err != nil {
		slog.Error("Failed to initialize interaction log journal", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := interactions.Close(); closeErr != nil {
			slog.Error("Failed to close interaction log journal", "error", closeErr)
		}
	}()

	waitlist, err := journal.New(journal.Config{
		Path:      cfg.Journal.WaitlistPath,
		QueueSize: cfg.Journal.QueueSize,
	}, logger)
	if err != nil {
		slog.Error("Failed to initialize waitlist journal", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := waitlist.Close(); closeErr != nil {
			slog.Error("Failed to close waitlist journal", "error", closeErr)
		}
	}()

	roomConn, err := room.NewWebSocketRoom(cfg.Room.URL, cfg.Room.Name, logger)
	if err != nil {
		slog.Error("Failed to create room client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := roomConn.Close(); closeErr != nil {
			slog.Debug("Failed to close room connection", "error", closeErr)
		}
	}()

	orch, err := session.New(session.Config{
		Room:         roomConn,
		Catalog:      catalog.NewClient(cfg.APIBaseURL, nil),
		Interactions: interactions,
		Waitlist:     waitlist,
		Mailer:       mailer.New(cfg.Mail, logger),
		NewEngine: func(registry *tools.Registry) convo.Engine {
			return convo.NewOpenAIEngine(cfg.Engine.Model, registry, logger)
		},
		Logger: logger,
	})
	if err != nil {
		slog.Error("Failed to create session orchestrator", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := orch.Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("Session failed", "error", err, "session_id", orch.SessionID())
		os.Exit(1)
	}

	slog.Info("Session ended", "session_id", orch.SessionID())
}
