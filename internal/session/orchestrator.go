// Package session implements the presenter session orchestrator: one
// connection, one interaction log, one conversation.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/affanstats/Product-Presenter/internal/catalog"
	"github.com/affanstats/Product-Presenter/internal/convo"
	"github.com/affanstats/Product-Presenter/internal/domain"
	"github.com/affanstats/Product-Presenter/internal/interaction"
	"github.com/affanstats/Product-Presenter/internal/journal"
	"github.com/affanstats/Product-Presenter/internal/mailer"
	"github.com/affanstats/Product-Presenter/internal/prompt"
	"github.com/affanstats/Product-Presenter/internal/room"
	"github.com/affanstats/Product-Presenter/internal/tools"
)

// persistTimeout bounds the final interaction-log write at session end.
const persistTimeout = 5 * time.Second

// drainTimeout bounds how long session end waits for in-flight
// resolution tasks before cancelling them outright.
const drainTimeout = 5 * time.Second

// EngineFactory builds the conversational engine for a session once its
// tool registry exists.
type EngineFactory func(registry *tools.Registry) convo.Engine

// Config holds orchestrator dependencies.
type Config struct {
	Room         room.Room
	Catalog      *catalog.Client
	Interactions *journal.Journal
	Waitlist     *journal.Journal
	Mailer       *mailer.Mailer
	NewEngine    EngineFactory
	Logger       *slog.Logger
}

// Orchestrator runs one presenter session end to end: connect, resolve
// participant context, start the conversation, greet, then block until
// disconnect and finalize/persist the interaction log.
type Orchestrator struct {
	room         room.Room
	catalog      *catalog.Client
	interactions *journal.Journal
	newEngine    EngineFactory
	logger       *slog.Logger

	log      *interaction.Log
	sctx     *Context
	registry *tools.Registry

	// Resolution and message tasks are tracked so session end can
	// cancel and await them before the log is finalized. Without this,
	// an in-flight catalog fetch could write to an already-persisted
	// log.
	tasks      sync.WaitGroup
	taskCtx    context.Context
	taskCancel context.CancelFunc

	engineMu sync.Mutex
	engine   convo.Engine

	disconnectOnce sync.Once
	disconnected   chan struct{}
}

// New creates an orchestrator for one session.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Room == nil {
		return nil, fmt.Errorf("orchestrator requires a room")
	}
	if cfg.NewEngine == nil {
		return nil, fmt.Errorf("orchestrator requires an engine factory")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	o := &Orchestrator{
		room:         cfg.Room,
		catalog:      cfg.Catalog,
		interactions: cfg.Interactions,
		newEngine:    cfg.NewEngine,
		logger:       cfg.Logger,
		log:          interaction.NewLog(),
		sctx:         &Context{},
		disconnected: make(chan struct{}),
	}

	registry, err := tools.NewPresenterRegistry(tools.Deps{
		Log:      o.log,
		Waitlist: cfg.Waitlist,
		Mailer:   cfg.Mailer,
		Catalog:  cfg.Catalog,
		OnProductResolved: func(p *domain.ProductRecord) {
			o.sctx.SetProduct(p)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("build tool registry: %w", err)
	}
	o.registry = registry

	return o, nil
}

// SessionID returns the session identifier of the interaction log.
func (o *Orchestrator) SessionID() string {
	return o.log.SessionID()
}

// Run executes the session until the room disconnects or ctx is
// cancelled. The interaction log is finalized and persisted on every
// exit path once the room connection was established.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.taskCtx, o.taskCancel = context.WithCancel(context.WithoutCancel(ctx))

	o.room.SetHandlers(room.Handlers{
		OnParticipantJoined:         o.onParticipant,
		OnParticipantMetadataChange: o.onParticipant,
		OnUserMessage:               o.onUserMessage,
		OnDisconnected:              o.onDisconnected,
	})

	o.logger.Info("Connecting to room", "room", o.room.Name(), "session_id", o.log.SessionID())
	if err := o.room.Connect(ctx); err != nil {
		o.taskCancel()
		return fmt.Errorf("connect to room: %w", err)
	}
	defer o.finalizeAndPersist()

	// Resolve already-present participants synchronously so context is
	// available before the greeting, at the cost of one catalog round
	// trip per participant.
	for _, p := range o.room.Participants() {
		o.resolveParticipant(ctx, p)
	}

	return o.runConversation(ctx)
}

func (o *Orchestrator) runConversation(ctx context.Context) error {
	userName, userEmail, product := o.sctx.Snapshot()
	instructions := prompt.SystemPrompt + "\n" + prompt.BuildContext(userName, userEmail, product)

	engine := o.newEngine(o.registry)
	o.engineMu.Lock()
	o.engine = engine
	o.engineMu.Unlock()
	defer engine.Close()

	engine.Start(instructions)

	greeting, err := engine.Reply(ctx, prompt.Greeting(userName, product))
	if err != nil {
		o.logger.Warn("Failed to generate greeting", "error", err, "session_id", o.log.SessionID())
	} else if err := o.room.Say(ctx, greeting); err != nil {
		o.logger.Warn("Failed to deliver greeting", "error", err, "session_id", o.log.SessionID())
	}

	select {
	case <-o.disconnected:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// onParticipant handles both joins and metadata changes: resolution
// runs on a tracked goroutine, and overlapping resolutions for the same
// participant deliberately race with last-write-wins.
func (o *Orchestrator) onParticipant(p room.Participant) {
	o.tasks.Add(1)
	go func() {
		defer o.tasks.Done()
		o.resolveParticipant(o.taskCtx, p)
	}()
}

func (o *Orchestrator) resolveParticipant(ctx context.Context, p room.Participant) {
	if p.Metadata == "" {
		o.logger.Info("No metadata found on join", "identity", p.Identity)
		return
	}

	md, err := domain.ParseParticipantMetadata(p.Metadata)
	if err != nil {
		// Malformed metadata is non-fatal: the session continues with
		// no context.
		o.logger.Warn("Failed to parse participant metadata", "identity", p.Identity, "error", err)
		return
	}

	o.sctx.SetUser(md.UserName, md.UserEmail)

	if md.ProductQuery == "" || o.catalog == nil {
		return
	}

	product, err := o.catalog.Get(ctx, md.ProductQuery)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) || errors.Is(err, catalog.ErrDataNotFound) {
			o.logger.Warn("Product not found for metadata query", "product_id", md.ProductQuery)
		} else {
			o.logger.Error("Failed to fetch product details", "error", err, "product_id", md.ProductQuery)
		}
		return
	}

	o.logger.Info("Fetched product info", "product_id", product.ProductID, "product_name", product.ProductName)
	o.sctx.SetProduct(product)
	o.log.UpdateProductInfo(product.ProductID, product.ProductName)
}

// onUserMessage sniffs the utterance into the interaction log and hands
// it to the engine on a tracked goroutine so the room read loop is
// never blocked on a model round trip.
func (o *Orchestrator) onUserMessage(identity, text string) {
	sniffMessage(o.log, text)

	o.engineMu.Lock()
	engine := o.engine
	o.engineMu.Unlock()
	if engine == nil {
		o.logger.Warn("User message before conversation start", "identity", identity)
		return
	}

	o.tasks.Add(1)
	go func() {
		defer o.tasks.Done()

		reply, err := engine.HandleUserMessage(o.taskCtx, text)
		if err != nil {
			o.logger.Error("Failed to handle user message", "error", err, "session_id", o.log.SessionID())
			return
		}
		if err := o.room.Say(o.taskCtx, reply); err != nil {
			o.logger.Warn("Failed to deliver reply", "error", err, "session_id", o.log.SessionID())
		}
	}()
}

func (o *Orchestrator) onDisconnected() {
	o.disconnectOnce.Do(func() {
		o.logger.Info("Room disconnected", "session_id", o.log.SessionID())
		close(o.disconnected)
	})
}

// finalizeAndPersist is the guaranteed cleanup: outstanding tasks are
// drained (or cancelled after the drain timeout) before the log is
// finalized once and appended to the shared interaction log file. No
// task can write to the log after this point.
func (o *Orchestrator) finalizeAndPersist() {
	drained := make(chan struct{})
	go func() {
		o.tasks.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(drainTimeout):
		o.logger.Warn("Cancelling stalled session tasks", "session_id", o.log.SessionID())
		o.taskCancel()
		<-drained
	}
	o.taskCancel()

	o.log.Finalize()

	if o.interactions == nil {
		o.logger.Warn("Interaction log journal not configured, record discarded", "session_id", o.log.SessionID())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	record := o.log.Record()
	if err := o.interactions.AppendSync(ctx, record); err != nil {
		o.logger.Error("Failed to persist interaction log", "error", err, "session_id", record.SessionID)
		return
	}
	o.logger.Info("Interaction log saved",
		"session_id", record.SessionID,
		"product_id", record.ProductID,
		"questions", len(record.KeyQuestionsAsked),
		"conversion", record.ConversionTriggered,
		"follow_up_needed", record.FollowUpNeeded,
	)
}
