package room

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// envelope is the wire format exchanged with the signaling endpoint.
type envelope struct {
	Event        string        `json:"event"`
	Room         string        `json:"room,omitempty"`
	Subscribe    string        `json:"subscribe,omitempty"`
	Identity     string        `json:"identity,omitempty"`
	Metadata     string        `json:"metadata,omitempty"`
	Text         string        `json:"text,omitempty"`
	Participants []Participant `json:"participants,omitempty"`
}

// Wire event names.
const (
	eventConnect         = "connect"
	eventRoomState       = "room_state"
	eventParticipantJoin = "participant_connected"
	eventMetadataChanged = "participant_metadata_changed"
	eventUserMessage     = "user_message"
	eventAgentSay        = "agent_say"
	eventDisconnected    = "disconnected"
)

const connectStateTimeout = 10 * time.Second

// WebSocketRoom is a Room over a JSON-envelope websocket connection.
type WebSocketRoom struct {
	url    string
	name   string
	logger *slog.Logger

	mu           sync.Mutex
	conn         *websocket.Conn
	handlers     Handlers
	participants []Participant
	closed       bool
}

// NewWebSocketRoom creates a room client for the given signaling URL.
func NewWebSocketRoom(rawURL, name string, logger *slog.Logger) (*WebSocketRoom, error) {
	if _, err := url.Parse(rawURL); err != nil || rawURL == "" {
		return nil, fmt.Errorf("invalid room URL %q: %w", rawURL, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketRoom{url: rawURL, name: name, logger: logger}, nil
}

// SetHandlers registers event handlers. Must be called before Connect.
func (r *WebSocketRoom) SetHandlers(h Handlers) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = h
}

// Name returns the room name.
func (r *WebSocketRoom) Name() string {
	return r.name
}

// Connect dials the signaling endpoint, announces the agent with an
// all-media subscription, and waits for the initial room state before
// returning. Subsequent events are dispatched from a background read
// loop.
func (r *WebSocketRoom) Connect(ctx context.Context) error {
	conn, _, err := websocket.Dial(ctx, r.url, nil)
	if err != nil {
		return fmt.Errorf("dial room %s: %w", r.url, err)
	}

	hello := envelope{Event: eventConnect, Room: r.name, Subscribe: "all"}
	if err := writeJSON(ctx, conn, hello); err != nil {
		_ = conn.Close(websocket.StatusInternalError, "handshake failed")
		return fmt.Errorf("announce agent: %w", err)
	}

	// The endpoint answers the connect with a room_state snapshot of
	// already-present participants.
	stateCtx, cancel := context.WithTimeout(ctx, connectStateTimeout)
	defer cancel()
	state, err := readEnvelope(stateCtx, conn)
	if err != nil {
		_ = conn.Close(websocket.StatusInternalError, "handshake failed")
		return fmt.Errorf("read room state: %w", err)
	}
	if state.Event != eventRoomState {
		_ = conn.Close(websocket.StatusProtocolError, "unexpected handshake event")
		return fmt.Errorf("expected %s event, got %s", eventRoomState, state.Event)
	}

	r.mu.Lock()
	r.conn = conn
	r.participants = state.Participants
	r.mu.Unlock()

	go r.readLoop()

	r.logger.Info("Connected to room", "room", r.name, "participants", len(state.Participants))
	return nil
}

// Participants returns the participants present when the connection was
// established.
func (r *WebSocketRoom) Participants() []Participant {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Participant, len(r.participants))
	copy(out, r.participants)
	return out
}

// Say sends one agent utterance into the room.
func (r *WebSocketRoom) Say(ctx context.Context, text string) error {
	r.mu.Lock()
	conn := r.conn
	r.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("room is not connected")
	}
	return writeJSON(ctx, conn, envelope{Event: eventAgentSay, Text: text})
}

// Close tears the connection down. The read loop then fires the
// disconnect handler.
func (r *WebSocketRoom) Close() error {
	r.mu.Lock()
	conn := r.conn
	r.closed = true
	r.mu.Unlock()
	if conn == nil {
		return nil
	}
	return conn.Close(websocket.StatusNormalClosure, "session ended")
}

func (r *WebSocketRoom) readLoop() {
	for {
		env, err := readEnvelope(context.Background(), r.conn)
		if err != nil {
			r.mu.Lock()
			closed := r.closed
			handlers := r.handlers
			r.mu.Unlock()

			if !closed && !errors.Is(err, io.EOF) {
				r.logger.Warn("Room connection lost", "room", r.name, "error", err)
			}
			if handlers.OnDisconnected != nil {
				handlers.OnDisconnected()
			}
			return
		}

		r.mu.Lock()
		handlers := r.handlers
		r.mu.Unlock()

		switch env.Event {
		case eventParticipantJoin:
			if handlers.OnParticipantJoined != nil {
				handlers.OnParticipantJoined(Participant{Identity: env.Identity, Metadata: env.Metadata})
			}
		case eventMetadataChanged:
			if handlers.OnParticipantMetadataChange != nil {
				handlers.OnParticipantMetadataChange(Participant{Identity: env.Identity, Metadata: env.Metadata})
			}
		case eventUserMessage:
			if handlers.OnUserMessage != nil {
				handlers.OnUserMessage(env.Identity, env.Text)
			}
		case eventDisconnected:
			if handlers.OnDisconnected != nil {
				handlers.OnDisconnected()
			}
			return
		default:
			r.logger.Debug("Ignoring unknown room event", "event", env.Event)
		}
	}
}

func writeJSON(ctx context.Context, conn *websocket.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	return conn.Write(ctx, websocket.MessageText, data)
}

func readEnvelope(ctx context.Context, conn *websocket.Conn) (envelope, error) {
	_, data, err := conn.Read(ctx)
	if err != nil {
		return envelope{}, err
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}
