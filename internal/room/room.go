// Package room abstracts the signaling connection between the presenter
// agent and a conversation room.
//
// The media pipeline (speech, avatar, turn detection) lives in the
// collaborator system on the other side of the connection; this package
// only carries the small event surface the orchestrator needs:
// participants joining, participant metadata changing, transcribed user
// utterances, and the disconnect signal.
package room

import "context"

// Participant is a remote participant with its raw metadata payload.
type Participant struct {
	Identity string `json:"identity"`
	Metadata string `json:"metadata"`
}

// Handlers receive room events. All callbacks are invoked from the
// room's read loop; handlers that block stall event delivery.
type Handlers struct {
	OnParticipantJoined         func(p Participant)
	OnParticipantMetadataChange func(p Participant)
	OnUserMessage               func(identity, text string)
	OnDisconnected              func()
}

// Room is one signaling connection.
type Room interface {
	// Connect establishes the connection, subscribing to all media.
	// Handlers must be set before Connect.
	Connect(ctx context.Context) error

	// Name returns the room name.
	Name() string

	// Participants returns the participants already present at connect
	// time. Later joins arrive through OnParticipantJoined.
	Participants() []Participant

	// SetHandlers registers event handlers.
	SetHandlers(h Handlers)

	// Say sends one agent utterance into the room.
	Say(ctx context.Context, text string) error

	// Close tears the connection down.
	Close() error
}
