// Package convo drives the conversational layer for a presenter session.
package convo

import "context"

// Engine is the conversational collaborator behind the session
// orchestrator. One engine serves one session.
type Engine interface {
	// Start begins the conversation with the composed instruction
	// preamble. Must be called before Reply or HandleUserMessage.
	Start(instructions string)

	// Reply produces one model-initiated utterance following the given
	// instruction (used for the opening greeting).
	Reply(ctx context.Context, instructions string) (string, error)

	// HandleUserMessage processes one user utterance and returns the
	// agent's response, running any tool calls the model requests.
	HandleUserMessage(ctx context.Context, text string) (string, error)

	// Close releases resources.
	Close()
}
