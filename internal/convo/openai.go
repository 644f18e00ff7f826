package convo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	openai "github.com/openai/openai-go/v3"

	"github.com/affanstats/Product-Presenter/internal/tools"
)

// maxToolRounds bounds the dispatch loop for a single turn so a model
// stuck requesting tools cannot spin forever.
const maxToolRounds = 8

// OpenAIEngine implements Engine on chat completions with function
// tools bridged from the session's tool registry.
type OpenAIEngine struct {
	client   openai.Client
	model    string
	registry *tools.Registry
	logger   *slog.Logger

	mu      sync.Mutex
	history []openai.ChatCompletionMessageParamUnion
}

// NewOpenAIEngine creates an engine for one session. The client reads
// its API key from the environment.
func NewOpenAIEngine(model string, registry *tools.Registry, logger *slog.Logger) *OpenAIEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAIEngine{
		client:   openai.NewClient(),
		model:    model,
		registry: registry,
		logger:   logger,
	}
}

// Start resets the conversation with the composed instructions.
func (e *OpenAIEngine) Start(instructions string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history = []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(instructions),
	}
}

// Reply produces one model-initiated utterance.
func (e *OpenAIEngine) Reply(ctx context.Context, instructions string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history = append(e.history, openai.SystemMessage(instructions))
	return e.runTurn(ctx)
}

// HandleUserMessage processes one user utterance.
func (e *OpenAIEngine) HandleUserMessage(ctx context.Context, text string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history = append(e.history, openai.UserMessage(text))
	return e.runTurn(ctx)
}

// Close releases resources.
func (e *OpenAIEngine) Close() {}

// runTurn calls the model, dispatching tool calls until the model
// answers with plain content. Caller holds e.mu.
func (e *OpenAIEngine) runTurn(ctx context.Context) (string, error) {
	for round := 0; round < maxToolRounds; round++ {
		resp, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Messages: e.history,
			Model:    e.model,
			Tools:    e.toolParams(),
		})
		if err != nil {
			return "", fmt.Errorf("chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("no choices in response")
		}

		message := resp.Choices[0].Message
		e.history = append(e.history, message.ToParam())

		if len(message.ToolCalls) == 0 {
			return message.Content, nil
		}

		for _, call := range message.ToolCalls {
			name := call.Function.Name
			result := e.registry.Dispatch(ctx, name, json.RawMessage(call.Function.Arguments))
			e.logger.Debug("Tool dispatched", "tool", name, "result", result)
			e.history = append(e.history, openai.ToolMessage(result, call.ID))
		}
	}
	return "", fmt.Errorf("tool dispatch did not settle after %d rounds", maxToolRounds)
}

func (e *OpenAIEngine) toolParams() []openai.ChatCompletionToolUnionParam {
	if e.registry == nil {
		return nil
	}
	all := e.registry.All()
	params := make([]openai.ChatCompletionToolUnionParam, 0, len(all))
	for _, t := range all {
		params = append(params, openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        t.Name,
			Description: openai.String(t.Description),
			Parameters:  openai.FunctionParameters(t.Schema),
		}))
	}
	return params
}
