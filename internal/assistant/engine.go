package assistant

import (
	"context"
	"fmt"
	"log"
	"strings"

	"eatery/internal/config"
	"eatery/internal/embedding"
	"eatery/internal/llm"
	"eatery/internal/menu"
)

// Retriever finds menu items similar to an embedding.
type Retriever interface {
	SemanticSearch(ctx context.Context, embedding []float32, limit int, floor float64) ([]menu.Item, error)
}

// Executor runs a single function call.
type Executor interface {
	Execute(ctx context.Context, call llm.FunctionCall, sessionID string) FunctionResult
}

// emptyReplyAnswer stands in when the model answers without any text.
const emptyReplyAnswer = "Done! Is there anything else I can help you with?"

func answerText(text string) string {
	if strings.TrimSpace(text) == "" {
		return emptyReplyAnswer
	}
	return text
}

type turnState int

const (
	stateIdle turnState = iota
	stateAwaitingFirstReply
	stateDirect
	stateHasFunctionCalls
	stateAwaitingFinalReply
	stateDone
)

func (s turnState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateAwaitingFirstReply:
		return "awaiting_first_reply"
	case stateDirect:
		return "direct"
	case stateHasFunctionCalls:
		return "has_function_calls"
	case stateAwaitingFinalReply:
		return "awaiting_final_reply"
	case stateDone:
		return "done"
	}
	return fmt.Sprintf("turnState(%d)", int(s))
}

type TurnInput struct {
	SessionID    string
	Message      string
	History      []llm.Content
	ContextLimit int
}

type TurnResult struct {
	Answer string
	// Parts is the model message to append to the client transcript.
	Parts           []llm.Part
	FunctionCalls   []llm.FunctionCall
	FunctionResults []FunctionResult
	ContextItems    []menu.Item
	TotalTokens     int
}

// turn is the mutable state of one conversation turn.
type turn struct {
	in    TurnInput
	state turnState

	contents     []llm.Content
	contextItems []menu.Item

	reply   llm.Candidate
	calls   []llm.FunctionCall
	results []FunctionResult
	answer  string
	tokens  int
}

// Engine runs one chat turn: retrieve context, ask the model, execute any
// function calls, and ask again with their results. There is at most one
// function-calling round per turn.
type Engine struct {
	generator llm.Generator
	embedder  embedding.Provider
	retriever Retriever
	executor  Executor
	cfg       config.Assistant
}

func NewEngine(
	generator llm.Generator,
	embedder embedding.Provider,
	retriever Retriever,
	executor Executor,
	cfg config.Assistant,
) *Engine {
	return &Engine{
		generator: generator,
		embedder:  embedder,
		retriever: retriever,
		executor:  executor,
		cfg:       cfg,
	}
}

func (e *Engine) Run(ctx context.Context, in TurnInput) (*TurnResult, error) {
	t := &turn{in: in, state: stateIdle}

	for t.state != stateDone {
		var err error
		switch t.state {
		case stateIdle:
			err = e.prepare(ctx, t)
		case stateAwaitingFirstReply:
			err = e.firstReply(ctx, t)
		case stateDirect:
			t.answer = answerText(t.reply.Text())
			t.state = stateDone
		case stateHasFunctionCalls:
			e.dispatch(ctx, t)
		case stateAwaitingFinalReply:
			err = e.finalReply(ctx, t)
		default:
			err = fmt.Errorf("assistant: unexpected turn state %s", t.state)
		}
		if err != nil {
			log.Printf("[ASSISTANT] turn failed in state %s: %v", t.state, err)
			return nil, err
		}
	}

	return &TurnResult{
		Answer:          t.answer,
		Parts:           []llm.Part{llm.TextPart(t.answer)},
		FunctionCalls:   t.calls,
		FunctionResults: t.results,
		ContextItems:    t.contextItems,
		TotalTokens:     t.tokens,
	}, nil
}

// prepare retrieves context and assembles the first submission.
func (e *Engine) prepare(ctx context.Context, t *turn) error {
	limit := t.in.ContextLimit
	if limit <= 0 {
		limit = e.cfg.Chat.Limit
	}

	vec, err := e.embedder.Embed(ctx, t.in.Message)
	if err != nil {
		return &UpstreamError{Stage: "embedding", Err: err}
	}

	items, err := e.retriever.SemanticSearch(ctx, vec, limit, e.cfg.Chat.Floor)
	if err != nil {
		return fmt.Errorf("retrieve menu context: %w", err)
	}
	t.contextItems = items

	message := t.in.Message
	if len(items) > 0 {
		message = PromptWithContext(BuildContext(items), t.in.Message)
	}

	t.contents = append(SanitizeHistory(t.in.History), llm.Content{
		Role:  llm.RoleUser,
		Parts: []llm.Part{llm.TextPart(message)},
	})
	t.state = stateAwaitingFirstReply
	return nil
}

func (e *Engine) firstReply(ctx context.Context, t *turn) error {
	gen := e.cfg.Generation
	resp, err := e.generate(ctx, &llm.GenerateRequest{
		Contents:          t.contents,
		SystemInstruction: e.systemInstruction(),
		Tools:             Catalog(),
		GenerationConfig: &llm.GenerationConfig{
			Temperature:     gen.Temperature,
			TopK:            gen.TopK,
			TopP:            gen.TopP,
			MaxOutputTokens: gen.MaxOutputTokens,
		},
	})
	if err != nil {
		return err
	}

	t.reply = resp.Candidates[0]
	t.tokens += resp.UsageMetadata.TotalTokenCount
	t.calls = t.reply.FunctionCalls()

	if len(t.calls) == 0 {
		t.state = stateDirect
	} else {
		t.state = stateHasFunctionCalls
	}
	return nil
}

// dispatch runs every call sequentially in the order the model sent them.
func (e *Engine) dispatch(ctx context.Context, t *turn) {
	t.results = make([]FunctionResult, 0, len(t.calls))
	for _, call := range t.calls {
		t.results = append(t.results, e.executor.Execute(ctx, call, t.in.SessionID))
	}
	t.state = stateAwaitingFinalReply
}

// finalReply resubmits the conversation with one function-role message
// holding every result. The model's function-call message is not echoed
// back and no tools are offered.
func (e *Engine) finalReply(ctx context.Context, t *turn) error {
	parts := make([]llm.Part, 0, len(t.results))
	for _, r := range t.results {
		parts = append(parts, r.Part())
	}

	contents := make([]llm.Content, 0, len(t.contents)+1)
	contents = append(contents, t.contents...)
	contents = append(contents, llm.Content{Role: llm.RoleFunction, Parts: parts})

	resp, err := e.generate(ctx, &llm.GenerateRequest{
		Contents:          contents,
		SystemInstruction: e.systemInstruction(),
		GenerationConfig: &llm.GenerationConfig{
			Temperature:     e.cfg.Generation.Temperature,
			MaxOutputTokens: e.cfg.Generation.MaxOutputTokens,
		},
	})
	if err != nil {
		return err
	}

	t.tokens += resp.UsageMetadata.TotalTokenCount
	t.answer = answerText(resp.Candidates[0].Text())
	t.state = stateDone
	return nil
}

func (e *Engine) systemInstruction() *llm.Content {
	return &llm.Content{Parts: []llm.Part{llm.TextPart(e.cfg.SystemPrompt)}}
}

func (e *Engine) generate(ctx context.Context, req *llm.GenerateRequest) (*llm.GenerateResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	resp, err := e.generator.GenerateContent(ctx, req)
	if err != nil {
		return nil, &UpstreamError{Stage: "generation", Err: err}
	}
	if len(resp.Candidates) == 0 {
		return nil, &UpstreamError{Stage: "generation", Err: llm.ErrEmptyResponse}
	}
	return resp, nil
}
