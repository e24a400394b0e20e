package assistant

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"eatery/internal/config"
	"eatery/internal/embedding"
	"eatery/internal/llm"
	"eatery/internal/menu"
)

const (
	maxMessageLength = 2000
	maxContextLimit  = 15
	minQueryLength   = 3
	maxSearchLimit   = 50
)

type ChatRequest struct {
	Message             string        `json:"message"`
	SessionID           string        `json:"session_id"`
	ConversationHistory []llm.Content `json:"conversation_history"`
	ContextLimit        *int          `json:"context_limit"`
}

type SearchRequest struct {
	Query     string   `json:"query"`
	Limit     *int     `json:"limit"`
	Threshold *float64 `json:"threshold"`
}

// Service validates assistant requests and runs them.
type Service struct {
	engine    *Engine
	embedder  embedding.Provider
	retriever Retriever
	cfg       config.Assistant
}

func NewService(engine *Engine, embedder embedding.Provider, retriever Retriever, cfg config.Assistant) *Service {
	return &Service{engine: engine, embedder: embedder, retriever: retriever, cfg: cfg}
}

// Chat runs one conversation turn. Invalid input is a *ValidationError and
// never reaches the model.
func (s *Service) Chat(ctx context.Context, req ChatRequest) (*TurnResult, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, &ValidationError{Field: "message", Message: "is required"}
	}
	if utf8.RuneCountInString(message) > maxMessageLength {
		return nil, &ValidationError{Field: "message", Message: fmt.Sprintf("must be at most %d characters", maxMessageLength)}
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		return nil, &ValidationError{Field: "session_id", Message: "is required"}
	}

	limit := s.cfg.Chat.Limit
	if req.ContextLimit != nil {
		if *req.ContextLimit < 1 || *req.ContextLimit > maxContextLimit {
			return nil, &ValidationError{Field: "context_limit", Message: fmt.Sprintf("must be between 1 and %d", maxContextLimit)}
		}
		limit = *req.ContextLimit
	}

	return s.engine.Run(ctx, TurnInput{
		SessionID:    sessionID,
		Message:      message,
		History:      req.ConversationHistory,
		ContextLimit: limit,
	})
}

// Search embeds the query and returns the ranked menu items above the
// threshold.
func (s *Service) Search(ctx context.Context, req SearchRequest) ([]menu.Item, error) {
	query := strings.TrimSpace(req.Query)
	if utf8.RuneCountInString(query) < minQueryLength {
		return nil, &ValidationError{Field: "query", Message: fmt.Sprintf("must be at least %d characters", minQueryLength)}
	}

	limit := s.cfg.Search.Limit
	if req.Limit != nil {
		if *req.Limit < 1 || *req.Limit > maxSearchLimit {
			return nil, &ValidationError{Field: "limit", Message: fmt.Sprintf("must be between 1 and %d", maxSearchLimit)}
		}
		limit = *req.Limit
	}

	floor := s.cfg.Search.Floor
	if req.Threshold != nil {
		if *req.Threshold < 0 || *req.Threshold > 1 {
			return nil, &ValidationError{Field: "threshold", Message: "must be between 0 and 1"}
		}
		floor = *req.Threshold
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, &UpstreamError{Stage: "embedding", Err: err}
	}

	items, err := s.retriever.SemanticSearch(ctx, vec, limit, floor)
	if err != nil {
		return nil, fmt.Errorf("search menu: %w", err)
	}
	return items, nil
}
