package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL      = "https://generativelanguage.googleapis.com/v1beta"
	defaultTimeout      = 60 * time.Second
	defaultEmbedTimeout = 30 * time.Second
	maxErrorBody        = 512

	apiKeyHeader = "x-goog-api-key"
)

type GeminiClient struct {
	apiKey     string
	model      string
	embedModel string
	baseURL    string

	httpClient  *http.Client
	embedClient *http.Client
	limiter     *rate.Limiter
}

type GeminiOption func(*GeminiClient)

// WithBaseURL points the client at another endpoint, mostly for tests.
func WithBaseURL(u string) GeminiOption {
	return func(g *GeminiClient) { g.baseURL = u }
}

// WithTimeout bounds each generation request.
func WithTimeout(d time.Duration) GeminiOption {
	return func(g *GeminiClient) { g.httpClient = &http.Client{Timeout: d} }
}

// WithRequestsPerMinute throttles outbound calls. Zero or less disables it.
func WithRequestsPerMinute(rpm int) GeminiOption {
	return func(g *GeminiClient) {
		if rpm <= 0 {
			g.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		g.limiter = rate.NewLimiter(rate.Limit(float64(rpm)/60.0), rpm)
	}
}

func NewGeminiClient(apiKey, model, embedModel string, opts ...GeminiOption) *GeminiClient {
	g := &GeminiClient{
		apiKey:      apiKey,
		model:       model,
		embedModel:  embedModel,
		baseURL:     defaultBaseURL,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		embedClient: &http.Client{Timeout: defaultEmbedTimeout},
		limiter:     rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// --------------------------------------------------
// Generation
// --------------------------------------------------

// GenerateContent submits a conversation and returns the parsed reply.
// A reply without candidates is ErrEmptyResponse.
func (g *GeminiClient) GenerateContent(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	if g.apiKey == "" {
		return nil, errors.New("missing GEMINI_API_KEY")
	}
	if req == nil || len(req.Contents) == 0 {
		return nil, ErrEmptyInput
	}

	var out GenerateResponse
	if err := g.post(ctx, g.httpClient, g.endpoint(g.model, "generateContent"), req, &out); err != nil {
		return nil, err
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return nil, ErrEmptyResponse
	}
	return &out, nil
}

// --------------------------------------------------
// Embeddings
// --------------------------------------------------

type embedRequest struct {
	Model   string  `json:"model"`
	Content Content `json:"content"`
}

type embedResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

func (g *GeminiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if g.apiKey == "" {
		return nil, errors.New("missing GEMINI_API_KEY")
	}
	if text == "" {
		return nil, ErrEmptyInput
	}

	payload := embedRequest{
		Model:   "models/" + g.embedModel,
		Content: Content{Parts: []Part{TextPart(text)}},
	}

	var out embedResponse
	if err := g.post(ctx, g.embedClient, g.endpoint(g.embedModel, "embedContent"), payload, &out); err != nil {
		return nil, err
	}
	if len(out.Embedding.Values) == 0 {
		return nil, errors.New("gemini returned an empty embedding")
	}
	return out.Embedding.Values, nil
}

// --------------------------------------------------
// Transport
// --------------------------------------------------

func (g *GeminiClient) endpoint(model, method string) string {
	return fmt.Sprintf("%s/models/%s:%s", g.baseURL, model, method)
}

func (g *GeminiClient) post(ctx context.Context, client *http.Client, endpoint string, payload, out any) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("gemini rate limiter: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, g.apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := string(raw)
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return &APIError{StatusCode: resp.StatusCode, Body: msg}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode gemini response: %w", err)
	}
	return nil
}
