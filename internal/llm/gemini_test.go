package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGeminiClient("test-key", "gemini-test", "embed-test", WithBaseURL(srv.URL))
}

func TestGenerateContentSendsPayload(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		assert.Empty(t, r.URL.RawQuery)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte(`{
			"candidates": [{"content": {"role": "model", "parts": [
				{"text": "Sure."},
				{"functionCall": {"name": "view_cart", "args": {}}}
			]}}],
			"usageMetadata": {"totalTokenCount": 42}
		}`))
	})

	resp, err := client.GenerateContent(context.Background(), &GenerateRequest{
		Contents:          []Content{{Role: RoleUser, Parts: []Part{TextPart("hi")}}},
		SystemInstruction: &Content{Parts: []Part{TextPart("be nice")}},
		Tools: []Tool{{FunctionDeclarations: []FunctionDeclaration{
			{Name: "view_cart", Description: "Show the cart"},
		}}},
		GenerationConfig: &GenerationConfig{Temperature: 0.7, TopK: 40, TopP: 0.95, MaxOutputTokens: 2048},
	})
	require.NoError(t, err)

	assert.Equal(t, 42, resp.UsageMetadata.TotalTokenCount)
	calls := resp.Candidates[0].FunctionCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "view_cart", calls[0].Name)
	assert.Equal(t, "Sure.", resp.Candidates[0].Text())

	assert.Contains(t, got, "system_instruction")
	assert.Contains(t, got, "tools")
	cfg := got["generationConfig"].(map[string]any)
	assert.Equal(t, 40.0, cfg["topK"])
	assert.Equal(t, 2048.0, cfg["maxOutputTokens"])
}

func TestGenerateContentOmitsToolsWhenAbsent(t *testing.T) {
	var raw []byte
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		raw = body
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	})

	_, err := client.GenerateContent(context.Background(), &GenerateRequest{
		Contents: []Content{{Role: RoleUser, Parts: []Part{TextPart("hi")}}},
	})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "tools")
	assert.NotContains(t, string(raw), "system_instruction")
}

func TestGenerateContentNon2xx(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota"}}`))
	})

	_, err := client.GenerateContent(context.Background(), &GenerateRequest{
		Contents: []Content{{Role: RoleUser, Parts: []Part{TextPart("hi")}}},
	})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "quota")
}

func TestTransportErrorOmitsAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := NewGeminiClient("secret-key", "gemini-test", "embed-test", WithBaseURL(srv.URL))

	_, err := client.GenerateContent(context.Background(), &GenerateRequest{
		Contents: []Content{{Role: RoleUser, Parts: []Part{TextPart("hi")}}},
	})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret-key")
}

func TestGenerateContentEmptyCandidates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := client.GenerateContent(context.Background(), &GenerateRequest{
		Contents: []Content{{Role: RoleUser, Parts: []Part{TextPart("hi")}}},
	})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGenerateContentMalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := client.GenerateContent(context.Background(), &GenerateRequest{
		Contents: []Content{{Role: RoleUser, Parts: []Part{TextPart("hi")}}},
	})
	assert.ErrorContains(t, err, "decode gemini response")
}

func TestGenerateContentMissingKey(t *testing.T) {
	client := NewGeminiClient("", "m", "e")
	_, err := client.GenerateContent(context.Background(), &GenerateRequest{
		Contents: []Content{{Role: RoleUser, Parts: []Part{TextPart("hi")}}},
	})
	assert.ErrorContains(t, err, "GEMINI_API_KEY")
}

func TestEmbed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/embed-test:embedContent"))

		var body embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "models/embed-test", body.Model)
		assert.Equal(t, "nasi goreng", body.Content.Parts[0].Text)

		_, _ = w.Write([]byte(`{"embedding":{"values":[0.1,0.2,0.3]}}`))
	})

	vec, err := client.Embed(context.Background(), "nasi goreng")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestEmbedRejectsEmptyText(t *testing.T) {
	client := NewGeminiClient("k", "m", "e")
	_, err := client.Embed(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestEmbedEmptyVector(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"embedding":{"values":[]}}`))
	})
	_, err := client.Embed(context.Background(), "x")
	assert.Error(t, err)
}

func TestRateLimiterHonoursContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"embedding":{"values":[1]}}`))
	})
	WithRequestsPerMinute(1)(client)

	_, err := client.Embed(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.Embed(ctx, "second")
	assert.ErrorContains(t, err, "rate limiter")
}

func TestCandidateHelpers(t *testing.T) {
	c := Candidate{Content: Content{Parts: []Part{
		{FunctionCall: &FunctionCall{Name: "a"}},
		{Text: "one"},
		{FunctionCall: &FunctionCall{Name: "b"}},
		{Text: "two"},
	}}}

	calls := c.FunctionCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, "a", calls[0].Name)
	assert.Equal(t, "b", calls[1].Name)
	assert.Equal(t, "one\ntwo", c.Text())
	assert.True(t, Part{}.IsEmpty())
}
