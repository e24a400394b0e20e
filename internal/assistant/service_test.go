package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"eatery/internal/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(f *fixture, gen llm.Generator, emb *fixedEmbedder) *Service {
	cfg := testAssistantConfig()
	return NewService(NewEngine(gen, emb, f.menus, f.dispatch, cfg), emb, f.menus, cfg)
}

func intp(v int) *int { return &v }

func floatp(v float64) *float64 { return &v }

func TestChatValidation(t *testing.T) {
	cases := []struct {
		name  string
		req   ChatRequest
		field string
	}{
		{"blank message", ChatRequest{Message: "   ", SessionID: "s1"}, "message"},
		{"long message", ChatRequest{Message: strings.Repeat("a", maxMessageLength+1), SessionID: "s1"}, "message"},
		{"missing session", ChatRequest{Message: "hi"}, "session_id"},
		{"context limit zero", ChatRequest{Message: "hi", SessionID: "s1", ContextLimit: intp(0)}, "context_limit"},
		{"context limit too high", ChatRequest{Message: "hi", SessionID: "s1", ContextLimit: intp(16)}, "context_limit"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, nil)
			gen := &scriptedGenerator{}
			emb := &fixedEmbedder{vec: []float32{1, 0, 0}}

			_, err := newTestService(f, gen, emb).Chat(context.Background(), tc.req)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
			assert.Empty(t, gen.requests)
			assert.Zero(t, emb.calls)
		})
	}
}

func TestChatTrimsMessage(t *testing.T) {
	f := newFixture(t, nil)
	gen := &scriptedGenerator{responses: []*llm.GenerateResponse{textResponse("Hi!", 2)}}

	res, err := newTestService(f, gen, &fixedEmbedder{vec: []float32{0, 0, 1}}).Chat(context.Background(), ChatRequest{
		Message:      "  hello  ",
		SessionID:    "s1",
		ContextLimit: intp(15),
	})
	require.NoError(t, err)

	assert.Equal(t, "Hi!", res.Answer)
	assert.Equal(t, "hello", gen.requests[0].Contents[0].Parts[0].Text)
}

func TestSearchValidation(t *testing.T) {
	cases := []struct {
		req   SearchRequest
		field string
	}{
		{SearchRequest{Query: "ab"}, "query"},
		{SearchRequest{Query: "soup", Limit: intp(0)}, "limit"},
		{SearchRequest{Query: "soup", Limit: intp(51)}, "limit"},
		{SearchRequest{Query: "soup", Threshold: floatp(-0.1)}, "threshold"},
		{SearchRequest{Query: "soup", Threshold: floatp(1.5)}, "threshold"},
	}
	for _, tc := range cases {
		f := newFixture(t, nil)
		emb := &fixedEmbedder{vec: []float32{1, 0, 0}}

		_, err := newTestService(f, &scriptedGenerator{}, emb).Search(context.Background(), tc.req)

		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, tc.field, ve.Field)
		assert.Zero(t, emb.calls)
	}
}

func TestSearchRanksAndFilters(t *testing.T) {
	f := newFixture(t, nil)
	svc := newTestService(f, &scriptedGenerator{}, &fixedEmbedder{vec: []float32{1, 0, 0}})
	ctx := context.Background()

	items, err := svc.Search(ctx, SearchRequest{Query: "fried rice"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Nasi Goreng", items[0].Name)
	assert.Equal(t, "Sop Buntut", items[1].Name)
	assert.GreaterOrEqual(t, *items[0].Similarity, *items[1].Similarity)

	items, err = svc.Search(ctx, SearchRequest{Query: "fried rice", Threshold: floatp(0.995)})
	require.NoError(t, err)
	require.Len(t, items, 1)

	items, err = svc.Search(ctx, SearchRequest{Query: "fried rice", Limit: intp(1), Threshold: floatp(0)})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestSearchEmbeddingFailure(t *testing.T) {
	f := newFixture(t, nil)
	svc := newTestService(f, &scriptedGenerator{}, &fixedEmbedder{err: errors.New("quota exceeded")})

	_, err := svc.Search(context.Background(), SearchRequest{Query: "fried rice"})

	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "embedding", ue.Stage)
}
