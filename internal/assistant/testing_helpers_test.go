package assistant

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"eatery/internal/cart"
	"eatery/internal/config"
	"eatery/internal/llm"
	"eatery/internal/menu"
	"eatery/internal/order"

	"github.com/stretchr/testify/require"
)

// scriptedGenerator answers GenerateContent with queued responses and keeps
// every request it saw.
type scriptedGenerator struct {
	mu        sync.Mutex
	responses []*llm.GenerateResponse
	errs      []error
	requests  []*llm.GenerateRequest
}

func (g *scriptedGenerator) GenerateContent(ctx context.Context, req *llm.GenerateRequest) (*llm.GenerateResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	i := len(g.requests)
	g.requests = append(g.requests, req)
	if i < len(g.errs) && g.errs[i] != nil {
		return nil, g.errs[i]
	}
	if i >= len(g.responses) {
		return nil, errors.New("no scripted response")
	}
	return g.responses[i], nil
}

func textResponse(text string, tokens int) *llm.GenerateResponse {
	return &llm.GenerateResponse{
		Candidates: []llm.Candidate{{Content: llm.Content{
			Role:  llm.RoleModel,
			Parts: []llm.Part{llm.TextPart(text)},
		}}},
		UsageMetadata: llm.UsageMetadata{TotalTokenCount: tokens},
	}
}

func callResponse(tokens int, calls ...llm.FunctionCall) *llm.GenerateResponse {
	parts := make([]llm.Part, 0, len(calls))
	for i := range calls {
		parts = append(parts, llm.Part{FunctionCall: &calls[i]})
	}
	return &llm.GenerateResponse{
		Candidates:    []llm.Candidate{{Content: llm.Content{Role: llm.RoleModel, Parts: parts}}},
		UsageMetadata: llm.UsageMetadata{TotalTokenCount: tokens},
	}
}

type fixedEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (e *fixedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return e.vec, nil
}

type fixture struct {
	menus     *menu.InMemoryRepository
	carts     *cart.Service
	orders    *order.Service
	orderRepo *order.InMemoryRepository
	dispatch  *Dispatcher
}

// newFixture seeds Nasi Goreng (7), Es Jeruk (3) and an unavailable
// Sop Buntut (9). clearer replaces the cart store used at checkout when set.
func newFixture(t *testing.T, clearer order.CartLineRemover) *fixture {
	t.Helper()
	ctx := context.Background()

	menus := menu.NewInMemoryRepository()
	for _, item := range []menu.Item{
		{ID: 7, Name: "Nasi Goreng", Category: "Main Course", Price: 25000, IsAvailable: true},
		{ID: 3, Name: "Es Jeruk", Category: "Beverage", Price: 10000, IsAvailable: true},
		{ID: 9, Name: "Sop Buntut", Category: "Soup", Price: 55000, IsAvailable: false},
	} {
		item := item
		require.NoError(t, menus.Create(ctx, &item))
	}
	require.NoError(t, menus.SetEmbedding(ctx, 7, []float32{1, 0, 0}))
	require.NoError(t, menus.SetEmbedding(ctx, 3, []float32{0, 1, 0}))
	require.NoError(t, menus.SetEmbedding(ctx, 9, []float32{0.9, 0.1, 0}))

	cartRepo := cart.NewInMemoryRepository(menus)
	if clearer == nil {
		clearer = cartRepo
	}
	orderRepo := order.NewInMemoryRepository(clearer)
	carts := cart.NewService(cartRepo, menus)
	orders := order.NewService(orderRepo, cartRepo, nil)

	return &fixture{
		menus:     menus,
		carts:     carts,
		orders:    orders,
		orderRepo: orderRepo,
		dispatch:  NewDispatcher(carts, orders),
	}
}

func testAssistantConfig() config.Assistant {
	cfg := config.DefaultAssistant()
	cfg.Timeout = 5 * time.Second
	return cfg
}

func call(name string, args map[string]any) llm.FunctionCall {
	return llm.FunctionCall{Name: name, Args: args}
}
