package assistant

import (
	"errors"
	"log"
	"net/http"

	"eatery/internal/llm"
	"eatery/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) fail(c *gin.Context, err error) {
	var (
		ve *ValidationError
		ue *UpstreamError
	)
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": ve.Error(), "field": ve.Field})
	case errors.As(err, &ue):
		log.Printf("[ASSISTANT] %v", ue)
		c.JSON(http.StatusBadGateway, gin.H{"error": "AI service is unavailable, please try again"})
	default:
		log.Printf("[ASSISTANT] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process request"})
	}
}

type contextMenu struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

// --------------------------------------------------
// POST /ai/chat
// --------------------------------------------------
func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request body"})
		return
	}
	if req.SessionID == "" {
		req.SessionID = c.GetHeader(middleware.SessionHeader)
	}

	res, err := h.service.Chat(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	calls := res.FunctionCalls
	if calls == nil {
		calls = []llm.FunctionCall{}
	}
	results := res.FunctionResults
	if results == nil {
		results = []FunctionResult{}
	}
	menus := make([]contextMenu, 0, len(res.ContextItems))
	for _, item := range res.ContextItems {
		menus = append(menus, contextMenu{ID: item.ID, Name: item.Name, Category: item.Category, Price: item.Price})
	}

	c.JSON(http.StatusOK, gin.H{
		"user_message":     req.Message,
		"ai_response":      res.Answer,
		"parts":            res.Parts,
		"function_calls":   calls,
		"function_results": results,
		"metadata": gin.H{
			"context_menus_count": len(res.ContextItems),
			"total_tokens":        res.TotalTokens,
		},
		"context_menus": menus,
	})
}

// --------------------------------------------------
// POST /ai/search
// --------------------------------------------------
func (h *Handler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request body"})
		return
	}

	items, err := h.service.Search(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":         req.Query,
		"results_count": len(items),
		"results":       items,
	})
}
