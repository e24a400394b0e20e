package cart

import (
	"errors"
	"net/http"
	"strconv"

	"eatery/internal/menu"
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
	switch {
	case errors.Is(err, menu.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu not found"})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
	case errors.Is(err, ErrMenuUnavailable):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Menu is not available"})
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrNoMenuIDs):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func lineID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cart item id"})
		return 0, false
	}
	return id, true
}

// --------------------------------------------------
// GET /cart
// --------------------------------------------------
func (h *Handler) View(c *gin.Context) {
	view, err := h.service.View(c.Request.Context(), c.GetString(middleware.SessionKey))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": view})
}

// --------------------------------------------------
// POST /cart
// --------------------------------------------------
type addRequest struct {
	MenuID   int64   `json:"menu_id" binding:"required,min=1"`
	Quantity *int    `json:"quantity" binding:"omitempty,min=1"`
	Notes    *string `json:"notes" binding:"omitempty,max=500"`
}

func (h *Handler) Add(c *gin.Context) {
	var req addRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	line, err := h.service.Add(c.Request.Context(), c.GetString(middleware.SessionKey), req.MenuID, qty, req.Notes)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": line.MenuName + " added to cart",
		"data":    line,
	})
}

// --------------------------------------------------
// PATCH /cart/:id
// --------------------------------------------------
func (h *Handler) Update(c *gin.Context) {
	id, ok := lineID(c)
	if !ok {
		return
	}

	var upd Update
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	line, err := h.service.Update(c.Request.Context(), c.GetString(middleware.SessionKey), id, upd)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart item updated", "data": line})
}

// --------------------------------------------------
// DELETE /cart/:id
// --------------------------------------------------
func (h *Handler) Remove(c *gin.Context) {
	id, ok := lineID(c)
	if !ok {
		return
	}

	if err := h.service.Remove(c.Request.Context(), c.GetString(middleware.SessionKey), id); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
}

// --------------------------------------------------
// POST /cart/remove-multiple
// --------------------------------------------------
func (h *Handler) RemoveMultiple(c *gin.Context) {
	var req struct {
		MenuIDs []int64 `json:"menu_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	removed, err := h.service.RemoveByMenuIDs(c.Request.Context(), c.GetString(middleware.SessionKey), req.MenuIDs)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Removed " + strconv.Itoa(removed) + " item(s) from cart",
		"removed_count": removed,
	})
}

// --------------------------------------------------
// DELETE /cart
// --------------------------------------------------
func (h *Handler) Clear(c *gin.Context) {
	if err := h.service.Clear(c.Request.Context(), c.GetString(middleware.SessionKey)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
