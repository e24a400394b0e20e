package order

import (
	"errors"
	"net/http"

	"eatery/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	qr      *QRGenerator
}

func NewHandler(service *Service, qr *QRGenerator) *Handler {
	return &Handler{service: service, qr: qr}
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrCartEmpty):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// --------------------------------------------------
// POST /cart/checkout
// --------------------------------------------------
func (h *Handler) Checkout(c *gin.Context) {
	var in CheckoutInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
	}

	o, err := h.service.Checkout(c.Request.Context(), c.GetString(middleware.SessionKey), in)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"data":    o,
	})
}

// --------------------------------------------------
// GET /orders (current session)
// --------------------------------------------------
func (h *Handler) List(c *gin.Context) {
	orders, err := h.service.ListBySession(c.Request.Context(), c.GetString(middleware.SessionKey))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": orders})
}

// --------------------------------------------------
// GET /orders/:order_number
// --------------------------------------------------
func (h *Handler) Get(c *gin.Context) {
	o, err := h.service.GetByNumber(c.Request.Context(), c.Param("order_number"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": o})
}

// --------------------------------------------------
// GET /orders/:order_number/qr
// --------------------------------------------------
func (h *Handler) QRCode(c *gin.Context) {
	number := c.Param("order_number")
	if _, err := h.service.GetByNumber(c.Request.Context(), number); err != nil {
		h.fail(c, err)
		return
	}

	png, err := h.qr.PNG(number)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// --------------------------------------------------
// PATCH /orders/:order_number/status (staff)
// --------------------------------------------------
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status Status `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	o, err := h.service.UpdateStatus(c.Request.Context(), c.Param("order_number"), req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "data": o})
}
