package router

import (
	"context"
	"net/http"
	"time"

	"eatery/internal/assistant"
	"eatery/internal/auth"
	"eatery/internal/cart"
	"eatery/internal/menu"
	"eatery/internal/middleware"
	"eatery/internal/order"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Dependencies are the handlers and collaborators mounted by New.
type Dependencies struct {
	Auth      *auth.Handler
	Tokens    middleware.TokenValidator
	Menus     *menu.Handler
	Carts     *cart.Handler
	Orders    *order.Handler
	Assistant *assistant.Handler

	CORSOrigins []string

	// Ping reports backing store health. Optional.
	Ping func(ctx context.Context) error
}

func New(d Dependencies) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.SessionHeader, auth.RegistrationKeyHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// ───────────────────────── HEALTH ─────────────────────────
	r.GET("/health", func(c *gin.Context) {
		if d.Ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := d.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ───────────────────────── AUTH ─────────────────────────
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", d.Auth.Register)
		authGroup.POST("/login", d.Auth.Login)
	}

	staff := []gin.HandlerFunc{
		middleware.AuthMiddleware(d.Tokens),
		middleware.RequireRole(auth.RoleStaff, auth.RoleAdmin),
	}

	// ───────────────────────── MENU ROUTES ─────────────────────────
	menus := r.Group("/menus")
	{
		menus.GET("", d.Menus.List)
		menus.GET("/search", d.Menus.List)
		menus.GET("/categories", d.Menus.Categories)
		menus.GET("/:id", d.Menus.Get)

		admin := menus.Group("", staff...)
		admin.POST("", d.Menus.Create)
		admin.PUT("/:id", d.Menus.Update)
		admin.DELETE("/:id", d.Menus.Delete)
		admin.POST("/:id/image", d.Menus.UploadImage)
		admin.POST("/embeddings", d.Menus.GenerateEmbeddings)
	}

	// ───────────────────────── SESSION ROUTES ─────────────────────────
	carts := r.Group("/cart", middleware.RequireSession())
	{
		carts.GET("", d.Carts.View)
		carts.POST("", d.Carts.Add)
		carts.DELETE("", d.Carts.Clear)
		carts.POST("/remove-multiple", d.Carts.RemoveMultiple)
		carts.PUT("/:id", d.Carts.Update)
		carts.PATCH("/:id", d.Carts.Update)
		carts.DELETE("/:id", d.Carts.Remove)
		carts.POST("/checkout", d.Orders.Checkout)
	}

	orders := r.Group("/orders")
	{
		orders.GET("", middleware.RequireSession(), d.Orders.List)
		orders.GET("/:order_number", d.Orders.Get)
		orders.GET("/:order_number/qr", d.Orders.QRCode)
		orders.PATCH("/:order_number/status", append(staff, d.Orders.UpdateStatus)...)
	}

	// ───────────────────────── ASSISTANT ─────────────────────────
	ai := r.Group("/ai")
	{
		ai.POST("/chat", d.Assistant.Chat)
		ai.POST("/search", d.Assistant.Search)
	}

	return r
}
