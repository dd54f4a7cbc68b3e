package routes

import (
	"restaurant-console/handlers"
	"restaurant-console/middleware"
	"restaurant-console/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler) {
	r.GET("/health", h.Health)

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/login", h.Login)
		public.GET("/state-machine", h.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired(h.Sessions))
	{
		auth.POST("/auth/logout", h.Logout)
		auth.GET("/profile", h.GetProfile)

		auth.GET("/orders", h.ListOrders)
		auth.POST("/orders", h.PlaceOrder)
		auth.GET("/orders/:id", h.GetOrder)
		auth.GET("/orders/:id/history", h.GetOrderHistory)
		auth.PUT("/orders/:id/status", h.UpdateOrderStatus)
		auth.PUT("/orders/:id/items/:itemId/status", h.UpdateItemStatus)
		auth.POST("/orders/:id/advance", h.AdvanceOrder)
	}

	// ── Kitchen routes ─────────────────────────────────────────────
	kitchen := r.Group("/api/kitchen")
	kitchen.Use(middleware.AuthRequired(h.Sessions),
		middleware.RoleRequired(models.RoleAdmin, models.RoleManager, models.RoleChef))
	{
		kitchen.GET("/board", h.KitchenBoard)
		kitchen.POST("/orders/:id/advance", h.KitchenAdvance)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(h.Sessions))
	{
		admin.GET("/summary", middleware.RoleRequired(models.RoleAdmin, models.RoleManager), h.AdminSummary)
		admin.GET("/staff", middleware.RoleRequired(models.RoleAdmin), h.AdminStaff)
	}
}
