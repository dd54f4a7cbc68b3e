package handlers

import (
	"log/slog"
	"net/http"

	"restaurant-console/logger"
	"restaurant-console/middleware"
	"restaurant-console/orders"
	"restaurant-console/rolegate"

	"github.com/gin-gonic/gin"
)

// KitchenBoard returns the four status columns
func (h *Handler) KitchenBoard(c *gin.Context) {
	all, err := h.Orders.ListOrders(c.Request.Context(), orders.Filter{})
	if err != nil {
		h.respondError(c, err)
		return
	}
	columns, unknown := orders.KitchenBoard(all)
	if unknown > 0 {
		h.Log.Warn("orders with unknown status left off the board",
			logger.Action("kitchen_board"), slog.Int("count", unknown))
	}
	decisions, err := h.decide(c, rolegate.KitchenAdvance)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"columns":     columns,
		"count":       len(all),
		"affordances": decisions,
	})
}

// KitchenAdvance moves an order, or one item when ?item= is given, to its
// next status
func (h *Handler) KitchenAdvance(c *gin.Context) {
	if !h.requireInteractive(c, rolegate.KitchenAdvance) {
		return
	}
	ctx := c.Request.Context()
	actor := middleware.GetUserID(c)

	var (
		res *orders.TransitionResult
		err error
	)
	if itemID := c.Query("item"); itemID != "" {
		res, err = h.Orders.AdvanceItem(ctx, c.Param("id"), itemID, actor)
	} else {
		res, err = h.Orders.Advance(ctx, c.Param("id"), actor)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transitionResponse(res))
}
