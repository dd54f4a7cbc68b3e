package handlers

import (
	"net/http"

	"restaurant-console/models"
	"restaurant-console/statemachine"

	"github.com/gin-gonic/gin"
)

// GetStateMachineInfo returns the order lifecycle for informational purposes
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	mode := h.Orders.Mode()
	targets := make(map[models.OrderStatus][]models.OrderStatus, len(models.Statuses))
	for _, s := range models.Statuses {
		targets[s] = statemachine.ValidTransitionsFrom(s, mode)
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   statemachine.GetAllTransitions(),
		"statuses":        models.Statuses,
		"terminal_states": []models.OrderStatus{models.StatusServed},
		"mode":            mode,
		"status_policy":   h.Orders.Policy(),
		"direct_targets":  targets,
		"description":     "Restaurant Order Lifecycle State Machine",
	})
}

// Health reports liveness
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "Restaurant Console API",
		"version": "1.0.0",
	})
}
