package handlers

import (
	"net/http"

	"restaurant-console/models"
	"restaurant-console/orders"
	"restaurant-console/rolegate"

	"github.com/gin-gonic/gin"
)

// AdminSummary aggregates the order set for the dashboards. Revenue is only
// included for roles that see the revenue card.
func (h *Handler) AdminSummary(c *gin.Context) {
	all, err := h.Orders.ListOrders(c.Request.Context(), orders.Filter{})
	if err != nil {
		h.respondError(c, err)
		return
	}
	s := orders.Summarize(all)
	decisions, err := h.decide(c, rolegate.RevenueCard)
	if err != nil {
		h.respondError(c, err)
		return
	}

	body := gin.H{
		"order_summary": s.ByStatus,
		"by_type":       s.ByType,
		"items":         s.Items,
		"count":         s.Total,
		"affordances":   decisions,
	}
	if decisions[rolegate.RevenueCard].Visible() {
		body["total_revenue"] = s.Revenue.StringFixed(2)
	}
	c.JSON(http.StatusOK, body)
}

// AdminStaff lists the staff accounts, admin only
func (h *Handler) AdminStaff(c *gin.Context) {
	users := h.Sessions.Users()
	if q := c.Query("role"); q != "" {
		role, err := models.ParseRole(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filtered := users[:0]
		for _, u := range users {
			if u.Role == role {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}
