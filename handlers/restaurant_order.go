package handlers

import (
	"net/http"
	"strconv"

	"restaurant-console/middleware"
	"restaurant-console/models"
	"restaurant-console/orders"
	"restaurant-console/rolegate"
	"restaurant-console/validation"

	"github.com/gin-gonic/gin"
)

// MaxPerPage caps the per_page query parameter.
const MaxPerPage = 100

// queryInt reads an optional integer query parameter. A present but
// non-numeric value answers 400 and reports false.
func queryInt(c *gin.Context, key string, fallback int) (int, bool) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": key + " must be an integer"})
		return 0, false
	}
	return n, true
}

// ListOrders returns one page of the orders table
func (h *Handler) ListOrders(c *gin.Context) {
	var f orders.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return
	}
	perPage, ok := queryInt(c, "per_page", h.PageSize)
	if !ok {
		return
	}
	if perPage <= 0 {
		perPage = h.PageSize
	}
	perPage = min(perPage, MaxPerPage)

	matched, err := h.Orders.ListOrders(c.Request.Context(), f)
	if err != nil {
		h.respondError(c, err)
		return
	}
	decisions, err := h.decide(c, rolegate.PlaceOrder)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"filter":      f,
		"page":        orders.Paginate(matched, page, perPage),
		"affordances": decisions,
	})
}

// GetOrder returns the order detail with the status controls the caller gets
func (h *Handler) GetOrder(c *gin.Context) {
	o, err := h.Orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	decisions, err := h.decide(c, rolegate.OrderStatusSelector, rolegate.ItemStatusSelector)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"detail":      h.Orders.BuildDetail(o),
		"affordances": decisions,
	})
}

// GetOrderHistory returns the audit trail of status changes
func (h *Handler) GetOrderHistory(c *gin.Context) {
	rows, err := h.Orders.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": c.Param("id"), "count": len(rows), "history": rows})
}

// PlaceOrder checks out a cart
func (h *Handler) PlaceOrder(c *gin.Context) {
	if !h.requireInteractive(c, rolegate.PlaceOrder) {
		return
	}
	var req validation.CheckoutRequest
	if err := validation.BindAndValidate(c, &req, h.Validate); err != nil {
		return
	}
	checkout, err := req.Checkout()
	if err != nil {
		h.respondError(c, err)
		return
	}
	o, err := h.Orders.PlaceOrder(c.Request.Context(), checkout, middleware.GetUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed",
		"order":   o,
	})
}

func (h *Handler) bindStatus(c *gin.Context) (models.OrderStatus, string, bool) {
	var req validation.StatusRequest
	if err := validation.BindAndValidate(c, &req, h.Validate); err != nil {
		return "", "", false
	}
	status, err := models.ParseOrderStatus(req.Status)
	if err != nil {
		h.respondError(c, err)
		return "", "", false
	}
	return status, req.Note, true
}

func transitionResponse(res *orders.TransitionResult) gin.H {
	msg := "Order status updated"
	if !res.Changed {
		msg = "Status unchanged"
	}
	return gin.H{
		"message":         msg,
		"order_id":        res.Order.ID,
		"item_id":         res.ItemID,
		"previous_status": res.From,
		"current_status":  res.To,
		"changed":         res.Changed,
		"order":           res.Order,
	}
}

// UpdateOrderStatus sets the order-level status from the status selector
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	if !h.requireInteractive(c, rolegate.OrderStatusSelector) {
		return
	}
	status, note, ok := h.bindStatus(c)
	if !ok {
		return
	}
	res, err := h.Orders.SetOrderStatus(c.Request.Context(), c.Param("id"), status, middleware.GetUserID(c), note)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transitionResponse(res))
}

// UpdateItemStatus sets one item's status
func (h *Handler) UpdateItemStatus(c *gin.Context) {
	if !h.requireInteractive(c, rolegate.ItemStatusSelector) {
		return
	}
	status, note, ok := h.bindStatus(c)
	if !ok {
		return
	}
	res, err := h.Orders.SetItemStatus(c.Request.Context(), c.Param("id"), c.Param("itemId"), status, middleware.GetUserID(c), note)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transitionResponse(res))
}

// AdvanceOrder moves the order one step along the happy path
func (h *Handler) AdvanceOrder(c *gin.Context) {
	if !h.requireInteractive(c, rolegate.OrderStatusSelector) {
		return
	}
	res, err := h.Orders.Advance(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transitionResponse(res))
}
