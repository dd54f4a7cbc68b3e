package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"restaurant-console/logger"
	"restaurant-console/middleware"
	"restaurant-console/models"
	"restaurant-console/orders"
	"restaurant-console/rolegate"
	"restaurant-console/session"
	"restaurant-console/statemachine"
	"restaurant-console/store"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

// Handler serves the console API. Its fields are shared by every request.
type Handler struct {
	Orders   *orders.Service
	Sessions *session.Manager
	Policy   *rolegate.Policy
	Validate *validatorv10.Validate
	PageSize int
	Log      *slog.Logger
}

// respondError maps service errors onto status codes.
func (h *Handler) respondError(c *gin.Context, err error) {
	var terr *statemachine.TransitionError
	switch {
	case errors.As(err, &terr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Invalid state transition",
			"current_status":    terr.From,
			"requested":         terr.To,
			"reason":            err.Error(),
			"valid_next_states": statemachine.ValidTransitionsFrom(terr.From, terr.Mode),
		})
	case errors.Is(err, orders.ErrOrderNotFound), errors.Is(err, orders.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrUnknownStatus),
		errors.Is(err, models.ErrUnknownOrderType),
		errors.Is(err, orders.ErrInvalidFilter),
		errors.Is(err, orders.ErrEmptyOrder):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, orders.ErrNoFurtherAction),
		errors.Is(err, orders.ErrDerivedStatus),
		errors.Is(err, store.ErrVersionConflict),
		errors.Is(err, store.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrTotalsMismatch):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "request cancelled"})
	default:
		_ = c.Error(err)
		logger.FromContext(c.Request.Context(), h.Log).Error("unhandled error",
			logger.Action("respond_error"), logger.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// decide evaluates affordances for the caller.
func (h *Handler) decide(c *gin.Context, names ...string) (map[string]rolegate.Decision, error) {
	role, ok := middleware.GetRole(c)
	return h.Policy.DecideAll(role, ok, names...)
}

// requireInteractive refuses the request unless the caller may trigger the
// affordance. It writes the 403 itself and reports false.
func (h *Handler) requireInteractive(c *gin.Context, affordance string) bool {
	role, ok := middleware.GetRole(c)
	d, err := h.Policy.Decide(role, ok, affordance)
	if err != nil {
		h.respondError(c, err)
		return false
	}
	if !d.Interactive() {
		c.JSON(http.StatusForbidden, gin.H{
			"error":    "Your role cannot use this control",
			"role":     role,
			"decision": d,
		})
		return false
	}
	return true
}
