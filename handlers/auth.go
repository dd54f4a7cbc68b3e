package handlers

import (
	"net/http"
	"time"

	"restaurant-console/middleware"
	"restaurant-console/session"
	"restaurant-console/validation"

	"github.com/gin-gonic/gin"
)

const rememberEmailFor = 30 * 24 * time.Hour

// Login authenticates a staff member and opens a session
func (h *Handler) Login(c *gin.Context) {
	var req validation.LoginRequest
	if err := validation.BindAndValidate(c, &req, h.Validate); err != nil {
		return
	}

	s, token, err := h.Sessions.Login(c.Request.Context(), req.Email, req.Password, req.Remember)
	if err != nil {
		h.respondError(c, err)
		return
	}

	maxAge := int(time.Until(s.ExpiresAt).Seconds())
	c.SetCookie(session.CookieSession, token, maxAge, "/", "", false, true)
	if req.Remember {
		c.SetCookie(session.CookieEmail, s.User.Email, int(rememberEmailFor.Seconds()), "/", "", false, false)
	} else {
		c.SetCookie(session.CookieEmail, "", -1, "/", "", false, false)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Login successful",
		"token":      token,
		"expires_at": s.ExpiresAt,
		"dashboard":  s.User.Role.DashboardRoute(),
		"user":       s.User,
	})
}

// Logout ends the session. The remembered email cookie is kept.
func (h *Handler) Logout(c *gin.Context) {
	if s, ok := middleware.GetSession(c); ok {
		h.Sessions.Logout(s.ID)
	}
	c.SetCookie(session.CookieSession, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GetProfile returns the signed-in user with every affordance decision
func (h *Handler) GetProfile(c *gin.Context) {
	s, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}
	decisions, err := h.decide(c, h.Policy.Names()...)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":        s.User,
		"dashboard":   s.User.Role.DashboardRoute(),
		"expires_at":  s.ExpiresAt,
		"affordances": decisions,
	})
}
