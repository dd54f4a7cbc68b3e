package middleware

import (
	"net/http"
	"strings"

	"restaurant-console/models"
	"restaurant-console/session"

	"github.com/gin-gonic/gin"
)

const (
	ctxSession = "session"
	ctxUserID  = "userID"
	ctxRole    = "role"
)

// bearerToken reads the Authorization header, falling back to the session
// cookie set at login.
func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if v, err := c.Cookie(session.CookieSession); err == nil {
		return v
	}
	return ""
}

// AuthRequired resolves the session and injects it into the context
func AuthRequired(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header (Bearer <token>) or session cookie required"})
			c.Abort()
			return
		}
		s, err := sessions.Resolve(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}
		c.Set(ctxSession, s)
		c.Set(ctxUserID, s.User.ID)
		c.Set(ctxRole, s.User.Role)
		c.Next()
	}
}

// RoleRequired enforces that caller has one of the allowed roles
func RoleRequired(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerRole, ok := GetRole(c)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "Role not found in context"})
			c.Abort()
			return
		}
		for _, r := range roles {
			if callerRole == r {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Access denied. Required role(s): " + rolesString(roles),
		})
		c.Abort()
	}
}

func rolesString(roles []models.UserRole) string {
	s := make([]string, len(roles))
	for i, r := range roles {
		s[i] = string(r)
	}
	return strings.Join(s, ", ")
}

// GetSession returns the caller's session, if authenticated
func GetSession(c *gin.Context) (*session.Session, bool) {
	val, ok := c.Get(ctxSession)
	if !ok {
		return nil, false
	}
	s, ok := val.(*session.Session)
	return s, ok
}

// GetUserID extracts caller user ID from context, empty when anonymous
func GetUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// GetRole extracts caller role from context. ok is false when nobody is
// signed in.
func GetRole(c *gin.Context) (models.UserRole, bool) {
	val, ok := c.Get(ctxRole)
	if !ok {
		return "", false
	}
	r, ok := val.(models.UserRole)
	return r, ok
}
