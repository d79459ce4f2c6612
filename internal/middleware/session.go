package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/deckhaven/deck-builder/backend/internal/models"
)

// SessionCookieName is the cookie carrying the login token.
const SessionCookieName = "deck_session"

const userIDKey = "userID"

// SessionAuth returns middleware that requires a valid login session.
// The token is read from the session cookie, or from an
// "Authorization: Bearer <token>" header for non-browser clients.
// Expired sessions are rejected and deleted.
func SessionAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Login required",
				"code":  "AUTH_REQUIRED",
			})
			return
		}

		var session models.Session
		if err := db.First(&session, "token = ?", token).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid session",
				"code":  "AUTH_INVALID_SESSION",
			})
			return
		}

		if session.IsExpired() {
			db.Delete(&session)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Session expired",
				"code":  "AUTH_SESSION_EXPIRED",
			})
			return
		}

		c.Set(userIDKey, session.UserID)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user id set by SessionAuth,
// or "" on unauthenticated requests.
func CurrentUserID(c *gin.Context) string {
	id, _ := c.Get(userIDKey)
	userID, _ := id.(string)
	return userID
}

func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}
