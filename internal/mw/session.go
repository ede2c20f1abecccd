package mw

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"brewery-catalog/internal/session"
)

// SessionKey is the gin context key holding the caller's session id.
const SessionKey = "session_id"

// Session makes sure every request carries a session cookie and exposes the
// id under SessionKey.
func Session(cookieName string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cookieName)
		if err != nil || id == "" {
			id = session.NewID()
		}

		// Refresh the cookie so it lives as long as the server-side state.
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookieName, id, int(ttl.Seconds()), "/", "", false, true)

		c.Set(SessionKey, id)
		c.Next()
	}
}

// SessionID returns the id stored by Session.
func SessionID(c *gin.Context) string {
	return c.GetString(SessionKey)
}
