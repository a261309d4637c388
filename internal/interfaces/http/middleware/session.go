// internal/interfaces/http/middleware/session.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/your-org/bakehouse-backend/internal/config"
)

// ContextSessionID is the gin context key for the browser session id
const ContextSessionID = "session_id"

// SessionCookie makes sure every request carries a browser session id. The
// cart is keyed by it, so an existing cookie is reused and a new one issued
// only when missing or malformed.
func SessionCookie(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cfg.Cart.CookieName)
		if err != nil || uuid.Validate(sessionID) != nil {
			sessionID = uuid.NewString()
		}

		// refresh on every request so an active cart does not expire
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     cfg.Cart.CookieName,
			Value:    sessionID,
			Path:     "/",
			MaxAge:   cfg.Cart.CookieMaxAge,
			HttpOnly: true,
			Secure:   cfg.Security.SecureCookies,
			SameSite: http.SameSiteLaxMode,
		})

		c.Set(ContextSessionID, sessionID)
		c.Next()
	}
}

// GetSessionID returns the session id set by SessionCookie
func GetSessionID(c *gin.Context) string {
	return c.GetString(ContextSessionID)
}
