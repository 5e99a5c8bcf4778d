package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"jokebox/src/core/ports"
	"jokebox/src/infra/config"
)

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "user_id"

// LoginPath is the surface anonymous callers are redirected to when a
// protected route requires identity.
const LoginPath = "/login"

// CurrentUser decodes the session cookie on the request and returns the
// user id it carries.
//
// A missing cookie, a tampered cookie, and an expired cookie are all
// reported identically as ok=false; it never fails, so it is safe to call
// on every request.
func CurrentUser(c *gin.Context, codec ports.SessionCodec, cookieName string) (string, bool) {
	value, err := c.Cookie(cookieName)
	if err != nil || value == "" {
		return "", false
	}
	return codec.Decode(value)
}

// RequireCurrentUser resolves the session like CurrentUser, but anonymous
// callers are redirected to the login surface with the original path
// encoded as the return destination, and the handler chain is aborted.
//
// On ok=false the caller must return immediately; the response is already
// committed.
func RequireCurrentUser(c *gin.Context, codec ports.SessionCodec, cookieName string) (string, bool) {
	userID, ok := CurrentUser(c, codec, cookieName)
	if !ok {
		target := LoginPath + "?" + url.Values{"redirectTo": {c.Request.URL.Path}}.Encode()
		c.Redirect(http.StatusFound, target)
		c.Abort()
		return "", false
	}
	return userID, true
}

// RequireUser guards a route group: anonymous requests are redirected to
// the login surface, authenticated ones proceed with the user id stored
// in the context under UserIDKey.
func RequireUser(codec ports.SessionCodec, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := RequireCurrentUser(c, codec, cookieName)
		if !ok {
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// OptionalUser stores the session identity in the context when one is
// present and valid, and lets the request through either way.
func OptionalUser(codec ports.SessionCodec, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := CurrentUser(c, codec, cookieName); ok {
			c.Set(UserIDKey, userID)
		}
		c.Next()
	}
}

// GetUserID retrieves the authenticated user id from the gin context.
// Returns empty string if the request is anonymous.
func GetUserID(c *gin.Context) string {
	if id, exists := c.Get(UserIDKey); exists {
		if userID, ok := id.(string); ok {
			return userID
		}
	}
	return ""
}

// SetSessionCookie issues (or re-issues, overwriting) the session cookie.
func SetSessionCookie(c *gin.Context, cfg config.SessionConfig, token string) {
	c.SetCookie(cfg.CookieName, token, int(cfg.MaxAge.Seconds()), "/", "", cfg.Secure, true)
}

// ClearSessionCookie destroys the session by issuing an already-expired,
// empty cookie.
func ClearSessionCookie(c *gin.Context, cfg config.SessionConfig) {
	c.SetCookie(cfg.CookieName, "", -1, "/", "", cfg.Secure, true)
}
