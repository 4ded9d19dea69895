package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"backoffice/internal/apperr"
	"backoffice/internal/authctx"
	"backoffice/pkg/response"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// Authenticator resolves a bearer or cookie token to the caller.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*authctx.Identity, error)
}

// CookieOptions controls the session cookie.
type CookieOptions struct {
	Name   string
	Secure bool
}

// SetSessionCookie sets the token as an HttpOnly cookie.
// Secure cookies use SameSite=None for cross-origin frontends, Lax otherwise.
func SetSessionCookie(c *gin.Context, opts CookieOptions, token string, ttl time.Duration) {
	c.SetSameSite(sameSite(opts.Secure))
	c.SetCookie(opts.Name, token, int(ttl.Seconds()), "/", "", opts.Secure, true)
}

func ClearSessionCookie(c *gin.Context, opts CookieOptions) {
	c.SetSameSite(sameSite(opts.Secure))
	c.SetCookie(opts.Name, "", -1, "/", "", opts.Secure, true)
}

func sameSite(secure bool) http.SameSite {
	if secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// tokenFromRequest tries the cookie first, then the Authorization header.
func tokenFromRequest(c *gin.Context, cookieName string) (string, bool) {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token, true
	}
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// RequireSession authenticates the request and stores the identity in both the
// gin context and the request context.
func RequireSession(auth Authenticator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := tokenFromRequest(c, cookieName)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authentication credentials were not provided"))
			return
		}

		id, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			status := http.StatusUnauthorized
			msg := "Invalid or expired session"
			if !apperr.IsType(err, apperr.ErrorTypeUnauthorized) {
				status = http.StatusInternalServerError
				msg = "Failed to verify session"
				_ = c.Error(err)
			}
			c.AbortWithStatusJSON(status, response.Error(status, msg))
			return
		}

		c.Set(identityKey, id)
		c.Request = c.Request.WithContext(authctx.With(c.Request.Context(), id))
		c.Next()
	}
}

// Identity returns the caller set by RequireSession, or nil.
func Identity(c *gin.Context) *authctx.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(*authctx.Identity); ok {
			return id
		}
	}
	return nil
}

// RequirePermission lets superusers through and otherwise requires every code.
// It must run after RequireSession.
func RequirePermission(codes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := Identity(c)
		if id == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authentication credentials were not provided"))
			return
		}
		for _, code := range codes {
			if !id.Has(code) {
				c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: missing permission '"+code+"'"))
				return
			}
		}
		c.Next()
	}
}

// RequireAnyPermission passes when the caller holds at least one of codes.
func RequireAnyPermission(codes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := Identity(c)
		if id == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authentication credentials were not provided"))
			return
		}
		for _, code := range codes {
			if id.Has(code) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: insufficient permissions"))
	}
}
