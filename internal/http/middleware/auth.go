// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the request guards of the API: bearer-token
// authentication, the role gate for staff-only routes, and the
// store-readiness gate that keeps data-touching routes away from a store
// that was never connected.
//
// Guard semantics follow the service's error taxonomy: a missing or invalid
// token makes the request anonymous (Authenticate never rejects by itself),
// RequireAuth turns anonymity into 401, RequireStaff turns a plain "user"
// role into 403, and RequireStore turns a degraded process into 503.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-helpdesk-backend/internal/domain"
)

// Context keys for the authenticated identity.
const (
	// ctxUserKey holds the *domain.User resolved from the bearer token.
	ctxUserKey = "currentUser"
	// ctxUserIDKey holds the user's hex id; the rate limiter and access
	// logs key off it.
	ctxUserIDKey = "userID"
)

// TokenAuthenticator resolves a bearer token to a live user record.
// Implemented by services.AuthService.
type TokenAuthenticator interface {
	UserFromToken(ctx context.Context, token string) (*domain.User, error)
}

// StoreChecker reports whether the document store was successfully
// connected at startup. Implemented by repo.Store (nil-receiver safe).
type StoreChecker interface {
	Ready() bool
}

// Authenticate resolves the Authorization: Bearer header to a user and
// stores it in the Gin context. Any failure (missing header, malformed or
// expired token, unknown subject) fails silently into "no identity";
// downstream guards decide whether that is acceptable for the route.
func Authenticate(a TokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			c.Next()
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if token == "" {
			c.Next()
			return
		}

		u, err := a.UserFromToken(c.Request.Context(), token)
		if err != nil || u == nil {
			c.Next()
			return
		}
		c.Set(ctxUserKey, u)
		c.Set(ctxUserIDKey, u.ID.Hex())
		c.Next()
	}
}

// CurrentUser returns the authenticated user from the Gin context, or nil
// when the request is anonymous.
func CurrentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(ctxUserKey); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}

// SetCurrentUser injects an identity into the Gin context. Exposed for
// handler tests that bypass Authenticate.
func SetCurrentUser(c *gin.Context, u *domain.User) {
	c.Set(ctxUserKey, u)
	c.Set(ctxUserIDKey, u.ID.Hex())
}

// RequireAuth blocks anonymous requests with 401.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": c.Writer.Header().Get("X-Request-ID"),
				"code":       "unauthorized",
				"message":    "authentication required",
			})
			return
		}
		c.Next()
	}
}

// RequireStaff blocks requests whose identity holds the plain "user" role
// (or no identity at all) with 403. Apply after RequireAuth.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil || !u.IsStaff() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"request_id": c.Writer.Header().Get("X-Request-ID"),
				"code":       "forbidden",
				"message":    "insufficient role",
			})
			return
		}
		c.Next()
	}
}

// RequireStore rejects all requests with 503 while the store is not
// connected. The process still answers health checks and metrics, which are
// mounted outside this guard.
func RequireStore(st StoreChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if st == nil || !st.Ready() {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"request_id": c.Writer.Header().Get("X-Request-ID"),
				"code":       "store_unavailable",
				"message":    "document store is not available",
			})
			return
		}
		c.Next()
	}
}
