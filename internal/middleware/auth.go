/*
Package middleware - request-scope authentication middleware

RequireAuth decodes the bearer token into a reqctx.Context and stores
it on the gin context; RequireRole gates a route on a minimum role
level. Signature verification (through api.DecodeRequestContext) is
the only crypto this layer performs; tokens are issued elsewhere.
Everything else (org scoping, state machines,
invariants) lives in the internal/* domain packages, which receive
the reqctx.Context, never the gin.Context.
*/
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shiftcore/workforce/internal/api"
	"github.com/shiftcore/workforce/internal/models/enums"
	"github.com/shiftcore/workforce/internal/reqctx"
)

const requestContextKey = "reqctx"

// AuthMiddleware decodes bearer tokens into reqctx.Context using a
// shared HMAC secret.
type AuthMiddleware struct {
	secret string
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: secret}
}

// RequireAuth rejects requests without a valid bearer token and stores
// the decoded reqctx.Context for downstream handlers.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := api.ExtractTokenFromHeader(c.GetHeader("Authorization"))
		if err != nil {
			if cookie, cerr := c.Cookie("access_token"); cerr == nil {
				token = cookie
				err = nil
			}
		}
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": err.Error()})
			c.Abort()
			return
		}

		rc, err := api.DecodeRequestContext(token, m.secret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(requestContextKey, rc)
		c.Next()
	}
}

// RequireRole gates the route on the caller's role level satisfying
// required. Must run after RequireAuth.
func (m *AuthMiddleware) RequireRole(required enums.RoleLevel) gin.HandlerFunc {
	return func(c *gin.Context) {
		rc, ok := GetRequestContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "missing request context"})
			c.Abort()
			return
		}
		if !rc.RequireRole(required) {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden", "message": "insufficient role level"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetRequestContext retrieves the reqctx.Context stashed by RequireAuth.
func GetRequestContext(c *gin.Context) (reqctx.Context, bool) {
	v, exists := c.Get(requestContextKey)
	if !exists {
		return reqctx.Context{}, false
	}
	rc, ok := v.(reqctx.Context)
	return rc, ok
}
