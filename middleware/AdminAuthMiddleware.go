package middleware

import (
	"github.com/gin-gonic/gin"

	"git.sr.ht/~aondrejcak/trendify-api/assert"
	"git.sr.ht/~aondrejcak/trendify-api/auth"
	"git.sr.ht/~aondrejcak/trendify-api/kernel"
)

// AdminAuthMiddleware guards admin routes. The bearer token travels in
// a request header named "token", matching what the storefront already
// sends.
func AdminAuthMiddleware(tokens *auth.Tokens) gin.HandlerFunc {
	assert.NotNil(tokens, "tokens != nil")

	return func(c *gin.Context) {
		rt := c.MustGet("rt").(*kernel.RequestRuntime)

		rt.NewChildTracer("middleware.admin_auth").Advance()

		header := c.GetHeader("token")
		if header == "" {
			rt.Ef(401, "Unauthorized! Token is required.")
			return
		}

		principal, err := tokens.Verify(c.Request.Context(), header)
		if err != nil {
			rt.Ef(401, "Invalid or expired token. Please login again.")
			return
		}

		rt.AdminEmail = principal.Email
		c.Set("adminEmail", principal.Email)

		rt.EndBlock()
		c.Next()
	}
}
