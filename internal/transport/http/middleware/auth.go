package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mohdfarhan7/michelanglo/internal/domain"
)

const errUnauthorized = "Unauthorized"

// tokenVerifier is the subset of auth.TokenIssuer the middleware needs.
type tokenVerifier interface {
	Verify(raw string) (domain.Identity, error)
}

// Auth validates a Bearer JWT and sets "userID" and "userEmail" in the gin
// context. Verification is stateless: no database round-trip happens here.
func Auth(tokens tokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		identity, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		c.Set("userID", identity.UserID)
		c.Set("userEmail", identity.Email)
		c.Next()
	}
}
