package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/certmint/certmint/core"
	"github.com/certmint/certmint/service"
)

const ctxWalletAddress = "walletAddress"

// AuthMiddleware creates middleware that validates bearer access tokens and
// puts the wallet address on the request context.
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")

		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "TOKEN_INVALID", "error": "invalid authorization header"})
			return
		}

		token := strings.TrimPrefix(auth, "Bearer ")

		session, err := authService.ValidateAccessToken(c.Request.Context(), token)
		if err != nil {
			code := "TOKEN_INVALID"
			if errors.Is(err, core.ErrTokenExpired) {
				code = "TOKEN_EXPIRED"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": code, "error": "invalid token"})
			return
		}

		c.Set(ctxWalletAddress, session.Address)

		c.Next()
	}
}

// walletFromContext returns the authenticated wallet address set by
// AuthMiddleware.
func walletFromContext(c *gin.Context) string {
	return c.GetString(ctxWalletAddress)
}
