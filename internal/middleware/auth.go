package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/imyashkale/gatewayserver/internal/logger"
)

// Authentication middleware validates bearer JWT tokens issued by the
// Cognito M2M client. Claims are checked without signature verification;
// the gateway data plane performs full verification against the pool's
// JWKS, this layer only guards the management API.
func Authentication() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger.Debug("Authentication middleware invoked")

		authHeader := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if len(authHeader) < len(prefix) || !strings.HasPrefix(authHeader, prefix) {
			logger.WithField("path", c.Request.URL.Path).Warn("Authentication failed: missing or invalid authorization header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Missing or invalid authorization header",
			})
			return
		}

		tokenString := authHeader[len(prefix):]

		parts := strings.Split(tokenString, ".")
		if len(parts) != 3 {
			logger.WithFields(map[string]interface{}{
				"path":        c.Request.URL.Path,
				"parts_count": len(parts),
			}).Warn("Authentication failed: malformed token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "malformed_token",
				"message": fmt.Sprintf("JWT token must have 3 parts (header.payload.signature), got %d part(s)", len(parts)),
			})
			return
		}

		parser := jwt.NewParser(jwt.WithoutClaimsValidation())
		token, _, err := parser.ParseUnverified(tokenString, jwt.MapClaims{})
		if err != nil {
			logger.Debugf("Token parse error: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_token",
				"message": fmt.Sprintf("Failed to parse token: %v", err),
			})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_token",
				"message": "Invalid token claims",
			})
			return
		}

		if exp, ok := claims["exp"].(float64); ok {
			if time.Now().Unix() > int64(exp) {
				logger.WithField("path", c.Request.URL.Path).Warn("Authentication failed: token expired")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":   "token_expired",
					"message": "Token has expired",
				})
				return
			}
		}

		// Cognito client-credential tokens carry the client ID in 'sub'
		clientID, ok := claims["sub"].(string)
		if !ok {
			logger.WithField("path", c.Request.URL.Path).Warn("Authentication failed: missing subject in token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_token",
				"message": "Missing subject in token",
			})
			return
		}

		c.Set("client_id", clientID)
		c.Set("token_claims", claims)

		logger.WithFields(map[string]interface{}{
			"client_id": clientID,
			"path":      c.Request.URL.Path,
		}).Debug("Authentication successful")

		c.Next()
	}
}
