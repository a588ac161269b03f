package middleware

import (
	"fmt"
	"net/http"
	"time"

	"localpix/gallery-api/internal/account"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// SessionCookie is the name of the signed cookie carrying the session
// identity.
const SessionCookie = "session_token"

// MakeSessionToken signs a session token for a username. Sessions don't
// expire, so there's deliberately no exp claim.
func MakeSessionToken(username string) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": username,
		"iat":      time.Now().Unix(),
	})

	return t.SignedString([]byte(viper.GetString("session.secret")))
}

// NewSessionMiddleware validates the session cookie and sets username on
// the context. Requests whose account has been removed from the directory
// are rejected even when the cookie still verifies.
func NewSessionMiddleware(dir *account.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		tokenStr, err := c.Cookie(SessionCookie)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Not logged in",
				"requestID": requestID,
			})
			return
		}

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
			}

			return []byte(viper.GetString("session.secret")), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Session token invalid",
				"requestID": requestID,
			})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Session token invalid",
				"requestID": requestID,
			})
			return
		}

		username, ok := claims["username"].(string)
		if !ok || username == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Session token invalid",
				"requestID": requestID,
			})
			return
		}

		exists, err := dir.Exists(username)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to check if user exists", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Account no longer exists",
				"requestID": requestID,
			})
			return
		}

		c.Set("username", username)
		c.Next()
	}
}
