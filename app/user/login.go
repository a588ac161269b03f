package user

import (
	"net/http"

	"localpix/gallery-api/internal"
	"localpix/gallery-api/internal/account"
	"localpix/gallery-api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type loginBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func UserLogin(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data loginBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Username field can't be empty",
			"requestID": requestID,
		})
		return
	}

	if data.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Password field can't be empty",
			"requestID": requestID,
		})
		return
	}

	if err := d.Directory.Login(data.Username, data.Password); err != nil {
		if err == account.ErrInvalidCredentials {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":     "Invalid credentials",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to log in user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	token, err := middleware.MakeSessionToken(data.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to sign session token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// Sessions don't expire, the cookie just has to outlive the browser
	// restart
	c.SetCookie(middleware.SessionCookie, token, 60*60*24*365, "/", "", false, true)
	c.SetCookie("logged_in", "1", 60*60*24*365, "/", "", false, false)

	c.JSON(http.StatusOK, gin.H{
		"username": data.Username,
	})
}
