package user

import (
	"net/http"

	"localpix/gallery-api/internal"
	"localpix/gallery-api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserLogout clears the session identity. Logging out twice is fine.
func UserLogout(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	if err := d.Directory.Logout(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to clear session", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.SetCookie("logged_in", "", -1, "/", "", false, false)
	c.Status(http.StatusOK)
}
