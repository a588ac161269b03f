package media

import (
	"net/http"

	"localpix/gallery-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func MediaView(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	username := c.MustGet("username").(string)

	mediaID := c.Param("id")
	if mediaID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No media ID provided",
			"requestID": requestID,
		})
		return
	}

	views, found, err := d.Catalog.IncrementView(username, mediaID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to increment view count", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Media not found",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"viewCount": views,
	})
}
