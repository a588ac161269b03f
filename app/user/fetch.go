package user

import (
	"net/http"

	"localpix/gallery-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserFetch returns the session identity plus cheap catalog stats for the
// header bar.
func UserFetch(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	username := c.MustGet("username").(string)

	records, err := d.Catalog.Records(username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to load catalog", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	var totalBytes int64
	var totalViews int

	for _, r := range records {
		totalBytes += r.SizeBytes
		totalViews += r.ViewCount
	}

	c.JSON(http.StatusOK, gin.H{
		"username":   username,
		"mediaCount": len(records),
		"totalBytes": totalBytes,
		"totalViews": totalViews,
	})
}
