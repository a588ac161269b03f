package media

import (
	"net/http"

	"localpix/gallery-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MediaDelete removes a record. Deleting an ID that's already gone still
// returns OK, the catalog treats it as a no-op.
func MediaDelete(c *gin.Context, d *internal.Deps) {
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

	if err := d.Catalog.Delete(username, mediaID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete record", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.Status(http.StatusOK)
}
