package media

import (
	"net/http"

	"localpix/gallery-api/internal"
	"localpix/gallery-api/pkg/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MediaServe decodes the stored data URI and serves the raw bytes with
// the record's MIME type, so the browser can use a plain <img>/<video>
// src instead of hauling the base64 string around.
func MediaServe(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	username := c.MustGet("username").(string)

	mediaID := c.Param("id")

	record, found, err := d.Catalog.Find(username, mediaID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to load record", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Media not found",
			"requestID": requestID,
		})
		return
	}

	mime, data, err := util.DecodeDataURI(record.Content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Stored content is not a valid data URI",
			zap.String("mediaID", mediaID),
			zap.Error(err),
		)
		return
	}

	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, mime, data)
}
