package media

import (
	"net/http"

	"localpix/gallery-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MediaUpload ingests a multipart batch. Per-file failures exclude only
// that file and are reported by name; everything that processed cleanly
// lands in the catalog as one batch.
func MediaUpload(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	username := c.MustGet("username").(string)

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed multipart form",
			"requestID": requestID,
		})

		zap.L().Error("Failed to parse multipart form", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No files provided",
			"requestID": requestID,
		})
		return
	}

	category := c.PostForm("category")

	result, err := d.Ingestor.Do(c.Request.Context(), username, category, files)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to ingest upload batch", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, result)
}
