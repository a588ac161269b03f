package media

import (
	"net/http"

	"localpix/gallery-api/internal"
	"localpix/gallery-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func MediaEdit(c *gin.Context, d *internal.Deps) {
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

	var patch model.RecordPatch
	if err := c.BindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})

		zap.L().Error("Failed to read JSON body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if patch.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No edit options provided",
			"requestID": requestID,
		})
		return
	}

	if patch.Name != nil && *patch.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Empty name",
			"requestID": requestID,
		})
		return
	}

	record, found, err := d.Catalog.Update(username, mediaID, patch)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update record", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Media not found",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, record)
}
