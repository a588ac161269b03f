package media

import (
	"net/http"

	"localpix/gallery-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func MediaCategories(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	username := c.MustGet("username").(string)

	categories, err := d.Catalog.Categories(username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to derive categories", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, categories)
}
