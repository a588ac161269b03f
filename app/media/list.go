// Package media holds the catalog endpoints: browse, upload, edit,
// delete, view counting, raw serving and backup/restore
package media

import (
	"net/http"

	"localpix/gallery-api/internal"
	"localpix/gallery-api/internal/catalog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MediaList returns the filtered projection of the user's catalog.
// With no search term and no category (or the "All" sentinel) that's the
// whole catalog, newest first. Filtering never reorders.
func MediaList(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	username := c.MustGet("username").(string)

	search := c.Query("search")
	category := c.DefaultQuery("category", catalog.AllCategories)

	records, err := d.Catalog.Records(username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to load catalog", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, catalog.Filter(records, search, category))
}
