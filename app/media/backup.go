package media

import (
	"fmt"
	"net/http"

	"localpix/gallery-api/internal"
	"localpix/gallery-api/internal/catalog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MediaBackup streams the full catalog as a pretty-printed JSON download.
// A failed backup changes nothing.
func MediaBackup(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	username := c.MustGet("username").(string)

	doc, err := d.Catalog.Backup(username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Backup failed. Your library was not modified",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create backup", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", catalog.BackupFilename(username)))
	c.Data(http.StatusOK, "application/json; charset=utf-8", doc)
}
