package media

import (
	"io"
	"net/http"

	"localpix/gallery-api/internal"
	"localpix/gallery-api/internal/catalog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MediaRestore replaces the whole catalog with an uploaded backup file.
// Full overwrite, not merge: restore is disaster recovery. A document
// that doesn't validate leaves the current catalog untouched.
func MediaRestore(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	username := c.MustGet("username").(string)

	fh, err := c.FormFile("backup")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No backup file provided",
			"requestID": requestID,
		})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to open backup file", zap.Error(err), zap.String("requestID", requestID))
		return
	}
	defer f.Close()

	doc, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to read backup file", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	count, err := d.Catalog.Restore(username, doc)
	if err != nil {
		if err == catalog.ErrInvalidBackupFormat {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid backup format. Your library was not modified",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to restore backup", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restored": count,
	})
}
