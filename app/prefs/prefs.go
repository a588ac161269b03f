// Package prefs holds the UI preference endpoints (view mode, theme)
package prefs

import (
	"net/http"

	"localpix/gallery-api/config"
	"localpix/gallery-api/internal"
	"localpix/gallery-api/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultViewMode = "grid"
	defaultTheme    = "light"
)

type prefsBody struct {
	ViewMode *string `json:"viewMode,omitempty"`
	Theme    *string `json:"theme,omitempty"`
}

// PrefsFetch returns both preferences, falling back to defaults for keys
// never written.
func PrefsFetch(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	viewMode := defaultViewMode
	theme := defaultTheme

	if _, err := d.Store.Get(store.ViewModeKey, &viewMode); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to read view mode", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if _, err := d.Store.Get(store.ThemeKey, &theme); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to read theme", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"viewMode": viewMode,
		"theme":    theme,
	})
}

// PrefsUpdate writes whichever preferences the body carries.
func PrefsUpdate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data prefsBody
	if err := c.BindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})
		return
	}

	if data.ViewMode == nil && data.Theme == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No preferences provided",
			"requestID": requestID,
		})
		return
	}

	if data.ViewMode != nil {
		if !config.ValidViewMode(*data.ViewMode) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid view mode",
				"requestID": requestID,
			})
			return
		}

		if err := d.Store.Set(store.ViewModeKey, *data.ViewMode); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to write view mode", zap.Error(err), zap.String("requestID", requestID))
			return
		}
	}

	if data.Theme != nil {
		if !config.ValidTheme(*data.Theme) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid theme",
				"requestID": requestID,
			})
			return
		}

		if err := d.Store.Set(store.ThemeKey, *data.Theme); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to write theme", zap.Error(err), zap.String("requestID", requestID))
			return
		}
	}

	PrefsFetch(c, d)
}
