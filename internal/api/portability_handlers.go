package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetExport(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleSuccess(c, app.Logger(), app.Tracker().ExportData(), nil)
	}
}

// GetExportCSV streams the dose log as CSV, bypassing the JSON envelope.
func GetExportCSV(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", `attachment; filename="pill_log.csv"`)
		c.Status(http.StatusOK)
		if err := app.Tracker().ExportCSV(c.Writer); err != nil {
			app.Logger().Errorf("csv export failed mid-stream: %v", err)
		}
	}
}

func PostImport(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			HandleError(c, app.Logger(), err, 400, "Failed to read import body")
			return
		}

		if err := app.Tracker().ImportData(c.Request.Context(), raw); err != nil {
			HandleTrackerError(c, app.Logger(), err, "Import rejected")
			return
		}
		HandleSuccess(c, app.Logger(), nil, map[string]any{"imported": true})
	}
}

func PostReset(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		app.Tracker().ResetData(c.Request.Context())
		HandleSuccess(c, app.Logger(), nil, map[string]any{"reset": true})
	}
}
