package api

import (
	"github.com/gin-gonic/gin"

	"github.com/SysAdminDoc/PillSleepTracker/internal/tracker"
)

func GetSettings(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleSuccess(c, app.Logger(), app.Tracker().Settings(), nil)
	}
}

func PatchSettings(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch tracker.SettingsPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		HandleSuccess(c, app.Logger(), app.Tracker().UpdateSettings(c.Request.Context(), patch), nil)
	}
}
