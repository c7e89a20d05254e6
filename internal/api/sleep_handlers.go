package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SysAdminDoc/PillSleepTracker/internal/tracker"
)

func PostSleep(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req tracker.SleepLogRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		entry, err := app.Tracker().LogSleep(c.Request.Context(), &req)
		if err != nil {
			HandleTrackerError(c, app.Logger(), err, "Failed to log sleep")
			return
		}
		HandleSuccess(c, app.Logger(), entry, nil)
	}
}

type quickSleepRequest struct {
	Hours int `json:"hours"`
}

func PostQuickSleep(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req quickSleepRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		entry, err := app.Tracker().QuickLogSleep(c.Request.Context(), req.Hours)
		if err != nil {
			HandleTrackerError(c, app.Logger(), err, "Failed to quick-log sleep")
			return
		}
		HandleSuccess(c, app.Logger(), entry, nil)
	}
}

func GetSleepDay(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		entry, err := app.Tracker().SleepOn(c.Param("date"))
		if err != nil {
			HandleTrackerError(c, app.Logger(), err, "Sleep lookup failed")
			return
		}
		HandleSuccess(c, app.Logger(), entry, nil)
	}
}

// GetSleepRange returns the last ?days days ending today, oldest first, with
// absent days carried as null entries.
func GetSleepRange(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		days := intQuery(c, "days", 14)
		HandleSuccess(c, app.Logger(), app.Tracker().SleepRange(days), map[string]any{"days": days})
	}
}

func GetRecentSleep(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := intQuery(c, "limit", 10)
		HandleSuccess(c, app.Logger(), app.Tracker().RecentSleep(limit), nil)
	}
}

func intQuery(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
