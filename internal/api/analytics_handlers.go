package api

import (
	"github.com/gin-gonic/gin"
)

func GetAdherence(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		days := intQuery(c, "days", 7)
		HandleSuccess(c, app.Logger(), app.Tracker().AdherenceRange(days), map[string]any{"days": days})
	}
}

func GetStreaks(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		meta := map[string]any{
			"pill_streak":  app.Tracker().PillStreak(),
			"sleep_streak": app.Tracker().SleepStreak(),
		}
		HandleSuccess(c, app.Logger(), nil, meta)
	}
}

func GetSleepSummary(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		days := intQuery(c, "days", 7)
		HandleSuccess(c, app.Logger(), app.Tracker().SummarizeSleep(days), nil)
	}
}
