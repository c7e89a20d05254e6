package api

import (
	"github.com/gin-gonic/gin"

	"github.com/SysAdminDoc/PillSleepTracker/internal/auth"
	"github.com/SysAdminDoc/PillSleepTracker/internal/config"
)

// NewRouter wires every tracker route behind request-id and auth middleware.
func NewRouter(app App, cfg *config.Config, provider auth.Provider) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())

	grp := r.Group("/api")
	grp.Use(auth.Middleware(provider, cfg))

	grp.POST("/medications", PostMedication(app))
	grp.GET("/medications", ListMedications(app))
	grp.GET("/medications/:id", GetMedication(app))
	grp.GET("/alerts/low-supply", ListLowSupply(app))
	grp.PATCH("/medications/:id", PatchMedication(app))
	grp.DELETE("/medications/:id", DeleteMedication(app))

	grp.POST("/medications/:id/doses", PostDose(app))
	grp.DELETE("/medications/:id/doses", DeleteDose(app))
	grp.GET("/medications/:id/doses", GetDoseStatus(app))

	grp.POST("/sleep", PostSleep(app))
	grp.POST("/sleep/quick", PostQuickSleep(app))
	grp.GET("/sleep/range", GetSleepRange(app))
	grp.GET("/sleep/recent", GetRecentSleep(app))
	grp.GET("/sleep/day/:date", GetSleepDay(app))

	grp.GET("/analytics/adherence", GetAdherence(app))
	grp.GET("/analytics/streaks", GetStreaks(app))
	grp.GET("/analytics/sleep-summary", GetSleepSummary(app))

	grp.GET("/export", GetExport(app))
	grp.GET("/export/csv", GetExportCSV(app))
	grp.POST("/import", PostImport(app))
	grp.POST("/reset", PostReset(app))

	grp.GET("/settings", GetSettings(app))
	grp.PATCH("/settings", PatchSettings(app))

	return r
}
