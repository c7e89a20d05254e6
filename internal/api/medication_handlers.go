package api

import (
	"github.com/gin-gonic/gin"

	"github.com/SysAdminDoc/PillSleepTracker/internal/tracker"
)

func PostMedication(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req tracker.MedicationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		med, err := app.Tracker().AddMedication(c.Request.Context(), &req)
		if err != nil {
			HandleTrackerError(c, app.Logger(), err, "Failed to add medication")
			return
		}
		HandleSuccess(c, app.Logger(), med, nil)
	}
}

// ListMedications returns active medications; ?all=true includes inactive
// ones as well.
func ListMedications(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Query("all") == "true" {
			HandleSuccess(c, app.Logger(), app.Tracker().AllMedications(), nil)
			return
		}
		HandleSuccess(c, app.Logger(), app.Tracker().ActiveMedications(), nil)
	}
}

func GetMedication(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		med, err := app.Tracker().GetMedication(c.Param("id"))
		if err != nil {
			HandleTrackerError(c, app.Logger(), err, "Medication lookup failed")
			return
		}
		HandleSuccess(c, app.Logger(), med, nil)
	}
}

func PatchMedication(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var upd tracker.MedicationUpdate
		if err := c.ShouldBindJSON(&upd); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		med, err := app.Tracker().UpdateMedication(c.Request.Context(), c.Param("id"), &upd)
		if err != nil {
			HandleTrackerError(c, app.Logger(), err, "Failed to update medication")
			return
		}
		// med is nil for an unknown id: a successful no-op.
		HandleSuccess(c, app.Logger(), med, map[string]any{"updated": med != nil})
	}
}

func DeleteMedication(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		app.Tracker().DeleteMedication(c.Request.Context(), c.Param("id"))
		HandleSuccess(c, app.Logger(), nil, map[string]any{"deleted": true})
	}
}

func ListLowSupply(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleSuccess(c, app.Logger(), app.Tracker().LowSupplyMedications(), nil)
	}
}
