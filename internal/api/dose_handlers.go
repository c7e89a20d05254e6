package api

import (
	"github.com/gin-gonic/gin"
)

type doseRequest struct {
	// Name overrides the captured med_name; defaults to the registry name.
	Name string `json:"name"`
}

func PostDose(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req doseRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				HandleError(c, app.Logger(), err, 400, "Invalid JSON")
				return
			}
		}

		entry := app.Tracker().LogTaken(c.Request.Context(), c.Param("id"), req.Name)
		HandleSuccess(c, app.Logger(), entry, nil)
	}
}

// DeleteDose undoes the most recent "taken" entry for the medication on the
// given date (?date=YYYY-MM-DD, defaulting to today). A missing match is a
// successful no-op.
func DeleteDose(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		removed := app.Tracker().UndoTaken(c.Request.Context(), c.Param("id"), c.Query("date"))
		HandleSuccess(c, app.Logger(), nil, map[string]any{"removed": removed})
	}
}

// GetDoseStatus reports the binary taken/not-taken state for one day.
func GetDoseStatus(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		date := c.Query("date")
		var taken bool
		if date == "" {
			taken = app.Tracker().TakenToday(id)
		} else {
			taken = app.Tracker().TakenOn(id, date)
		}
		HandleSuccess(c, app.Logger(), nil, map[string]any{"taken": taken})
	}
}
