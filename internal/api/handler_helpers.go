package api

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/SysAdminDoc/PillSleepTracker/internal"
	"github.com/SysAdminDoc/PillSleepTracker/internal/response"
	"github.com/SysAdminDoc/PillSleepTracker/internal/tracker"
)

func HandleError(c *gin.Context, logger internal.Logger, err error, status int, msg string) {
	logger.Errorf("[request_id=%s] %s: %v", RequestID(c.Request.Context()), msg, err)
	var resp response.APIResponse
	switch status {
	case 400:
		resp = response.BadRequest(msg + ": " + err.Error())
	case 404:
		resp = response.NotFound(msg + ": " + err.Error())
	case 500:
		resp = response.InternalError(msg + ": " + err.Error())
	default:
		resp = response.NewAppError(status, msg+": "+err.Error())
	}
	c.JSON(status, resp)
}

// HandleTrackerError maps the core's sentinel errors onto HTTP statuses:
// validation rejections to 400, not-found lookups to 404, everything else 500.
func HandleTrackerError(c *gin.Context, logger internal.Logger, err error, msg string) {
	switch {
	case errors.Is(err, tracker.ErrMedicationNotFound),
		errors.Is(err, tracker.ErrSleepNotFound):
		HandleError(c, logger, err, 404, msg)
	case errors.Is(err, tracker.ErrNameRequired),
		errors.Is(err, tracker.ErrInvalidClock),
		errors.Is(err, tracker.ErrInvalidDuration),
		errors.Is(err, tracker.ErrInvalidFormat):
		HandleError(c, logger, err, 400, msg)
	default:
		// Validator errors are caller mistakes, not server faults.
		HandleError(c, logger, err, 400, msg)
	}
}

func HandleSuccess(c *gin.Context, logger internal.Logger, data interface{}, meta map[string]any) {
	logger.Debugf("[request_id=%s] Success", RequestID(c.Request.Context()))
	c.JSON(200, response.Success(data, meta))
}
