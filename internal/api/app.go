package api

import (
	"github.com/SysAdminDoc/PillSleepTracker/internal"
	"github.com/SysAdminDoc/PillSleepTracker/internal/tracker"
)

// App is what the handlers need from the composition root.
type App interface {
	Logger() internal.Logger
	Tracker() *tracker.Service
}
