package storage

import (
	"context"

	"github.com/SysAdminDoc/PillSleepTracker/internal"
)

// DataStore persists the two tracker documents. Loads never fail the caller:
// a missing or unreadable document degrades to its default shape, with the
// error returned alongside so callers can log the degradation. Saves are
// allowed to be deferred; Close flushes anything pending.
type DataStore interface {
	LoadData(ctx context.Context) (*internal.TrackerData, error)
	SaveData(ctx context.Context, data *internal.TrackerData) error
	LoadSettings(ctx context.Context) (*internal.Settings, error)
	SaveSettings(ctx context.Context, settings *internal.Settings) error
	Close() error
}
