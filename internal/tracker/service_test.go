package tracker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/SysAdminDoc/PillSleepTracker/internal"
	"github.com/SysAdminDoc/PillSleepTracker/internal/storage"
)

var testNow = time.Date(2024, 3, 15, 22, 30, 0, 0, time.Local)

func newTestService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFileStore(
		filepath.Join(dir, "tracker_data.json"),
		filepath.Join(dir, "settings.json"),
		internal.NewNopLogger(),
	)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	svc := NewService(context.Background(), store, internal.NewNopLogger())
	svc.now = func() time.Time { return testNow }
	return svc
}

func dateOffset(days int) string {
	return testNow.AddDate(0, 0, days).Format(internal.DateLayout)
}

func TestSettingsDefaults(t *testing.T) {
	svc := newTestService(t)
	s := svc.Settings()
	assert.Equal(t, 520, s.WindowW)
	assert.Equal(t, 740, s.WindowH)
	assert.True(t, s.AlwaysOnTop)
	assert.InDelta(t, 0.96, s.Opacity, 0.001)
	assert.Equal(t, "dashboard", s.ActivePage)
}

func TestUpdateSettingsMergesAndClamps(t *testing.T) {
	svc := newTestService(t)

	opacity := 0.1
	page := "sleep"
	got := svc.UpdateSettings(context.Background(), SettingsPatch{
		Opacity:    &opacity,
		ActivePage: &page,
	})

	assert.InDelta(t, 0.3, got.Opacity, 0.001) // clamped to the floor
	assert.Equal(t, "sleep", got.ActivePage)
	assert.Equal(t, 520, got.WindowW) // untouched fields keep prior values
}
