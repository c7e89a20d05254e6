package tracker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SysAdminDoc/PillSleepTracker/internal"
	"github.com/SysAdminDoc/PillSleepTracker/internal/storage"
)

var validate = validator.New()

var (
	ErrNameRequired       = errors.New("tracker: medication name is required")
	ErrMedicationNotFound = errors.New("tracker: medication not found")
	ErrInvalidClock       = errors.New("tracker: bedtime and waketime must be HH:MM")
	ErrInvalidDuration    = errors.New("tracker: sleep duration must be between 1 and 1080 minutes")
	ErrSleepNotFound      = errors.New("tracker: no sleep entry for that date")
	ErrInvalidFormat      = errors.New("tracker: not valid tracker data")
)

// Service owns the tracker aggregate. All mutation goes through its methods;
// every mutating call persists best-effort through the DataStore, keeping the
// in-memory state authoritative when a save fails.
type Service struct {
	mu       sync.Mutex
	data     *internal.TrackerData
	settings *internal.Settings
	store    storage.DataStore
	logger   internal.Logger
	now      func() time.Time
}

func NewService(ctx context.Context, store storage.DataStore, logger internal.Logger) *Service {
	data, err := store.LoadData(ctx)
	if err != nil {
		logger.Warnf("tracker: starting from recovered defaults: %v", err)
	}
	settings, err := store.LoadSettings(ctx)
	if err != nil {
		logger.Warnf("tracker: starting from default settings: %v", err)
	}
	return &Service{
		data:     data,
		settings: settings,
		store:    store,
		logger:   logger,
		now:      time.Now,
	}
}

// persist must be called with s.mu held. Save failures are logged and
// swallowed; the next mutating call retries with the full current state.
func (s *Service) persist(ctx context.Context) {
	if err := s.store.SaveData(ctx, s.data); err != nil {
		s.logger.Errorf("tracker: persist failed, keeping in-memory state: %v", err)
	}
}

func (s *Service) today() string {
	return s.now().Format(internal.DateLayout)
}

// Settings returns a copy of the current settings document.
func (s *Service) Settings() internal.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.settings
}

// SettingsPatch merges into the stored settings; nil fields keep their
// prior values.
type SettingsPatch struct {
	WindowX     *int     `json:"window_x"`
	WindowY     *int     `json:"window_y"`
	WindowW     *int     `json:"window_w"`
	WindowH     *int     `json:"window_h"`
	AlwaysOnTop *bool    `json:"always_on_top"`
	Opacity     *float64 `json:"opacity"`
	ActivePage  *string  `json:"active_page"`
}

func (s *Service) UpdateSettings(ctx context.Context, patch SettingsPatch) internal.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.WindowX != nil {
		s.settings.WindowX = *patch.WindowX
	}
	if patch.WindowY != nil {
		s.settings.WindowY = *patch.WindowY
	}
	if patch.WindowW != nil {
		s.settings.WindowW = *patch.WindowW
	}
	if patch.WindowH != nil {
		s.settings.WindowH = *patch.WindowH
	}
	if patch.AlwaysOnTop != nil {
		s.settings.AlwaysOnTop = *patch.AlwaysOnTop
	}
	if patch.Opacity != nil {
		s.settings.Opacity = *patch.Opacity
	}
	if patch.ActivePage != nil {
		s.settings.ActivePage = *patch.ActivePage
	}
	s.settings.Normalize()

	if err := s.store.SaveSettings(ctx, s.settings); err != nil {
		s.logger.Errorf("tracker: persist settings failed: %v", err)
	}
	return *s.settings
}

// Close flushes pending persistence. Safe to call from a thread other than
// the one driving normal operations (the tray-quit path).
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Close()
}

func cloneMedication(m *internal.Medication) *internal.Medication {
	c := *m
	if m.Supply != nil {
		v := *m.Supply
		c.Supply = &v
	}
	return &c
}

func cloneSleepEntry(e *internal.SleepEntry) *internal.SleepEntry {
	c := *e
	if e.Factors != nil {
		c.Factors = append([]string(nil), e.Factors...)
	}
	return &c
}

// cloneData deep-copies the aggregate for export and snapshot callers.
func cloneData(d *internal.TrackerData) *internal.TrackerData {
	out := internal.NewTrackerData()
	for _, m := range d.Medications {
		out.Medications = append(out.Medications, cloneMedication(m))
	}
	for _, e := range d.MedLog {
		c := *e
		out.MedLog = append(out.MedLog, &c)
	}
	for _, e := range d.SleepLog {
		out.SleepLog = append(out.SleepLog, cloneSleepEntry(e))
	}
	return out
}
