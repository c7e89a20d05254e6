package internal

import "time"

const (
	// DateLayout is the calendar-day key used throughout the tracker.
	DateLayout = "2006-01-02"
	// ClockLayout is the HH:MM layout used for bedtimes and wake times.
	ClockLayout = "15:04"
	// DoseTimeLayout is the time-of-day layout stamped on dose log entries.
	DoseTimeLayout = "15:04:05"
)

// ActionTaken is the only action value written by normal operation.
const ActionTaken = "taken"

// SleepFactors is the fixed vocabulary of contributing factors.
var SleepFactors = []string{
	"Caffeine", "Alcohol", "Exercise", "Screen Time",
	"Stress", "Nap", "Late Meal", "Medication",
}

type Medication struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Dosage     string    `json:"dosage,omitempty"`
	Frequency  string    `json:"frequency,omitempty"`
	TimeOfDay  string    `json:"time_of_day,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	Color      string    `json:"color,omitempty"`
	Supply     *int      `json:"supply,omitempty"` // nil = supply not tracked
	SupplyWarn int       `json:"supply_warn"`
	Active     bool      `json:"active"`
	Created    time.Time `json:"created"`
}

// LowOnSupply reports whether a tracked supply has reached the warn threshold.
func (m *Medication) LowOnSupply() bool {
	return m.Supply != nil && *m.Supply <= m.SupplyWarn
}

type DoseEntry struct {
	MedID   string `json:"med_id"`
	MedName string `json:"med_name"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Action  string `json:"action"`
	// SupplyDebited records whether this take decremented the medication's
	// supply, so an undo credits only what was actually debited.
	SupplyDebited bool `json:"supply_debited,omitempty"`
}

type SleepEntry struct {
	Date        string    `json:"date"`
	Bedtime     string    `json:"bedtime"`
	Waketime    string    `json:"waketime"`
	DurationMin int       `json:"duration_min"`
	Quality     int       `json:"quality"`
	Factors     []string  `json:"factors,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Score       int       `json:"score"`
	LoggedAt    time.Time `json:"logged_at"`
}

// TrackerData is the durable aggregate: the registry plus both logs.
type TrackerData struct {
	Medications []*Medication `json:"medications"`
	MedLog      []*DoseEntry  `json:"med_log"`
	SleepLog    []*SleepEntry `json:"sleep_log"`
}

// NewTrackerData returns an empty aggregate with all containers present.
func NewTrackerData() *TrackerData {
	return &TrackerData{
		Medications: []*Medication{},
		MedLog:      []*DoseEntry{},
		SleepLog:    []*SleepEntry{},
	}
}

// Normalize backfills missing top-level containers so downstream code
// never sees absence.
func (d *TrackerData) Normalize() {
	if d.Medications == nil {
		d.Medications = []*Medication{}
	}
	if d.MedLog == nil {
		d.MedLog = []*DoseEntry{}
	}
	if d.SleepLog == nil {
		d.SleepLog = []*SleepEntry{}
	}
}

// Settings is the window/presentation state persisted alongside tracker data.
type Settings struct {
	WindowX     int     `json:"window_x"`
	WindowY     int     `json:"window_y"`
	WindowW     int     `json:"window_w"`
	WindowH     int     `json:"window_h"`
	AlwaysOnTop bool    `json:"always_on_top"`
	Opacity     float64 `json:"opacity"`
	ActivePage  string  `json:"active_page"`
}

// DefaultSettings mirrors the defaults the desktop widget shipped with.
func DefaultSettings() *Settings {
	return &Settings{
		WindowX:     150,
		WindowY:     80,
		WindowW:     520,
		WindowH:     740,
		AlwaysOnTop: true,
		Opacity:     0.96,
		ActivePage:  "dashboard",
	}
}

// Normalize clamps opacity into [0.3, 1.0] and backfills zero-value fields
// from the defaults.
func (s *Settings) Normalize() {
	def := DefaultSettings()
	if s.WindowW <= 0 {
		s.WindowW = def.WindowW
	}
	if s.WindowH <= 0 {
		s.WindowH = def.WindowH
	}
	if s.ActivePage == "" {
		s.ActivePage = def.ActivePage
	}
	if s.Opacity == 0 {
		s.Opacity = def.Opacity
	}
	if s.Opacity < 0.3 {
		s.Opacity = 0.3
	}
	if s.Opacity > 1.0 {
		s.Opacity = 1.0
	}
}
