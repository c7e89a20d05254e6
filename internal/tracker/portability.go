package tracker

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/SysAdminDoc/PillSleepTracker/internal"
)

// ExportData returns a verbatim snapshot of the current data document.
func (s *Service) ExportData() *internal.TrackerData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneData(s.data)
}

// legacyMedication decodes imported medications with `active` as a pointer,
// so a document written before the flag existed defaults to active rather
// than silently deactivating everything.
type legacyMedication struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Dosage     string    `json:"dosage"`
	Frequency  string    `json:"frequency"`
	TimeOfDay  string    `json:"time_of_day"`
	Notes      string    `json:"notes"`
	Color      string    `json:"color"`
	Supply     *int      `json:"supply"`
	SupplyWarn int       `json:"supply_warn"`
	Active     *bool     `json:"active"`
	Created    time.Time `json:"created"`
}

// legacyDoseEntry tolerates the pre-2.0 `pill_log` shape, where entries were
// keyed by a per-entry `pill_name` instead of med_id/med_name.
type legacyDoseEntry struct {
	MedID         string `json:"med_id"`
	MedName       string `json:"med_name"`
	PillName      string `json:"pill_name"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Action        string `json:"action"`
	SupplyDebited bool   `json:"supply_debited"`
}

// ImportData replaces the aggregate with an externally supplied document.
// Legacy key names (`pills` for medications, `pill_log` for the dose log) are
// remapped; documents carrying none of the recognized top-level keys are
// rejected with ErrInvalidFormat.
func (s *Service) ImportData(ctx context.Context, raw []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	recognized := false
	for _, key := range []string{"medications", "med_log", "sleep_log", "pills"} {
		if _, ok := doc[key]; ok {
			recognized = true
			break
		}
	}
	if !recognized {
		return ErrInvalidFormat
	}

	data := internal.NewTrackerData()

	medsRaw, ok := doc["medications"]
	if !ok {
		medsRaw = doc["pills"]
	}
	if medsRaw != nil {
		var meds []legacyMedication
		if err := json.Unmarshal(medsRaw, &meds); err != nil {
			return fmt.Errorf("%w: medications: %v", ErrInvalidFormat, err)
		}
		for _, l := range meds {
			m := &internal.Medication{
				ID:         l.ID,
				Name:       l.Name,
				Dosage:     l.Dosage,
				Frequency:  l.Frequency,
				TimeOfDay:  l.TimeOfDay,
				Notes:      l.Notes,
				Color:      l.Color,
				Supply:     l.Supply,
				SupplyWarn: l.SupplyWarn,
				Active:     l.Active == nil || *l.Active,
				Created:    l.Created,
			}
			if m.ID == "" {
				m.ID = uuid.NewString()
			}
			if m.SupplyWarn == 0 {
				m.SupplyWarn = defaultSupplyWarn
			}
			data.Medications = append(data.Medications, m)
		}
	}

	if logRaw, ok := doc["med_log"]; ok {
		if err := json.Unmarshal(logRaw, &data.MedLog); err != nil {
			return fmt.Errorf("%w: med_log: %v", ErrInvalidFormat, err)
		}
	} else if logRaw, ok := doc["pill_log"]; ok {
		var legacy []legacyDoseEntry
		if err := json.Unmarshal(logRaw, &legacy); err != nil {
			return fmt.Errorf("%w: pill_log: %v", ErrInvalidFormat, err)
		}
		for _, l := range legacy {
			entry := &internal.DoseEntry{
				MedID:         l.MedID,
				MedName:       l.MedName,
				Date:          l.Date,
				Time:          l.Time,
				Action:        l.Action,
				SupplyDebited: l.SupplyDebited,
			}
			if entry.MedID == "" {
				entry.MedID = l.PillName
			}
			if entry.MedName == "" {
				entry.MedName = l.PillName
			}
			data.MedLog = append(data.MedLog, entry)
		}
	}

	if sleepRaw, ok := doc["sleep_log"]; ok {
		if err := json.Unmarshal(sleepRaw, &data.SleepLog); err != nil {
			return fmt.Errorf("%w: sleep_log: %v", ErrInvalidFormat, err)
		}
	}

	data.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	s.persist(ctx)
	return nil
}

// ExportCSV writes the dose log as CSV (Date, Time, Medication, Action),
// ordered by date ascending.
func (s *Service) ExportCSV(w io.Writer) error {
	s.mu.Lock()
	entries := make([]internal.DoseEntry, len(s.data.MedLog))
	for i, e := range s.data.MedLog {
		entries[i] = *e
	}
	s.mu.Unlock()

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Time", "Medication", "Action"}); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write([]string{e.Date, e.Time, e.MedName, e.Action}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ResetData replaces the aggregate with an empty document.
func (s *Service) ResetData(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = internal.NewTrackerData()
	s.persist(ctx)
}
