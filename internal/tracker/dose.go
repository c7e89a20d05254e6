package tracker

import (
	"context"

	"github.com/SysAdminDoc/PillSleepTracker/internal"
)

// LogTaken appends a "taken" entry stamped with the current date and time.
// The name is captured at logging time and never re-resolved. When the
// medication tracks supply and has any left, the take debits one unit and the
// entry remembers that it did.
func (s *Service) LogTaken(ctx context.Context, id, name string) *internal.DoseEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	med := s.findMedication(id)
	if name == "" && med != nil {
		name = med.Name
	}

	entry := &internal.DoseEntry{
		MedID:   id,
		MedName: name,
		Date:    now.Format(internal.DateLayout),
		Time:    now.Format(internal.DoseTimeLayout),
		Action:  internal.ActionTaken,
	}
	if med != nil && med.Supply != nil && *med.Supply > 0 {
		*med.Supply--
		entry.SupplyDebited = true
	}
	s.data.MedLog = append(s.data.MedLog, entry)
	s.persist(ctx)

	c := *entry
	return &c
}

// UndoTaken removes the most recent "taken" entry for the given id and date
// (today when date is empty) and credits supply back only if that entry
// debited it. Unknown ids or dates without a match are no-ops.
func (s *Service) UndoTaken(ctx context.Context, id, date string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if date == "" {
		date = s.today()
	}
	for i := len(s.data.MedLog) - 1; i >= 0; i-- {
		e := s.data.MedLog[i]
		if e.MedID != id || e.Date != date || e.Action != internal.ActionTaken {
			continue
		}
		s.data.MedLog = append(s.data.MedLog[:i], s.data.MedLog[i+1:]...)
		if e.SupplyDebited {
			if med := s.findMedication(id); med != nil && med.Supply != nil {
				*med.Supply++
			}
		}
		s.persist(ctx)
		return true
	}
	return false
}

// TakenOn reports whether at least one "taken" entry exists for the id on the
// given date, regardless of how many accumulated.
func (s *Service) TakenOn(id, date string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.takenOn(id, date)
}

func (s *Service) TakenToday(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.takenOn(id, s.today())
}

// takenOn must be called with s.mu held.
func (s *Service) takenOn(id, date string) bool {
	for _, e := range s.data.MedLog {
		if e.MedID == id && e.Date == date && e.Action == internal.ActionTaken {
			return true
		}
	}
	return false
}

// DoseLog returns a copy of the full append-only log, oldest first.
func (s *Service) DoseLog() []internal.DoseEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]internal.DoseEntry, len(s.data.MedLog))
	for i, e := range s.data.MedLog {
		out[i] = *e
	}
	return out
}
