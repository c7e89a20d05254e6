package tracker

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/SysAdminDoc/PillSleepTracker/internal"
)

// bedtimeWindowDays is how far back the score's consistency sample reaches.
const bedtimeWindowDays = 7

// SleepLogRequest carries one night of caller-supplied sleep data.
type SleepLogRequest struct {
	Date     string   `json:"date" validate:"required"`
	Bedtime  string   `json:"bedtime" validate:"required"`
	Waketime string   `json:"waketime" validate:"required"`
	Quality  int      `json:"quality" validate:"required,gte=1,lte=5"`
	Factors  []string `json:"factors"`
	Notes    string   `json:"notes"`
}

// SleepDay pairs a calendar date with the entry logged for it, if any.
type SleepDay struct {
	Date  string               `json:"date"`
	Entry *internal.SleepEntry `json:"entry,omitempty"`
}

// LogSleep computes duration and score, then upserts the entry for its date:
// any prior entry for the same date is replaced, never duplicated.
func (s *Service) LogSleep(ctx context.Context, req *SleepLogRequest) (*internal.SleepEntry, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if _, err := time.Parse(internal.DateLayout, req.Date); err != nil {
		return nil, fmt.Errorf("%w: bad date %q", ErrInvalidFormat, req.Date)
	}

	bed, ok := clockMinutes(req.Bedtime)
	if !ok {
		return nil, ErrInvalidClock
	}
	wake, ok := clockMinutes(req.Waketime)
	if !ok {
		return nil, ErrInvalidClock
	}
	// Wake at or before bedtime means sleep wrapped past midnight.
	duration := wake - bed
	if wake <= bed {
		duration = 1440 - bed + wake
	}
	if duration <= 0 || duration > 1080 {
		return nil, ErrInvalidDuration
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := &internal.SleepEntry{
		Date:        req.Date,
		Bedtime:     req.Bedtime,
		Waketime:    req.Waketime,
		DurationMin: duration,
		Quality:     req.Quality,
		Factors:     req.Factors,
		Notes:       req.Notes,
		Score:       SleepScore(duration, req.Quality, s.recentBedtimes(bedtimeWindowDays)),
		LoggedAt:    s.now(),
	}
	s.upsertSleep(entry)
	s.persist(ctx)
	return cloneSleepEntry(entry), nil
}

// QuickLogSleep logs a night of the given length ending now, with quality 4
// and no factors. Mirrors the widget's one-tap quick-log buttons.
func (s *Service) QuickLogSleep(ctx context.Context, hours int) (*internal.SleepEntry, error) {
	if hours <= 0 || hours*60 > 1080 {
		return nil, ErrInvalidDuration
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	bed := now.Add(-time.Duration(hours) * time.Hour)
	duration := hours * 60
	entry := &internal.SleepEntry{
		Date:        now.Format(internal.DateLayout),
		Bedtime:     bed.Format(internal.ClockLayout),
		Waketime:    now.Format(internal.ClockLayout),
		DurationMin: duration,
		Quality:     4,
		Factors:     []string{},
		Notes:       fmt.Sprintf("Quick: %dh", hours),
		Score:       SleepScore(duration, 4, s.recentBedtimes(bedtimeWindowDays)),
		LoggedAt:    now,
	}
	s.upsertSleep(entry)
	s.persist(ctx)
	return cloneSleepEntry(entry), nil
}

// SleepOn looks up the entry for an exact date.
func (s *Service) SleepOn(date string) (*internal.SleepEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e := s.sleepOn(date); e != nil {
		return cloneSleepEntry(e), nil
	}
	return nil, ErrSleepNotFound
}

// SleepRange returns one SleepDay per calendar day for the last `days` days
// ending today, oldest first. Days without an entry carry a nil Entry. The
// window is recomputed from the current date on every call.
func (s *Service) SleepRange(days int) []SleepDay {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.sleepRange(days)
	for i := range out {
		if out[i].Entry != nil {
			out[i].Entry = cloneSleepEntry(out[i].Entry)
		}
	}
	return out
}

// RecentSleep returns up to n entries, newest date first.
func (s *Service) RecentSleep(n int) []internal.SleepEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]internal.SleepEntry, 0, len(s.data.SleepLog))
	for _, e := range s.data.SleepLog {
		entries = append(entries, *cloneSleepEntry(e))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date > entries[j].Date })
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// upsertSleep must be called with s.mu held.
func (s *Service) upsertSleep(entry *internal.SleepEntry) {
	kept := s.data.SleepLog[:0]
	for _, e := range s.data.SleepLog {
		if e.Date != entry.Date {
			kept = append(kept, e)
		}
	}
	s.data.SleepLog = append(kept, entry)
}

// sleepOn must be called with s.mu held.
func (s *Service) sleepOn(date string) *internal.SleepEntry {
	for _, e := range s.data.SleepLog {
		if e.Date == date {
			return e
		}
	}
	return nil
}

// sleepRange must be called with s.mu held.
func (s *Service) sleepRange(days int) []SleepDay {
	now := s.now()
	out := make([]SleepDay, 0, days)
	for i := days - 1; i >= 0; i-- {
		d := now.AddDate(0, 0, -i).Format(internal.DateLayout)
		out = append(out, SleepDay{Date: d, Entry: s.sleepOn(d)})
	}
	return out
}

// recentBedtimes must be called with s.mu held.
func (s *Service) recentBedtimes(days int) []string {
	var out []string
	for _, day := range s.sleepRange(days) {
		if day.Entry != nil {
			out = append(out, day.Entry.Bedtime)
		}
	}
	return out
}

// clockMinutes parses an HH:MM string into minutes since midnight.
func clockMinutes(clock string) (int, bool) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
