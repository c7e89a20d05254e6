package tracker

import (
	"math"

	"github.com/SysAdminDoc/PillSleepTracker/internal"
)

// streakHorizonDays bounds the backward walk so a streak scan never becomes
// unbounded work.
const streakHorizonDays = 365

// AdherencePoint is one day of the adherence series.
type AdherencePoint struct {
	Date  string  `json:"date"`
	Ratio float64 `json:"ratio"`
}

// AdherenceRange returns, for each of the last `days` days ending today and
// oldest first, the fraction of active medications with a "taken" entry that
// day. Days with no active medications score 0.
func (s *Service) AdherenceRange(days int) []AdherencePoint {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	for _, m := range s.data.Medications {
		if m.Active {
			ids = append(ids, m.ID)
		}
	}

	now := s.now()
	out := make([]AdherencePoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		d := now.AddDate(0, 0, -i).Format(internal.DateLayout)
		taken := 0
		for _, id := range ids {
			if s.takenOn(id, d) {
				taken++
			}
		}
		ratio := 0.0
		if len(ids) > 0 {
			ratio = float64(taken) / float64(len(ids))
		}
		out = append(out, AdherencePoint{Date: d, Ratio: ratio})
	}
	return out
}

// PillStreak counts consecutive days, walking backward from today, on which
// every active medication was taken. Today is allowed to be incomplete and is
// skipped rather than counted as a break. The walk never looks past the
// horizon or before the earliest active medication existed. Zero active
// medications always yield 0.
func (s *Service) PillStreak() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	earliest := ""
	for _, m := range s.data.Medications {
		if !m.Active {
			continue
		}
		ids = append(ids, m.ID)
		created := m.Created.Format(internal.DateLayout)
		if earliest == "" || created < earliest {
			earliest = created
		}
	}
	if len(ids) == 0 {
		return 0
	}

	return s.walkStreak(func(date string) bool {
		if earliest != "" && date < earliest {
			return false
		}
		for _, id := range ids {
			if !s.takenOn(id, date) {
				return false
			}
		}
		return true
	})
}

// SleepStreak counts consecutive days with any sleep entry, with the same
// backward walk and today-may-be-absent tolerance as PillStreak.
func (s *Service) SleepStreak() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.walkStreak(func(date string) bool {
		return s.sleepOn(date) != nil
	})
}

// walkStreak must be called with s.mu held.
func (s *Service) walkStreak(satisfied func(date string) bool) int {
	now := s.now()
	streak := 0
	for i := 0; i < streakHorizonDays; i++ {
		d := now.AddDate(0, 0, -i).Format(internal.DateLayout)
		switch {
		case satisfied(d):
			streak++
		case i == 0:
			// Today may still be in progress.
			continue
		default:
			return streak
		}
	}
	return streak
}

// SleepSummary aggregates the last `days` days of sleep for the dashboard.
type SleepSummary struct {
	Days           int     `json:"days"`
	Nights         int     `json:"nights"`
	AvgDurationMin float64 `json:"avg_duration_min"`
	AvgScore       float64 `json:"avg_score"`
}

func (s *Service) SummarizeSleep(days int) SleepSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := SleepSummary{Days: days}
	totalDur, totalScore := 0, 0
	for _, day := range s.sleepRange(days) {
		if day.Entry == nil {
			continue
		}
		sum.Nights++
		totalDur += day.Entry.DurationMin
		totalScore += day.Entry.Score
	}
	if sum.Nights > 0 {
		sum.AvgDurationMin = float64(totalDur) / float64(sum.Nights)
		sum.AvgScore = float64(totalScore) / float64(sum.Nights)
	}
	return sum
}

// SleepScore computes the composite 0–100 sleep-quality score.
//
// Duration contributes up to 40 points on a Gaussian centered at 8 hours with
// a 90-minute spread. Quality contributes 8 points per rating point, capped
// at 40. Consistency contributes up to 20: with at least three parseable
// recent bedtimes it scores 20 minus a sixth of their standard deviation
// (bedtimes after noon wrap negative so times clustered around midnight stay
// numerically close); otherwise it defaults to a flat 10. Malformed bedtime
// strings are skipped, never fatal.
func SleepScore(durationMin, quality int, recentBedtimes []string) int {
	durScore := 40 * math.Exp(-0.5*math.Pow((float64(durationMin)-480)/90, 2))

	if quality > 5 {
		quality = 5
	}
	qualScore := float64(quality * 8)

	conScore := 10.0
	if len(recentBedtimes) >= 3 {
		var mins []float64
		for _, bt := range recentBedtimes {
			t, ok := clockMinutes(bt)
			if !ok {
				continue
			}
			v := float64(t)
			if v > 720 {
				v -= 1440
			}
			mins = append(mins, v)
		}
		if len(mins) >= 3 {
			mean := 0.0
			for _, v := range mins {
				mean += v
			}
			mean /= float64(len(mins))
			variance := 0.0
			for _, v := range mins {
				variance += (v - mean) * (v - mean)
			}
			variance /= float64(len(mins))
			conScore = math.Max(0, 20-math.Sqrt(variance)/6)
		}
	}

	total := durScore + qualScore + conScore
	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}
	return int(total)
}
