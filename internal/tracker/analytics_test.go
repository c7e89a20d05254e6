package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SysAdminDoc/PillSleepTracker/internal"
)

func seedMedication(svc *Service, id string, createdDaysAgo int, active bool) {
	svc.data.Medications = append(svc.data.Medications, &internal.Medication{
		ID:         id,
		Name:       id,
		SupplyWarn: defaultSupplyWarn,
		Active:     active,
		Created:    testNow.AddDate(0, 0, -createdDaysAgo),
	})
}

func seedTaken(svc *Service, id string, daysAgo int) {
	svc.data.MedLog = append(svc.data.MedLog, &internal.DoseEntry{
		MedID:   id,
		MedName: id,
		Date:    dateOffset(-daysAgo),
		Time:    "08:00:00",
		Action:  internal.ActionTaken,
	})
}

func seedSleep(svc *Service, daysAgo int) {
	svc.data.SleepLog = append(svc.data.SleepLog, &internal.SleepEntry{
		Date:        dateOffset(-daysAgo),
		Bedtime:     "23:00",
		Waketime:    "07:00",
		DurationMin: 480,
		Quality:     4,
		Score:       90,
	})
}

func TestSleepScoreBounds(t *testing.T) {
	for dur := 30; dur <= 1080; dur += 75 {
		for quality := 1; quality <= 5; quality++ {
			got := SleepScore(dur, quality, nil)
			assert.GreaterOrEqual(t, got, 0, "dur=%d q=%d", dur, quality)
			assert.LessOrEqual(t, got, 100, "dur=%d q=%d", dur, quality)
		}
	}
}

func TestSleepScoreComponents(t *testing.T) {
	// Ideal duration + top quality + no consistency sample: 40 + 40 + 10.
	assert.Equal(t, 90, SleepScore(480, 5, nil))

	// Fewer than three samples falls back to the flat consistency default.
	assert.Equal(t, 90, SleepScore(480, 5, []string{"23:00", "23:00"}))

	// Identical bedtimes max out consistency; the sum clamps at 100.
	assert.Equal(t, 100, SleepScore(480, 5, []string{"23:00", "23:00", "23:00"}))

	// Quality above the scale is capped, not extrapolated.
	assert.Equal(t, SleepScore(480, 5, nil), SleepScore(480, 9, nil))
}

func TestSleepScoreBedtimeWrap(t *testing.T) {
	// Bedtimes straddling midnight are numerically close once wrapped, so
	// consistency stays near the cap rather than collapsing to zero.
	wrapped := SleepScore(480, 3, []string{"23:50", "00:10", "23:55"})
	scattered := SleepScore(480, 3, []string{"21:00", "01:00", "23:00"})
	assert.Greater(t, wrapped, scattered)
}

func TestSleepScoreSkipsMalformedBedtimes(t *testing.T) {
	// Two parseable samples is below the threshold: flat default applies.
	withGarbage := SleepScore(480, 4, []string{"23:00", "not-a-time", "23:30"})
	assert.Equal(t, SleepScore(480, 4, nil), withGarbage)
}

func TestAdherenceWithNoActiveMedications(t *testing.T) {
	svc := newTestService(t)

	points := svc.AdherenceRange(7)
	assert.Len(t, points, 7)
	for _, p := range points {
		assert.Zero(t, p.Ratio)
	}
}

func TestAdherenceRange(t *testing.T) {
	svc := newTestService(t)
	seedMedication(svc, "a", 30, true)
	seedMedication(svc, "b", 30, true)
	seedMedication(svc, "ghost", 30, false) // inactive, excluded

	seedTaken(svc, "a", 0)
	seedTaken(svc, "b", 0)
	seedTaken(svc, "a", 1)

	points := svc.AdherenceRange(3)
	assert.Equal(t, dateOffset(-2), points[0].Date)
	assert.InDelta(t, 0.0, points[0].Ratio, 0.001)
	assert.InDelta(t, 0.5, points[1].Ratio, 0.001)
	assert.InDelta(t, 1.0, points[2].Ratio, 0.001)
}

func TestPillStreakCountsBackward(t *testing.T) {
	svc := newTestService(t)
	seedMedication(svc, "a", 30, true)

	// Taken for the last 5 days, missed on day 6.
	for i := 0; i < 5; i++ {
		seedTaken(svc, "a", i)
	}
	seedTaken(svc, "a", 6)

	assert.Equal(t, 5, svc.PillStreak())
}

func TestPillStreakToleratesIncompleteToday(t *testing.T) {
	svc := newTestService(t)
	seedMedication(svc, "a", 30, true)

	seedTaken(svc, "a", 1)
	seedTaken(svc, "a", 2)
	seedTaken(svc, "a", 3)

	// Nothing logged today: today is skipped, not counted as a break.
	assert.Equal(t, 3, svc.PillStreak())
}

func TestPillStreakRequiresEveryActiveMedication(t *testing.T) {
	svc := newTestService(t)
	seedMedication(svc, "a", 30, true)
	seedMedication(svc, "b", 30, true)

	seedTaken(svc, "a", 0)
	seedTaken(svc, "b", 0)
	seedTaken(svc, "a", 1) // b missed yesterday

	assert.Equal(t, 1, svc.PillStreak())
}

func TestPillStreakNoActiveMedications(t *testing.T) {
	svc := newTestService(t)
	assert.Equal(t, 0, svc.PillStreak())

	seedMedication(svc, "ghost", 30, false)
	assert.Equal(t, 0, svc.PillStreak())
}

func TestPillStreakBoundedByMedicationAge(t *testing.T) {
	svc := newTestService(t)
	seedMedication(svc, "new", 2, true)

	seedTaken(svc, "new", 0)
	seedTaken(svc, "new", 1)
	seedTaken(svc, "new", 2)

	// The walk never looks before the medication existed.
	assert.Equal(t, 3, svc.PillStreak())
}

func TestSleepStreak(t *testing.T) {
	svc := newTestService(t)
	assert.Equal(t, 0, svc.SleepStreak())

	seedSleep(svc, 1)
	seedSleep(svc, 2)
	seedSleep(svc, 4) // gap on day 3

	// Today absent is tolerated; the gap two days back ends the count.
	assert.Equal(t, 2, svc.SleepStreak())

	seedSleep(svc, 0)
	assert.Equal(t, 3, svc.SleepStreak())
}

func TestSummarizeSleep(t *testing.T) {
	svc := newTestService(t)
	seedSleep(svc, 1)
	seedSleep(svc, 3)

	sum := svc.SummarizeSleep(7)
	assert.Equal(t, 7, sum.Days)
	assert.Equal(t, 2, sum.Nights)
	assert.InDelta(t, 480, sum.AvgDurationMin, 0.001)
	assert.InDelta(t, 90, sum.AvgScore, 0.001)

	empty := svc.SummarizeSleep(0)
	assert.Zero(t, empty.Nights)
	assert.Zero(t, empty.AvgDurationMin)
}
