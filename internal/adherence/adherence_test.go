package adherence

import (
	"testing"
	"time"

	"github.com/ParallelMatter/Pillo-sub000/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// 14 июня 2024: пятница
var today = time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return today.AddDate(0, 0, offset)
}

type fixture struct {
	sups  []models.Supplement
	slots []models.ScheduleSlot
	logs  []models.IntakeLog
}

func newFixture(n int, rec models.Recurrence) *fixture {
	f := &fixture{}
	ids := make(datatypes.JSONSlice[uuid.UUID], 0, n)
	for i := 0; i < n; i++ {
		s := models.Supplement{
			ID:        uuid.New(),
			CreatedAt: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
			IsActive:  true,
		}
		f.sups = append(f.sups, s)
		ids = append(ids, s.ID)
	}
	f.slots = append(f.slots, models.ScheduleSlot{
		ID:            uuid.New(),
		Time:          "08:00",
		Context:       models.ContextWithBreakfast,
		SupplementIDs: ids,
		Recurrence:    rec,
	})
	return f
}

func (f *fixture) take(offset int, count int) {
	slot := f.slots[0]
	f.logs = append(f.logs, models.IntakeLog{
		ID:                 uuid.New(),
		SlotID:             slot.ID,
		Date:               models.DateString(day(offset)),
		SupplementIDsTaken: append(datatypes.JSONSlice[uuid.UUID](nil), slot.SupplementIDs[:count]...),
	})
}

func (f *fixture) calc() Calculator {
	return Calculator{Logs: f.logs, Slots: f.slots, Supplements: f.sups, Today: today}
}

func allDaysExcept(t time.Time) models.Recurrence {
	var days []int
	for d := 1; d <= 7; d++ {
		if d != models.WeekdayOf(t) {
			days = append(days, d)
		}
	}
	return models.SpecificDays(days...)
}

func TestActiveCountRespectsCreationAndArchive(t *testing.T) {
	f := newFixture(3, models.Daily())
	f.sups[1].CreatedAt = day(-2).Add(20 * time.Hour)
	f.sups[2].IsArchived = true
	c := f.calc()

	assert.Equal(t, 1, c.ActiveSupplementCountOn(day(-3)))
	assert.Equal(t, 2, c.ActiveSupplementCountOn(day(-2)))
	assert.Equal(t, 2, c.ActiveSupplementCountOn(today))
}

func TestActiveCountWithoutSupplementContext(t *testing.T) {
	f := newFixture(3, models.Daily())
	c := f.calc()
	c.Supplements = nil
	assert.Equal(t, 3, c.ActiveSupplementCountOn(today))
}

func TestActiveCountFollowsRecurrence(t *testing.T) {
	f := newFixture(2, models.EveryNDays(2, day(-4)))
	c := f.calc()

	assert.Equal(t, 2, c.ActiveSupplementCountOn(day(-4)))
	assert.Equal(t, 0, c.ActiveSupplementCountOn(day(-3)))
	assert.Equal(t, 2, c.ActiveSupplementCountOn(day(-2)))
	assert.Equal(t, 0, c.ActiveSupplementCountOn(day(-5)))
}

func TestTakenCountIgnoresUnknownSlots(t *testing.T) {
	f := newFixture(2, models.Daily())
	f.take(0, 1)
	f.logs = append(f.logs, models.IntakeLog{
		SlotID:             uuid.New(),
		Date:               models.DateString(today),
		SupplementIDsTaken: datatypes.JSONSlice[uuid.UUID]{uuid.New(), uuid.New()},
	})
	c := f.calc()

	assert.Equal(t, 1, c.TakenCountOn(today))
	assert.False(t, c.IsDayComplete(today))
	assert.Equal(t, 0, c.TakenCountOn(day(-1)))
}

func TestIsDayCompleteNeedsActiveSupplements(t *testing.T) {
	f := newFixture(0, models.Daily())
	c := f.calc()
	assert.False(t, c.IsDayComplete(today))
}

func TestStreakSkipsDaysWithoutActiveSupplements(t *testing.T) {
	// полные дни: -4, -3, -1, сегодня; день -2 без приёмов по расписанию
	f := newFixture(2, allDaysExcept(day(-2)))
	for _, off := range []int{-4, -3, -1, 0} {
		f.take(off, 2)
	}
	c := f.calc()

	require.Equal(t, 0, c.ActiveSupplementCountOn(day(-2)))
	assert.Equal(t, 4, c.Streak())
}

func TestStreakCountsConsecutiveCompleteDays(t *testing.T) {
	f := newFixture(1, models.Daily())
	for off := -5; off <= 0; off++ {
		f.take(off, 1)
	}
	assert.Equal(t, 6, f.calc().Streak())
}

func TestStreakIncompleteTodayDoesNotBreak(t *testing.T) {
	f := newFixture(2, models.Daily())
	f.take(-2, 2)
	f.take(-1, 2)
	f.take(0, 1)
	assert.Equal(t, 2, f.calc().Streak())
}

func TestStreakStopsAtPartialDay(t *testing.T) {
	f := newFixture(2, models.Daily())
	f.take(0, 2)
	f.take(-1, 1)
	f.take(-2, 2)
	assert.Equal(t, 1, f.calc().Streak())
}

func TestStreakIsBounded(t *testing.T) {
	f := newFixture(1, models.Daily())
	f.sups[0].CreatedAt = day(-500)
	for off := -450; off <= 0; off++ {
		f.take(off, 1)
	}
	assert.Equal(t, maxStreakDays+1, f.calc().Streak())
}

func TestStreakWithoutScheduleIsZero(t *testing.T) {
	f := newFixture(0, models.Daily())
	assert.Equal(t, 0, f.calc().Streak())
}

func TestSevenDayHistory(t *testing.T) {
	f := newFixture(2, allDaysExcept(day(-5)))
	f.take(-6, 2) // complete
	// -5 нет приёмов по расписанию
	f.take(-4, 1) // partial
	// -3 missed
	f.take(-2, 2)
	f.take(-1, 1)
	c := f.calc()

	h := c.SevenDayHistory()
	require.Len(t, h, 7)
	assert.Equal(t, day(-6), h[0].Date)
	assert.Equal(t, today, h[6].Date)

	got := make([]DayStatus, len(h))
	for i := range h {
		got[i] = h[i].Status
	}
	assert.Equal(t, []DayStatus{
		StatusComplete,
		StatusMissed,
		StatusPartial,
		StatusMissed,
		StatusComplete,
		StatusPartial,
		StatusToday,
	}, got)
	assert.Equal(t, 2, h[6].Active)
	assert.Equal(t, 0, h[6].Taken)

	f.take(0, 2)
	h = f.calc().SevenDayHistory()
	assert.Equal(t, StatusComplete, h[6].Status)
}

func TestMonthHistory(t *testing.T) {
	f := newFixture(1, models.Daily())
	f.take(-1, 1)
	f.take(0, 1)
	start := time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)

	h := f.calc().MonthHistory(2024, time.June, &start)
	require.Len(t, h, 30)

	for _, d := range h[:9] {
		assert.Equal(t, StatusFuture, d.Status, d.Date)
	}
	assert.Equal(t, StatusMissed, h[9].Status)   // 10 июня
	assert.Equal(t, StatusComplete, h[12].Status) // 13 июня
	assert.Equal(t, StatusComplete, h[13].Status) // сегодня
	for _, d := range h[14:] {
		assert.Equal(t, StatusFuture, d.Status, d.Date)
	}

	h = f.calc().MonthHistory(2024, time.May, nil)
	require.Len(t, h, 31)
	assert.Equal(t, StatusMissed, h[0].Status)
}

func TestSummary(t *testing.T) {
	f := newFixture(3, models.Daily())
	f.take(-1, 3)
	f.take(0, 2)

	s := f.calc().Summary()
	assert.Equal(t, Summary{Completed: 2, Total: 3, Streak: 1}, s)
}
