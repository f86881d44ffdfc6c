package notify

import (
	"fmt"
	"time"

	"github.com/ParallelMatter/Pillo-sub000/internal/models"
	"github.com/robfig/cron/v3"
)

// specsFor возвращает cron-выражения для слота: одно на каждый день повторения.
// Для every_n_days выражения нет, вместо него windowSchedule.
func specsFor(slot models.ScheduleSlot) ([]string, error) {
	sec, err := models.ParseClock(slot.Time)
	if err != nil {
		return nil, err
	}
	h, m := sec/3600, (sec%3600)/60

	switch slot.Recurrence.Kind {
	case models.RecurrenceDaily, "":
		return []string{fmt.Sprintf("%d %d * * *", m, h)}, nil
	case models.RecurrenceSpecificDays:
		specs := make([]string, 0, len(slot.Recurrence.Weekdays))
		for _, d := range slot.Recurrence.Weekdays {
			specs = append(specs, fmt.Sprintf("%d %d * * %d", m, h, d-1))
		}
		return specs, nil
	case models.RecurrenceWeekly:
		return []string{fmt.Sprintf("%d %d * * %d", m, h, slot.Recurrence.Weekday-1)}, nil
	default:
		return nil, nil
	}
}

// windowSchedule: конечный набор разовых срабатываний. После последнего Next
// возвращает нулевое время, и cron больше не запускает задачу.
type windowSchedule struct {
	times []time.Time
}

func (w windowSchedule) Next(t time.Time) time.Time {
	for _, at := range w.times {
		if at.After(t) {
			return at
		}
	}
	return time.Time{}
}

// everyNDaysWindow строит до limit будущих срабатываний для every_n_days, начиная с from.
func everyNDaysWindow(slot models.ScheduleSlot, from time.Time, limit int) (cron.Schedule, error) {
	r := slot.Recurrence
	if err := r.Validate(); err != nil {
		return nil, err
	}
	sec, err := models.ParseClock(slot.Time)
	if err != nil {
		return nil, err
	}

	loc := from.Location()
	start := r.StartIn(loc)
	day := models.StartOfDay(from)
	if offset := models.DaysBetween(start, day); offset > 0 {
		// первый активный день не раньше сегодняшнего
		steps := (offset + r.Interval - 1) / r.Interval
		day = start.AddDate(0, 0, steps*r.Interval)
	} else {
		day = start
	}

	if limit < 1 {
		limit = 1
	}
	var times []time.Time
	for len(times) < limit {
		at := time.Date(day.Year(), day.Month(), day.Day(), sec/3600, (sec%3600)/60, 0, 0, loc)
		if at.After(from) {
			times = append(times, at)
		}
		day = day.AddDate(0, 0, r.Interval)
	}
	return windowSchedule{times: times}, nil
}

// onceSchedule срабатывает один раз (отложенное напоминание).
type onceSchedule struct {
	at time.Time
}

func (o onceSchedule) Next(t time.Time) time.Time {
	if t.Before(o.at) {
		return o.at
	}
	return time.Time{}
}
