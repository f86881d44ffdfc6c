package adherence

import (
	"time"

	"github.com/ParallelMatter/Pillo-sub000/internal/models"
	"github.com/google/uuid"
)

// Жёсткий предел обхода истории при подсчёте серии.
const maxStreakDays = 365

type DayStatus string

const (
	StatusComplete DayStatus = "complete"
	StatusPartial  DayStatus = "partial"
	StatusMissed   DayStatus = "missed"
	StatusToday    DayStatus = "today"
	StatusFuture   DayStatus = "future"
)

type DayStat struct {
	Date   time.Time
	Active int
	Taken  int
	Status DayStatus
}

// Calculator считает статистику приёма по уже загруженным данным. Без побочных эффектов.
// Пустой Supplements означает, что контекст добавок неизвестен: тогда считается
// длина списка в слоте.
type Calculator struct {
	Logs        []models.IntakeLog
	Slots       []models.ScheduleSlot
	Supplements []models.Supplement
	Today       time.Time
}

func (c Calculator) today() time.Time {
	return models.StartOfDay(c.Today)
}

func (c Calculator) ActiveSupplementCountOn(date time.Time) int {
	var byID map[uuid.UUID]*models.Supplement
	if len(c.Supplements) > 0 {
		byID = make(map[uuid.UUID]*models.Supplement, len(c.Supplements))
		for i := range c.Supplements {
			byID[c.Supplements[i].ID] = &c.Supplements[i]
		}
	}

	count := 0
	for _, slot := range c.Slots {
		if len(slot.SupplementIDs) == 0 || !slot.IsActiveOn(date) {
			continue
		}
		if byID == nil {
			count += len(slot.SupplementIDs)
			continue
		}
		for _, id := range slot.SupplementIDs {
			s, ok := byID[id]
			if ok && !s.IsArchived && s.ExistedOn(date) {
				count++
			}
		}
	}
	return count
}

func (c Calculator) TakenCountOn(date time.Time) int {
	current := make(map[uuid.UUID]bool, len(c.Slots))
	for _, s := range c.Slots {
		current[s.ID] = true
	}
	day := models.DateString(date)
	count := 0
	for _, l := range c.Logs {
		if l.Date == day && current[l.SlotID] {
			count += len(l.SupplementIDsTaken)
		}
	}
	return count
}

func (c Calculator) IsDayComplete(date time.Time) bool {
	active := c.ActiveSupplementCountOn(date)
	return active > 0 && c.TakenCountOn(date) >= active
}

// Streak: число подряд идущих полностью выполненных дней, считая назад от сегодня.
// Дни без запланированных добавок пропускаются и серию не прерывают.
// Незавершённый сегодняшний день серию тоже не прерывает.
func (c Calculator) Streak() int {
	today := c.today()
	streak := 0
	if c.IsDayComplete(today) {
		streak = 1
	}
	for i := 1; i <= maxStreakDays; i++ {
		day := today.AddDate(0, 0, -i)
		if c.ActiveSupplementCountOn(day) == 0 {
			continue
		}
		if !c.IsDayComplete(day) {
			break
		}
		streak++
	}
	return streak
}

func (c Calculator) dayStat(date time.Time, isToday bool) DayStat {
	st := DayStat{
		Date:   date,
		Active: c.ActiveSupplementCountOn(date),
		Taken:  c.TakenCountOn(date),
	}
	switch {
	case st.Active > 0 && st.Taken >= st.Active:
		st.Status = StatusComplete
	case isToday:
		st.Status = StatusToday
	case st.Active > 0 && st.Taken > 0:
		st.Status = StatusPartial
	default:
		st.Status = StatusMissed
	}
	return st
}

// SevenDayHistory возвращает семь дней от самого старого к сегодняшнему.
func (c Calculator) SevenDayHistory() []DayStat {
	today := c.today()
	out := make([]DayStat, 0, 7)
	for offset := 6; offset >= 0; offset-- {
		out = append(out, c.dayStat(today.AddDate(0, 0, -offset), offset == 0))
	}
	return out
}

// MonthHistory: каждый день месяца. Дни после сегодня и до начала отслеживания
// помечаются как future.
func (c Calculator) MonthHistory(year int, month time.Month, trackingStart *time.Time) []DayStat {
	today := c.today()
	loc := today.Location()
	var start time.Time
	if trackingStart != nil {
		start = models.StartOfDay(trackingStart.In(loc))
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	var out []DayStat
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		if d.After(today) || (trackingStart != nil && d.Before(start)) {
			out = append(out, DayStat{Date: d, Status: StatusFuture})
			continue
		}
		out = append(out, c.dayStat(d, d.Equal(today)))
	}
	return out
}

// Summary: сводка на сегодня для виджета и бота.
type Summary struct {
	Completed int
	Total     int
	Streak    int
}

func (c Calculator) Summary() Summary {
	today := c.today()
	sum := Summary{
		Completed: c.TakenCountOn(today),
		Total:     c.ActiveSupplementCountOn(today),
		Streak:    c.Streak(),
	}
	if sum.Completed > sum.Total {
		sum.Completed = sum.Total
	}
	return sum
}
