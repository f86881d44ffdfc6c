package models

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
)

var ErrInvalidRecurrence = errors.New("invalid recurrence")

type RecurrenceKind string

const (
	RecurrenceDaily        RecurrenceKind = "daily"
	RecurrenceSpecificDays RecurrenceKind = "specific_days"
	RecurrenceEveryNDays   RecurrenceKind = "every_n_days"
	RecurrenceWeekly       RecurrenceKind = "weekly"
)

// Recurrence хранится явными колонками (kind + параметры), а не сериализованным блобом.
// Дни недели: 1 = воскресенье ... 7 = суббота.
// Пустой Kind означает ежедневный приём.
type Recurrence struct {
	Kind      RecurrenceKind           `gorm:"type:varchar(16)" json:"kind"`
	Weekdays  datatypes.JSONSlice[int] `json:"weekdays,omitempty"`
	Interval  int                      `json:"interval,omitempty"`
	StartDate *time.Time               `json:"start_date,omitempty"`
	Weekday   int                      `json:"weekday,omitempty"`
}

func Daily() Recurrence {
	return Recurrence{Kind: RecurrenceDaily}
}

func SpecificDays(days ...int) Recurrence {
	return Recurrence{Kind: RecurrenceSpecificDays, Weekdays: days}
}

func EveryNDays(interval int, start time.Time) Recurrence {
	d := StartOfDay(start)
	return Recurrence{Kind: RecurrenceEveryNDays, Interval: interval, StartDate: &d}
}

func Weekly(weekday int) Recurrence {
	return Recurrence{Kind: RecurrenceWeekly, Weekday: weekday}
}

// WeekdayOf переводит time.Weekday (0 = воскресенье) в нумерацию 1–7.
func WeekdayOf(t time.Time) int {
	return int(t.Weekday()) + 1
}

// StartIn возвращает полночь стартового дня в loc. База может вернуть StartDate
// в UTC, поэтому календарный день берётся только после перевода в зону пользователя.
func (r Recurrence) StartIn(loc *time.Location) time.Time {
	if r.StartDate == nil {
		return time.Time{}
	}
	return StartOfDay(r.StartDate.In(loc))
}

func (r Recurrence) normalizedKind() RecurrenceKind {
	if r.Kind == "" {
		return RecurrenceDaily
	}
	return r.Kind
}

func (r Recurrence) IsDaily() bool {
	return r.normalizedKind() == RecurrenceDaily
}

// IsActiveOn сообщает, нужно ли принимать добавку в указанный календарный день.
func (r Recurrence) IsActiveOn(date time.Time) bool {
	switch r.normalizedKind() {
	case RecurrenceDaily:
		return true
	case RecurrenceSpecificDays:
		wd := WeekdayOf(date)
		for _, d := range r.Weekdays {
			if d == wd {
				return true
			}
		}
		return false
	case RecurrenceEveryNDays:
		if r.StartDate == nil || r.Interval < 1 {
			return false
		}
		days := DaysBetween(r.StartIn(date.Location()), date)
		return days >= 0 && days%r.Interval == 0
	case RecurrenceWeekly:
		return WeekdayOf(date) == r.Weekday
	default:
		return false
	}
}

func (r Recurrence) Validate() error {
	switch r.normalizedKind() {
	case RecurrenceDaily:
		return nil
	case RecurrenceSpecificDays:
		if len(r.Weekdays) == 0 {
			return fmt.Errorf("%w: specific days require at least one weekday", ErrInvalidRecurrence)
		}
		for _, d := range r.Weekdays {
			if d < 1 || d > 7 {
				return fmt.Errorf("%w: weekday %d out of range 1-7", ErrInvalidRecurrence, d)
			}
		}
		return nil
	case RecurrenceEveryNDays:
		if r.Interval < 2 {
			return fmt.Errorf("%w: interval must be at least 2, got %d", ErrInvalidRecurrence, r.Interval)
		}
		if r.StartDate == nil {
			return fmt.Errorf("%w: every-n-days requires a start date", ErrInvalidRecurrence)
		}
		return nil
	case RecurrenceWeekly:
		if r.Weekday < 1 || r.Weekday > 7 {
			return fmt.Errorf("%w: weekday %d out of range 1-7", ErrInvalidRecurrence, r.Weekday)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRecurrence, r.Kind)
	}
}

// Key: каноническое строковое представление для группировки и сравнения.
func (r Recurrence) Key() string {
	switch kind := r.normalizedKind(); kind {
	case RecurrenceSpecificDays:
		days := append([]int(nil), r.Weekdays...)
		sort.Ints(days)
		parts := make([]string, len(days))
		for i, d := range days {
			parts[i] = strconv.Itoa(d)
		}
		return string(kind) + ":" + strings.Join(parts, ",")
	case RecurrenceEveryNDays:
		start := ""
		if r.StartDate != nil {
			start = DateString(*r.StartDate)
		}
		return fmt.Sprintf("%s:%d:%s", kind, r.Interval, start)
	case RecurrenceWeekly:
		return fmt.Sprintf("%s:%d", kind, r.Weekday)
	default:
		return string(kind)
	}
}

func (r Recurrence) Equal(other Recurrence) bool {
	return r.Key() == other.Key()
}
