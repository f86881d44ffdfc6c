package schedule

import (
	"fmt"

	"github.com/ParallelMatter/Pillo-sub000/internal/models"
)

const (
	day                = 24 * 3600
	emptyStomachOffset = -60 * 60
	bedtimeOffset      = 120 * 60
)

type MealTimes struct {
	Breakfast     string
	Lunch         string
	Dinner        string
	SkipBreakfast bool
}

func MealTimesOf(u models.User) MealTimes {
	return MealTimes{
		Breakfast:     u.BreakfastTime,
		Lunch:         u.LunchTime,
		Dinner:        u.DinnerTime,
		SkipBreakfast: u.SkipBreakfast,
	}
}

// DefaultMealTimes: значения, которые получает новый пользователь.
func DefaultMealTimes() MealTimes {
	return MealTimes{Breakfast: "08:00", Lunch: "12:30", Dinner: "19:00"}
}

// Candidate: возможный слот дня до распределения добавок.
type Candidate struct {
	Time    string
	Seconds int
	Context models.MealContext
}

func newCandidate(seconds int, ctx models.MealContext) Candidate {
	seconds = wrap(seconds)
	return Candidate{Time: models.FormatClock(seconds), Seconds: seconds, Context: ctx}
}

// BuildTimeSlots строит кандидатов в порядке дня. Время, выходящее за сутки,
// заворачивается (ужин 23:00 -> отбой 01:00).
func BuildTimeSlots(m MealTimes) ([]Candidate, error) {
	lunch, err := models.ParseClock(m.Lunch)
	if err != nil {
		return nil, fmt.Errorf("lunch: %w", err)
	}
	dinner, err := models.ParseClock(m.Dinner)
	if err != nil {
		return nil, fmt.Errorf("dinner: %w", err)
	}

	out := make([]Candidate, 0, 7)
	if !m.SkipBreakfast {
		breakfast, err := models.ParseClock(m.Breakfast)
		if err != nil {
			return nil, fmt.Errorf("breakfast: %w", err)
		}
		out = append(out,
			newCandidate(breakfast+emptyStomachOffset, models.ContextEmptyStomach),
			newCandidate(breakfast, models.ContextWithBreakfast),
			newCandidate(midpoint(breakfast, lunch), models.ContextBetweenMeals),
		)
	}
	out = append(out,
		newCandidate(lunch, models.ContextWithLunch),
		newCandidate(midpoint(lunch, dinner), models.ContextBetweenMeals),
		newCandidate(dinner, models.ContextWithDinner),
		newCandidate(dinner+bedtimeOffset, models.ContextBedtime),
	)
	return out, nil
}

// midpoint считает конец, который раньше начала, временем следующих суток.
func midpoint(start, end int) int {
	if end < start {
		end += day
	}
	return start + (end-start)/2
}

func wrap(seconds int) int {
	seconds %= day
	if seconds < 0 {
		seconds += day
	}
	return seconds
}

// distance: абсолютная разница времени суток, без перехода через полночь.
func distance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
