package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekdayNumbering(t *testing.T) {
	assert.Equal(t, 1, WeekdayOf(date(2024, 6, 9)))  // воскресенье
	assert.Equal(t, 2, WeekdayOf(date(2024, 6, 10))) // понедельник
	assert.Equal(t, 7, WeekdayOf(date(2024, 6, 15))) // суббота
}

func TestRecurrenceIsActiveOn(t *testing.T) {
	start := date(2024, 6, 1)
	tests := []struct {
		name string
		rec  Recurrence
		day  time.Time
		want bool
	}{
		{"zero value is daily", Recurrence{}, date(2024, 1, 1), true},
		{"daily", Daily(), date(2030, 12, 31), true},
		{"specific day hit", SpecificDays(2, 4, 6), date(2024, 6, 10), true},
		{"specific day miss", SpecificDays(2, 4, 6), date(2024, 6, 11), false},
		{"every n days on start", EveryNDays(3, start), start, true},
		{"every n days off cycle", EveryNDays(3, start), date(2024, 6, 5), false},
		{"every n days on cycle", EveryNDays(3, start), date(2024, 6, 7), true},
		{"every n days before start", EveryNDays(3, start), date(2024, 5, 29), false},
		{"weekly hit", Weekly(1), date(2024, 6, 16), true},
		{"weekly miss", Weekly(1), date(2024, 6, 17), false},
		{"unknown kind", Recurrence{Kind: "monthly"}, start, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rec.IsActiveOn(tt.day))
		})
	}
}

func TestEveryNDaysIgnoresTimeOfDay(t *testing.T) {
	rec := EveryNDays(2, time.Date(2024, 6, 1, 23, 30, 0, 0, time.UTC))
	assert.True(t, rec.IsActiveOn(time.Date(2024, 6, 3, 0, 5, 0, 0, time.UTC)))
}

func TestEveryNDaysSurvivesUTCStorage(t *testing.T) {
	msk := time.FixedZone("MSK", 3*3600)
	r := EveryNDays(2, time.Date(2024, 6, 10, 9, 0, 0, 0, msk))
	// так дату возвращает postgres с TimeZone=UTC
	stored := r.StartDate.UTC()
	r.StartDate = &stored

	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, msk), r.StartIn(msk))
	assert.True(t, r.IsActiveOn(time.Date(2024, 6, 10, 0, 0, 0, 0, msk)))
	assert.False(t, r.IsActiveOn(time.Date(2024, 6, 11, 0, 0, 0, 0, msk)))
	assert.True(t, r.IsActiveOn(time.Date(2024, 6, 12, 23, 30, 0, 0, msk)))
	assert.False(t, r.IsActiveOn(time.Date(2024, 6, 9, 12, 0, 0, 0, msk)))
}

func TestRecurrenceValidate(t *testing.T) {
	start := date(2024, 6, 1)
	require.NoError(t, Daily().Validate())
	require.NoError(t, Recurrence{}.Validate())
	require.NoError(t, SpecificDays(1, 7).Validate())
	require.NoError(t, EveryNDays(2, start).Validate())
	require.NoError(t, Weekly(3).Validate())

	bad := []Recurrence{
		SpecificDays(),
		SpecificDays(0, 3),
		SpecificDays(8),
		EveryNDays(1, start),
		{Kind: RecurrenceEveryNDays, Interval: 3},
		Weekly(0),
		{Kind: "monthly"},
	}
	for _, r := range bad {
		assert.ErrorIs(t, r.Validate(), ErrInvalidRecurrence, r.Key())
	}
}

func TestRecurrenceKey(t *testing.T) {
	assert.True(t, Recurrence{}.Equal(Daily()))
	assert.True(t, SpecificDays(6, 2, 4).Equal(SpecificDays(2, 4, 6)))
	assert.False(t, SpecificDays(2).Equal(Weekly(2)))
	assert.Equal(t, "every_n_days:3:2024-06-01", EveryNDays(3, date(2024, 6, 1)).Key())
	assert.False(t, EveryNDays(3, date(2024, 6, 1)).Equal(EveryNDays(3, date(2024, 6, 2))))
}
