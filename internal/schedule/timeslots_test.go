package schedule

import (
	"testing"

	"github.com/ParallelMatter/Pillo-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func times(c []Candidate) []string {
	out := make([]string, len(c))
	for i := range c {
		out[i] = c[i].Time
	}
	return out
}

func TestBuildTimeSlotsDefaultMeals(t *testing.T) {
	got, err := BuildTimeSlots(DefaultMealTimes())
	require.NoError(t, err)

	assert.Equal(t, []string{"07:00", "08:00", "10:15", "12:30", "15:45", "19:00", "21:00"}, times(got))
	assert.Equal(t, []models.MealContext{
		models.ContextEmptyStomach,
		models.ContextWithBreakfast,
		models.ContextBetweenMeals,
		models.ContextWithLunch,
		models.ContextBetweenMeals,
		models.ContextWithDinner,
		models.ContextBedtime,
	}, []models.MealContext{got[0].Context, got[1].Context, got[2].Context, got[3].Context, got[4].Context, got[5].Context, got[6].Context})
	assert.Equal(t, 7*3600, got[0].Seconds)
}

func TestBuildTimeSlotsSkipBreakfast(t *testing.T) {
	m := DefaultMealTimes()
	m.SkipBreakfast = true
	m.Breakfast = ""

	got, err := BuildTimeSlots(m)
	require.NoError(t, err)
	assert.Equal(t, []string{"12:30", "15:45", "19:00", "21:00"}, times(got))
	assert.Equal(t, models.ContextWithLunch, got[0].Context)
}

func TestBuildTimeSlotsWrapsAroundMidnight(t *testing.T) {
	got, err := BuildTimeSlots(MealTimes{Breakfast: "00:30", Lunch: "13:00", Dinner: "23:00"})
	require.NoError(t, err)

	assert.Equal(t, "23:30", got[0].Time)
	assert.Equal(t, models.ContextEmptyStomach, got[0].Context)
	assert.Equal(t, "01:00", got[6].Time)
	assert.Equal(t, models.ContextBedtime, got[6].Context)
	assert.Equal(t, 3600, got[6].Seconds)
}

func TestBuildTimeSlotsMidpointAcrossMidnight(t *testing.T) {
	got, err := BuildTimeSlots(MealTimes{SkipBreakfast: true, Lunch: "22:00", Dinner: "01:00"})
	require.NoError(t, err)
	assert.Equal(t, "23:30", got[1].Time)
}

func TestBuildTimeSlotsRejectsMalformedTime(t *testing.T) {
	_, err := BuildTimeSlots(MealTimes{Breakfast: "8am", Lunch: "12:30", Dinner: "19:00"})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidClock)

	_, err = BuildTimeSlots(MealTimes{SkipBreakfast: true, Lunch: "25:00", Dinner: "19:00"})
	assert.ErrorIs(t, err, models.ErrInvalidClock)
}
