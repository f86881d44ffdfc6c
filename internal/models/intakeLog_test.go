package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIntakeLogMarks(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	now := time.Date(2024, 6, 14, 8, 5, 0, 0, time.UTC)
	var l IntakeLog
	assert.True(t, l.IsEmpty())

	l.MarkTaken(a, now)
	l.MarkTaken(a, now)
	assert.True(t, l.HasTaken())
	assert.Len(t, l.SupplementIDsTaken, 1)
	assert.Equal(t, &now, l.TakenAt)

	l.MarkSkipped(b)
	assert.True(t, l.IsSkipped(b))

	l.MarkSkipped(a)
	assert.False(t, l.IsTaken(a))
	assert.True(t, l.IsSkipped(a))
	assert.Nil(t, l.TakenAt)

	l.Unmark(a)
	l.Unmark(b)
	assert.True(t, l.IsEmpty())
}

func TestSupplementHelpers(t *testing.T) {
	s := Supplement{IsActive: true, CreatedAt: time.Date(2024, 6, 10, 22, 0, 0, 0, time.UTC)}
	assert.False(t, s.UsesCustomTime())
	empty := ""
	s.CustomTime = &empty
	assert.False(t, s.UsesCustomTime())
	at := "09:00"
	s.CustomTime = &at
	assert.True(t, s.UsesCustomTime())

	assert.True(t, s.Schedulable())
	s.IsArchived = true
	assert.False(t, s.Schedulable())

	assert.True(t, s.ExistedOn(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)))
	assert.False(t, s.ExistedOn(time.Date(2024, 6, 9, 23, 59, 0, 0, time.UTC)))

	assert.Equal(t, CategoryMineral, NormalizeCategory(" Mineral "))
	assert.Equal(t, CategoryOther, NormalizeCategory("powder"))
}
