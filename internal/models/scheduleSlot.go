package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MealContext string

const (
	ContextEmptyStomach  MealContext = "empty_stomach"
	ContextWithBreakfast MealContext = "with_breakfast"
	ContextWithLunch     MealContext = "with_lunch"
	ContextWithDinner    MealContext = "with_dinner"
	ContextBetweenMeals  MealContext = "between_meals"
	ContextBedtime       MealContext = "bedtime"
)

// PlaceholderSortOrder: слоты-заглушки для истории всегда в конце списка.
const PlaceholderSortOrder = 999

func (c MealContext) IsMeal() bool {
	return c == ContextWithBreakfast || c == ContextWithLunch || c == ContextWithDinner
}

type ScheduleSlot struct {
	ID            uuid.UUID `gorm:"primaryKey"`
	CreatedAt     time.Time
	UserID        uuid.UUID                      `gorm:"index;not null"`
	Time          string                         `gorm:"type:varchar(5);not null"` // "HH:mm"
	Context       MealContext                    `gorm:"type:varchar(32);not null"`
	SupplementIDs datatypes.JSONSlice[uuid.UUID] // порядок важен
	Explanation   string
	Recurrence    Recurrence `gorm:"embedded;embeddedPrefix:recurrence_"`
	SortOrder     int
}

func (s *ScheduleSlot) BeforeCreate(tx *gorm.DB) (err error) {
	// id сохраняется при перегенерации, поэтому генерируем только для новых слотов
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

func (s *ScheduleSlot) IsPlaceholder() bool {
	return len(s.SupplementIDs) == 0
}

func (s *ScheduleSlot) IsActiveOn(date time.Time) bool {
	return s.Recurrence.IsActiveOn(date)
}

// Seconds возвращает время слота в секундах от полуночи; ok=false для битого "HH:mm".
func (s *ScheduleSlot) Seconds() (int, bool) {
	sec, err := ParseClock(s.Time)
	if err != nil {
		return 0, false
	}
	return sec, true
}

func (s *ScheduleSlot) Contains(id uuid.UUID) bool {
	for _, sid := range s.SupplementIDs {
		if sid == id {
			return true
		}
	}
	return false
}
