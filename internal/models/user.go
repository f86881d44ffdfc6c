package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID                   uuid.UUID `gorm:"primaryKey"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
	TelegramID           int64 `gorm:"uniqueIndex;not null"` // Telegram user ID
	Name                 string
	BreakfastTime        string `gorm:"type:varchar(5);default:08:00"`
	LunchTime            string `gorm:"type:varchar(5);default:12:30"`
	DinnerTime           string `gorm:"type:varchar(5);default:19:00"`
	SkipBreakfast        bool   `gorm:"default:false"`
	NotificationsEnabled bool   `gorm:"default:true"`
	TrackingStartedAt    *time.Time
	Supplements          []Supplement   `gorm:"constraint:OnDelete:CASCADE"`
	Slots                []ScheduleSlot `gorm:"constraint:OnDelete:CASCADE"`
	IntakeLogs           []IntakeLog    `gorm:"constraint:OnDelete:CASCADE"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}
