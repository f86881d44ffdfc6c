package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Ровно одна запись на пару (слот, дата).
type IntakeLog struct {
	ID                   uuid.UUID `gorm:"primaryKey"`
	CreatedAt            time.Time
	UserID               uuid.UUID `gorm:"index;not null"`
	SlotID               uuid.UUID `gorm:"not null;uniqueIndex:idx_intake_slot_date"`
	Date                 string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_intake_slot_date"` // "yyyy-MM-dd"
	SupplementIDsTaken   datatypes.JSONSlice[uuid.UUID]
	SupplementIDsSkipped datatypes.JSONSlice[uuid.UUID]
	TakenAt              *time.Time
	RescheduledFor       *time.Time // "напомни позже", только на сегодня
}

func (l *IntakeLog) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}

// IsEmpty: пустая запись удаляется, а не хранится.
func (l *IntakeLog) IsEmpty() bool {
	return len(l.SupplementIDsTaken) == 0 && len(l.SupplementIDsSkipped) == 0
}

func (l *IntakeLog) HasTaken() bool {
	return len(l.SupplementIDsTaken) > 0
}

func (l *IntakeLog) IsTaken(id uuid.UUID) bool {
	return containsID(l.SupplementIDsTaken, id)
}

func (l *IntakeLog) IsSkipped(id uuid.UUID) bool {
	return containsID(l.SupplementIDsSkipped, id)
}

// MarkTaken переносит добавку в принятые (и убирает из пропущенных).
func (l *IntakeLog) MarkTaken(id uuid.UUID, at time.Time) {
	l.SupplementIDsSkipped = removeID(l.SupplementIDsSkipped, id)
	if !containsID(l.SupplementIDsTaken, id) {
		l.SupplementIDsTaken = append(l.SupplementIDsTaken, id)
	}
	l.TakenAt = &at
}

func (l *IntakeLog) MarkSkipped(id uuid.UUID) {
	l.SupplementIDsTaken = removeID(l.SupplementIDsTaken, id)
	if !containsID(l.SupplementIDsSkipped, id) {
		l.SupplementIDsSkipped = append(l.SupplementIDsSkipped, id)
	}
	if len(l.SupplementIDsTaken) == 0 {
		l.TakenAt = nil
	}
}

func (l *IntakeLog) Unmark(id uuid.UUID) {
	l.SupplementIDsTaken = removeID(l.SupplementIDsTaken, id)
	l.SupplementIDsSkipped = removeID(l.SupplementIDsSkipped, id)
	if len(l.SupplementIDsTaken) == 0 {
		l.TakenAt = nil
	}
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids datatypes.JSONSlice[uuid.UUID], id uuid.UUID) datatypes.JSONSlice[uuid.UUID] {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
