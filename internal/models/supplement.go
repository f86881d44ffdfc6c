package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryVitaminFatSoluble   Category = "vitamin_fat_soluble"
	CategoryVitaminWaterSoluble Category = "vitamin_water_soluble"
	CategoryMineral             Category = "mineral"
	CategoryOmega               Category = "omega"
	CategoryProbiotic           Category = "probiotic"
	CategoryHerbal              Category = "herbal"
	CategoryAminoAcid           Category = "amino_acid"
	CategoryOther               Category = "other"
)

var Categories = []Category{
	CategoryVitaminFatSoluble,
	CategoryVitaminWaterSoluble,
	CategoryMineral,
	CategoryOmega,
	CategoryProbiotic,
	CategoryHerbal,
	CategoryAminoAcid,
	CategoryOther,
}

// NormalizeCategory приводит произвольную строку к известной категории, иначе other.
func NormalizeCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c
		}
	}
	return CategoryOther
}

type Supplement struct {
	ID          uuid.UUID `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	UserID      uuid.UUID `gorm:"index;not null"`
	Name        string    `gorm:"not null"` // Витамин D3
	Category    Category  `gorm:"type:varchar(32);not null;default:other"`
	Dosage      string    // "2000"
	Unit        string    // "МЕ", "мг"
	Form        string    // капсула, таблетка
	Barcode     string
	ReferenceID string `gorm:"index"` // ссылка на справочник, "" если не найдена
	IsActive    bool   `gorm:"default:true"`
	IsArchived  bool   `gorm:"default:false"`
	ArchivedAt  *time.Time

	// Фиксированное время "HH:mm" отключает автоматическое распределение
	CustomTime       *string    `gorm:"type:varchar(5)"`
	CustomRecurrence Recurrence `gorm:"embedded;embeddedPrefix:custom_recurrence_"`
}

func (s *Supplement) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

func (s *Supplement) UsesCustomTime() bool {
	return s.CustomTime != nil && *s.CustomTime != ""
}

// Schedulable: добавка участвует в построении будущего расписания.
func (s *Supplement) Schedulable() bool {
	return s.IsActive && !s.IsArchived
}

// ExistedOn: добавка уже была создана к концу указанного дня.
func (s *Supplement) ExistedOn(date time.Time) bool {
	return !StartOfDay(s.CreatedAt.In(date.Location())).After(StartOfDay(date))
}
