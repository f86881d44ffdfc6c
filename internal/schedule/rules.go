package schedule

import (
	"strings"

	"github.com/ParallelMatter/Pillo-sub000/internal/models"
	"github.com/ParallelMatter/Pillo-sub000/internal/reference"
)

// Признаки добавки, по которым выбираются слот и пояснение.
type trait int

const (
	traitIron trait = iota
	traitVitaminC
	traitZinc
	traitCalcium
	traitMagnesium
	traitAshwagandha
	traitMelatonin
	traitMineral
	traitProbiotic
	traitAminoAcid
	traitFatSoluble
)

// Подстроки имени это эвристика, "Ironman Multi" тоже станет железом.
var traitKeywords = map[trait][]string{
	traitIron:        {"iron", "железо", "ferrous"},
	traitVitaminC:    {"vitamin c", "витамин c", "витамин с", "ascorbic"},
	traitZinc:        {"zinc", "цинк"},
	traitCalcium:     {"calcium", "кальций"},
	traitMagnesium:   {"magnesium", "магний"},
	traitAshwagandha: {"ashwagandha", "ашваганда"},
	traitMelatonin:   {"melatonin", "мелатонин"},
}

var traitReferences = map[string]trait{
	"iron":        traitIron,
	"vitamin_c":   traitVitaminC,
	"zinc":        traitZinc,
	"calcium":     traitCalcium,
	"magnesium":   traitMagnesium,
	"ashwagandha": traitAshwagandha,
	"melatonin":   traitMelatonin,
}

var traitCategories = map[models.Category]trait{
	models.CategoryVitaminFatSoluble: traitFatSoluble,
	models.CategoryOmega:             traitFatSoluble,
	models.CategoryMineral:           traitMineral,
	models.CategoryProbiotic:         traitProbiotic,
	models.CategoryAminoAcid:         traitAminoAcid,
}

var timingContexts = map[reference.Timing]models.MealContext{
	reference.TimingEmptyStomach: models.ContextEmptyStomach,
	reference.TimingWithFood:     models.ContextWithBreakfast,
	reference.TimingEvening:      models.ContextBedtime,
	reference.TimingBedtime:      models.ContextBedtime,
}

var categoryContexts = map[models.Category]models.MealContext{
	models.CategoryVitaminFatSoluble:   models.ContextWithBreakfast,
	models.CategoryOmega:               models.ContextWithBreakfast,
	models.CategoryVitaminWaterSoluble: models.ContextWithBreakfast,
	models.CategoryMineral:             models.ContextBetweenMeals,
	models.CategoryProbiotic:           models.ContextEmptyStomach,
	models.CategoryHerbal:              models.ContextWithBreakfast,
	models.CategoryAminoAcid:           models.ContextEmptyStomach,
	models.CategoryOther:               models.ContextWithBreakfast,
}

type nameOverride struct {
	trait   trait
	context models.MealContext
}

// Проверяются по порядку, до общего правила категории.
var nameOverrides = map[models.Category][]nameOverride{
	models.CategoryMineral: {
		{traitIron, models.ContextEmptyStomach},
		{traitMagnesium, models.ContextBedtime},
	},
	models.CategoryHerbal: {
		{traitAshwagandha, models.ContextBedtime},
		{traitMelatonin, models.ContextBedtime},
	},
}

var mealFallback = []models.MealContext{
	models.ContextWithBreakfast,
	models.ContextWithLunch,
	models.ContextWithDinner,
}

// profile: что движок знает о добавке, её собственные поля и (опционально) справочник.
type profile struct {
	name     string
	category models.Category
	ref      *reference.Reference
}

func newProfile(s models.Supplement, idx *reference.Index) profile {
	p := profile{
		name:     strings.ToLower(s.Name),
		category: models.NormalizeCategory(string(s.Category)),
	}
	if r, ok := idx.ByID(s.ReferenceID); ok {
		p.ref = &r
	}
	return p
}

func (p profile) refID() string {
	if p.ref == nil {
		return ""
	}
	return p.ref.ID
}

func (p profile) nameHas(t trait) bool {
	for _, kw := range traitKeywords[t] {
		if strings.Contains(p.name, kw) {
			return true
		}
	}
	return false
}

func (p profile) has(t trait) bool {
	if p.ref != nil {
		if rt, ok := traitReferences[p.ref.ID]; ok && rt == t {
			return true
		}
		if ct, ok := traitCategories[p.ref.Category]; ok && ct == t {
			return true
		}
		if t == traitFatSoluble && p.ref.RequiresFat {
			return true
		}
	}
	if ct, ok := traitCategories[p.category]; ok && ct == t {
		return true
	}
	return p.nameHas(t)
}

// idealContext: тайминг из справочника, иначе таблица категорий.
func (p profile) idealContext() models.MealContext {
	if p.ref != nil {
		if p.ref.Timing == reference.TimingFlexible {
			if p.ref.HasGoal(reference.GoalEnergy) {
				return models.ContextWithBreakfast
			}
			return models.ContextBetweenMeals
		}
		if ctx, ok := timingContexts[p.ref.Timing]; ok {
			return ctx
		}
	}
	for _, o := range nameOverrides[p.category] {
		if p.nameHas(o.trait) {
			return o.context
		}
	}
	return categoryContexts[p.category]
}
