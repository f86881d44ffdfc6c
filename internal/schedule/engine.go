package schedule

import (
	"sort"

	"github.com/ParallelMatter/Pillo-sub000/internal/models"
	"github.com/ParallelMatter/Pillo-sub000/internal/reference"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Engine распределяет добавки пользователя по слотам дня.
// Чистая функция от входных данных: ничего не читает и не пишет.
type Engine struct {
	Index *reference.Index
}

func NewEngine(idx *reference.Index) *Engine {
	return &Engine{Index: idx}
}

type bucket struct {
	candidate  Candidate
	ids        []uuid.UUID
	recurrence models.Recurrence
}

// Generate возвращает новые слоты без id и пользователя: их проставляет Merge и вызывающий код.
func (e *Engine) Generate(meals MealTimes, supplements []models.Supplement) ([]models.ScheduleSlot, error) {
	candidates, err := BuildTimeSlots(meals)
	if err != nil {
		return nil, err
	}

	profiles := make(map[uuid.UUID]profile, len(supplements))
	buckets := make([]bucket, len(candidates))
	for i, c := range candidates {
		buckets[i] = bucket{candidate: c, recurrence: models.Daily()}
	}

	var custom []models.Supplement
	for _, s := range supplements {
		if !s.Schedulable() {
			continue
		}
		if _, dup := profiles[s.ID]; dup {
			continue
		}
		p := newProfile(s, e.Index)
		profiles[s.ID] = p
		if s.UsesCustomTime() {
			custom = append(custom, s)
			continue
		}
		i := pickSlot(candidates, p.idealContext())
		if i < 0 {
			// все приёмы пищи пропущены, добавку некуда поставить
			continue
		}
		buckets[i].ids = append(buckets[i].ids, s.ID)
	}

	e.resolveConflicts(buckets, profiles)

	customBuckets, err := groupCustom(custom)
	if err != nil {
		return nil, err
	}
	buckets = append(buckets, customBuckets...)

	filled := buckets[:0]
	for _, b := range buckets {
		if len(b.ids) > 0 {
			filled = append(filled, b)
		}
	}
	sort.SliceStable(filled, func(i, j int) bool {
		return filled[i].candidate.Seconds < filled[j].candidate.Seconds
	})

	out := make([]models.ScheduleSlot, 0, len(filled))
	for i, b := range filled {
		out = append(out, models.ScheduleSlot{
			Time:          b.candidate.Time,
			Context:       b.candidate.Context,
			SupplementIDs: datatypes.JSONSlice[uuid.UUID](b.ids),
			Explanation:   explain(b.candidate.Context, b.ids, profiles),
			Recurrence:    b.recurrence,
			SortOrder:     i,
		})
	}
	return out, nil
}

// pickSlot ищет первый слот нужного контекста, иначе первый слот с едой.
func pickSlot(candidates []Candidate, ctx models.MealContext) int {
	if i := indexOf(candidates, ctx); i >= 0 {
		return i
	}
	for _, fb := range mealFallback {
		if i := indexOf(candidates, fb); i >= 0 {
			return i
		}
	}
	return -1
}

func indexOf(candidates []Candidate, ctx models.MealContext) int {
	for i, c := range candidates {
		if c.Context == ctx {
			return i
		}
	}
	return -1
}
