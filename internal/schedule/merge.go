package schedule

import (
	"github.com/ParallelMatter/Pillo-sub000/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MergeResult: итог сверки нового расписания с сохранённым.
type MergeResult struct {
	// Slots: реальные слоты с добавками, в порядке генерации.
	Slots []models.ScheduleSlot
	// Placeholders: пустые слоты, оставленные ради старых записей о приёме.
	Placeholders []models.ScheduleSlot
	Preserved    []uuid.UUID
	Orphaned     []uuid.UUID
}

// All: всё, что нужно сохранить взамен старого набора.
func (r MergeResult) All() []models.ScheduleSlot {
	out := make([]models.ScheduleSlot, 0, len(r.Slots)+len(r.Placeholders))
	out = append(out, r.Slots...)
	return append(out, r.Placeholders...)
}

// Active: слоты, для которых нужны напоминания.
func (r MergeResult) Active() []models.ScheduleSlot {
	return r.Slots
}

func slotKey(time string, ctx models.MealContext) string {
	return time + "|" + string(ctx)
}

// Merge переносит id старых слотов на новые с тем же (время, контекст) и
// сохраняет заглушки для слотов, на которые ссылаются записи с принятыми добавками.
// Каждый старый id достаётся не более чем одному новому слоту.
func Merge(existing []models.ScheduleSlot, logs []models.IntakeLog, generated []models.ScheduleSlot) MergeResult {
	available := make(map[string][]uuid.UUID)
	for _, s := range existing {
		if s.ID == uuid.Nil {
			continue
		}
		k := slotKey(s.Time, s.Context)
		available[k] = append(available[k], s.ID)
	}

	var res MergeResult
	covered := make(map[uuid.UUID]bool, len(generated))
	res.Slots = make([]models.ScheduleSlot, 0, len(generated))
	for _, g := range generated {
		slot := g
		slot.SupplementIDs = append(datatypes.JSONSlice[uuid.UUID](nil), g.SupplementIDs...)
		k := slotKey(slot.Time, slot.Context)
		if ids := available[k]; len(ids) > 0 {
			slot.ID = ids[0]
			available[k] = ids[1:]
			res.Preserved = append(res.Preserved, slot.ID)
		} else if slot.ID == uuid.Nil {
			slot.ID = uuid.New()
		}
		covered[slot.ID] = true
		res.Slots = append(res.Slots, slot)
	}

	historical := make(map[uuid.UUID]bool)
	for _, l := range logs {
		if l.HasTaken() {
			historical[l.SlotID] = true
		}
	}

	for _, s := range existing {
		if !historical[s.ID] || covered[s.ID] {
			continue
		}
		// повторно не добавляем, если старый набор содержал дубликаты id
		covered[s.ID] = true
		res.Orphaned = append(res.Orphaned, s.ID)
		res.Placeholders = append(res.Placeholders, models.ScheduleSlot{
			ID:            s.ID,
			UserID:        s.UserID,
			Time:          s.Time,
			Context:       s.Context,
			SupplementIDs: datatypes.JSONSlice[uuid.UUID]{},
			Explanation:   s.Explanation,
			Recurrence:    s.Recurrence,
			SortOrder:     models.PlaceholderSortOrder,
		})
	}
	return res
}
