package schedule

import (
	"testing"

	"github.com/ParallelMatter/Pillo-sub000/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func takenLog(slotID uuid.UUID, date string, taken ...uuid.UUID) models.IntakeLog {
	return models.IntakeLog{
		ID:                 uuid.New(),
		SlotID:             slotID,
		Date:               date,
		SupplementIDsTaken: datatypes.JSONSlice[uuid.UUID](taken),
	}
}

func TestMergePreservesSlotIdentity(t *testing.T) {
	iron := newSupplement("Iron", models.CategoryMineral, "iron")
	existingID := uuid.New()
	existing := []models.ScheduleSlot{{
		ID:            existingID,
		Time:          "07:00",
		Context:       models.ContextEmptyStomach,
		SupplementIDs: datatypes.JSONSlice[uuid.UUID]{iron.ID},
	}}
	logs := []models.IntakeLog{takenLog(existingID, "2024-05-01", iron.ID)}

	generated, err := testEngine().Generate(DefaultMealTimes(), []models.Supplement{iron})
	require.NoError(t, err)

	res := Merge(existing, logs, generated)
	require.Len(t, res.Slots, 1)
	assert.Equal(t, existingID, res.Slots[0].ID)
	assert.Equal(t, "07:00", res.Slots[0].Time)
	assert.Equal(t, []uuid.UUID{existingID}, res.Preserved)
	assert.Empty(t, res.Placeholders)
	assert.Empty(t, res.Orphaned)
	// сам сгенерированный срез не меняется
	assert.Equal(t, uuid.Nil, generated[0].ID)
}

func TestMergeKeepsOrphanedHistoricalSlot(t *testing.T) {
	iron := newSupplement("Iron", models.CategoryMineral, "iron")
	mg := newSupplement("Magnesium", models.CategoryMineral, "magnesium")
	userID := uuid.New()
	oldIron := models.ScheduleSlot{
		ID:            uuid.New(),
		UserID:        userID,
		Time:          "07:00",
		Context:       models.ContextEmptyStomach,
		SupplementIDs: datatypes.JSONSlice[uuid.UUID]{iron.ID},
		Explanation:   noteIron,
		Recurrence:    models.SpecificDays(2, 3),
		SortOrder:     0,
	}
	oldMg := models.ScheduleSlot{
		ID:            uuid.New(),
		UserID:        userID,
		Time:          "21:00",
		Context:       models.ContextBedtime,
		SupplementIDs: datatypes.JSONSlice[uuid.UUID]{mg.ID},
		SortOrder:     1,
	}
	logs := []models.IntakeLog{takenLog(oldIron.ID, "2024-05-01", iron.ID)}

	// железо удалено из списка
	generated, err := testEngine().Generate(DefaultMealTimes(), []models.Supplement{mg})
	require.NoError(t, err)

	res := Merge([]models.ScheduleSlot{oldIron, oldMg}, logs, generated)
	require.Len(t, res.Slots, 1)
	assert.Equal(t, oldMg.ID, res.Slots[0].ID)

	require.Len(t, res.Placeholders, 1)
	ph := res.Placeholders[0]
	assert.Equal(t, oldIron.ID, ph.ID)
	assert.Equal(t, userID, ph.UserID)
	assert.Equal(t, "07:00", ph.Time)
	assert.Equal(t, models.ContextEmptyStomach, ph.Context)
	assert.Equal(t, noteIron, ph.Explanation)
	assert.Empty(t, ph.SupplementIDs)
	assert.True(t, ph.IsPlaceholder())
	assert.Equal(t, models.PlaceholderSortOrder, ph.SortOrder)
	assert.True(t, ph.Recurrence.Equal(oldIron.Recurrence))
	assert.Equal(t, []uuid.UUID{oldIron.ID}, res.Orphaned)

	all := res.All()
	require.Len(t, all, 2)
	assert.Equal(t, oldIron.ID, all[1].ID)
	assert.Len(t, res.Active(), 1)
}

func TestMergeDropsSlotsWithoutTakenHistory(t *testing.T) {
	iron := newSupplement("Iron", models.CategoryMineral, "iron")
	old := models.ScheduleSlot{ID: uuid.New(), Time: "07:00", Context: models.ContextEmptyStomach}
	skippedOnly := models.IntakeLog{
		ID:                   uuid.New(),
		SlotID:               old.ID,
		Date:                 "2024-05-01",
		SupplementIDsSkipped: datatypes.JSONSlice[uuid.UUID]{iron.ID},
	}

	res := Merge([]models.ScheduleSlot{old}, []models.IntakeLog{skippedOnly}, nil)
	assert.Empty(t, res.Slots)
	assert.Empty(t, res.Placeholders)
	assert.Empty(t, res.All())
}

func TestMergeIsIdempotent(t *testing.T) {
	sups := []models.Supplement{
		newSupplement("Calcium", models.CategoryMineral, "calcium"),
		newSupplement("Zinc", models.CategoryMineral, "zinc"),
		newSupplement("Magnesium", models.CategoryMineral, "magnesium"),
		withCustomTime(newSupplement("Creatine", models.CategoryAminoAcid, ""), "10:15", models.Daily()),
	}
	orphan := models.ScheduleSlot{ID: uuid.New(), Time: "12:30", Context: models.ContextWithLunch}
	logs := []models.IntakeLog{takenLog(orphan.ID, "2024-05-01", uuid.New())}

	g1, err := testEngine().Generate(DefaultMealTimes(), sups)
	require.NoError(t, err)
	first := Merge([]models.ScheduleSlot{orphan}, logs, g1)

	g2, err := testEngine().Generate(DefaultMealTimes(), sups)
	require.NoError(t, err)
	second := Merge(first.All(), logs, g2)

	assert.Equal(t, first.All(), second.All())
	assert.Len(t, second.Preserved, len(first.Slots))
	assert.Equal(t, []uuid.UUID{orphan.ID}, second.Orphaned)
}

func TestMergeClaimsEachExistingIDOnce(t *testing.T) {
	existing := models.ScheduleSlot{ID: uuid.New(), Time: "10:15", Context: models.ContextBetweenMeals}
	generated := []models.ScheduleSlot{
		{Time: "10:15", Context: models.ContextBetweenMeals, SupplementIDs: datatypes.JSONSlice[uuid.UUID]{uuid.New()}},
		{Time: "10:15", Context: models.ContextBetweenMeals, SupplementIDs: datatypes.JSONSlice[uuid.UUID]{uuid.New()}, Recurrence: models.Weekly(1)},
	}

	res := Merge([]models.ScheduleSlot{existing}, nil, generated)
	require.Len(t, res.Slots, 2)
	assert.Equal(t, existing.ID, res.Slots[0].ID)
	assert.NotEqual(t, uuid.Nil, res.Slots[1].ID)
	assert.NotEqual(t, existing.ID, res.Slots[1].ID)
}

func TestMergeRevivesPlaceholderWhenKeyReturns(t *testing.T) {
	iron := newSupplement("Iron", models.CategoryMineral, "iron")
	placeholder := models.ScheduleSlot{
		ID:            uuid.New(),
		Time:          "07:00",
		Context:       models.ContextEmptyStomach,
		SupplementIDs: datatypes.JSONSlice[uuid.UUID]{},
		SortOrder:     models.PlaceholderSortOrder,
	}
	logs := []models.IntakeLog{takenLog(placeholder.ID, "2024-04-01", uuid.New())}

	generated, err := testEngine().Generate(DefaultMealTimes(), []models.Supplement{iron})
	require.NoError(t, err)

	res := Merge([]models.ScheduleSlot{placeholder}, logs, generated)
	require.Len(t, res.Slots, 1)
	assert.Equal(t, placeholder.ID, res.Slots[0].ID)
	assert.Equal(t, 0, res.Slots[0].SortOrder)
	assert.Empty(t, res.Placeholders)
}
