package schedule

import (
	"testing"

	"github.com/ParallelMatter/Pillo-sub000/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func profiles(ps ...profile) ([]uuid.UUID, map[uuid.UUID]profile) {
	ids := make([]uuid.UUID, len(ps))
	m := make(map[uuid.UUID]profile, len(ps))
	for i, p := range ps {
		ids[i] = uuid.New()
		m[ids[i]] = p
	}
	return ids, m
}

func TestExplainEmptyStomach(t *testing.T) {
	ids, m := profiles(
		profile{name: "iron", category: models.CategoryMineral},
		profile{name: "vitamin c", category: models.CategoryVitaminWaterSoluble},
		profile{name: "lacto", category: models.CategoryProbiotic},
	)
	assert.Equal(t, noteIronWithC+" "+noteProbiotic, explain(models.ContextEmptyStomach, ids, m))

	ids, m = profiles(profile{name: "l-glutamine", category: models.CategoryAminoAcid})
	assert.Equal(t, noteAminoAcid, explain(models.ContextEmptyStomach, ids, m))
}

func TestExplainMeals(t *testing.T) {
	ids, m := profiles(
		profile{name: "fish oil", category: models.CategoryOmega},
		profile{name: "zinc", category: models.CategoryMineral},
	)
	assert.Equal(t, noteFatSoluble+" "+noteZincDinner, explain(models.ContextWithDinner, ids, m))
	assert.Equal(t, noteFatSoluble, explain(models.ContextWithLunch, ids, m))
}

func TestExplainBetweenMealsAndBedtime(t *testing.T) {
	ids, m := profiles(profile{name: "кальций", category: models.CategoryMineral})
	assert.Equal(t, noteCalcium, explain(models.ContextBetweenMeals, ids, m))

	ids, m = profiles(profile{name: "selenium", category: models.CategoryMineral})
	assert.Equal(t, noteMinerals, explain(models.ContextBetweenMeals, ids, m))

	ids, m = profiles(
		profile{name: "magnesium glycinate", category: models.CategoryMineral},
		profile{name: "ashwagandha", category: models.CategoryHerbal},
	)
	assert.Equal(t, noteMagnesium+" "+noteAshwagandhaPM, explain(models.ContextBedtime, ids, m))
}

func TestExplainEmpty(t *testing.T) {
	ids, m := profiles(profile{name: "creatine", category: models.CategoryAminoAcid})
	assert.Equal(t, "", explain(models.ContextBedtime, ids, m))
	assert.Equal(t, "", explain(models.ContextWithBreakfast, nil, nil))
}
