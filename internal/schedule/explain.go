package schedule

import (
	"strings"

	"github.com/ParallelMatter/Pillo-sub000/internal/models"
	"github.com/google/uuid"
)

const (
	noteIronWithC     = "Iron is paired with vitamin C, which boosts its absorption on an empty stomach."
	noteIron          = "Iron absorbs best on an empty stomach."
	noteProbiotic     = "Probiotics survive stomach acid better before food."
	noteAminoAcid     = "Amino acids absorb faster without competing dietary protein."
	noteFatSoluble    = "Fat-soluble nutrients are absorbed with the fat in this meal."
	noteZincDinner    = "Zinc with dinner protein is easier on the stomach."
	noteCalcium       = "Calcium is kept away from meals and other minerals so they don't compete for absorption."
	noteMinerals      = "Minerals are spaced away from meals so they don't compete for absorption."
	noteMagnesium     = "Magnesium supports muscle relaxation before sleep."
	noteAshwagandhaPM = "Ashwagandha helps lower evening stress."
)

func explain(ctx models.MealContext, ids []uuid.UUID, profiles map[uuid.UUID]profile) string {
	has := func(t trait) bool {
		for _, id := range ids {
			if profiles[id].has(t) {
				return true
			}
		}
		return false
	}

	var notes []string
	switch {
	case ctx == models.ContextEmptyStomach:
		switch {
		case has(traitIron) && has(traitVitaminC):
			notes = append(notes, noteIronWithC)
		case has(traitIron):
			notes = append(notes, noteIron)
		}
		if has(traitProbiotic) {
			notes = append(notes, noteProbiotic)
		}
		if has(traitAminoAcid) {
			notes = append(notes, noteAminoAcid)
		}
	case ctx.IsMeal():
		if has(traitFatSoluble) {
			notes = append(notes, noteFatSoluble)
		}
		if ctx == models.ContextWithDinner && has(traitZinc) {
			notes = append(notes, noteZincDinner)
		}
	case ctx == models.ContextBetweenMeals:
		switch {
		case has(traitCalcium):
			notes = append(notes, noteCalcium)
		case has(traitMineral):
			notes = append(notes, noteMinerals)
		}
	case ctx == models.ContextBedtime:
		if has(traitMagnesium) {
			notes = append(notes, noteMagnesium)
		}
		if has(traitAshwagandha) {
			notes = append(notes, noteAshwagandhaPM)
		}
	}
	return strings.Join(notes, " ")
}
