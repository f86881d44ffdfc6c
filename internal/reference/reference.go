package reference

import (
	"strings"

	"github.com/ParallelMatter/Pillo-sub000/internal/models"
)

type Timing string

const (
	TimingEmptyStomach Timing = "empty_stomach"
	TimingWithFood     Timing = "with_food"
	TimingEvening      Timing = "evening"
	TimingBedtime      Timing = "bedtime"
	TimingFlexible     Timing = "flexible"
)

const GoalEnergy = "energy"

type DosageRange struct {
	Min  float64 `yaml:"min" json:"min"`
	Max  float64 `yaml:"max" json:"max"`
	Unit string  `yaml:"unit" json:"unit"`
}

// Reference: справочная карточка добавки. Неизменяема после загрузки.
type Reference struct {
	ID              string          `yaml:"id" json:"id"`
	Names           []string        `yaml:"names" json:"names"`
	Category        models.Category `yaml:"category" json:"category"`
	Dosage          DosageRange     `yaml:"dosage" json:"dosage"`
	Timing          Timing          `yaml:"timing" json:"timing"`
	RequiresFat     bool            `yaml:"requires_fat" json:"requires_fat"`
	AbsorptionNotes string          `yaml:"absorption_notes" json:"absorption_notes"`
	AvoidWith       []string        `yaml:"avoid_with" json:"avoid_with"`
	PairsWith       []string        `yaml:"pairs_with" json:"pairs_with"`
	SpacingHours    int             `yaml:"spacing_hours" json:"spacing_hours"`
	Goals           []string        `yaml:"goals" json:"goals"`
	Keywords        []string        `yaml:"keywords" json:"keywords"`
	Benefits        string          `yaml:"benefits" json:"benefits"`
	Demographics    []string        `yaml:"demographics" json:"demographics"`
	DeficiencySigns []string        `yaml:"deficiency_signs" json:"deficiency_signs"`
}

func (r Reference) DisplayName() string {
	if len(r.Names) > 0 {
		return r.Names[0]
	}
	return r.ID
}

func (r Reference) HasGoal(goal string) bool {
	for _, g := range r.Goals {
		if strings.EqualFold(g, goal) {
			return true
		}
	}
	return false
}

// Interaction: неупорядоченная пара несовместимых добавок.
type Interaction struct {
	A            string `yaml:"a" json:"a"`
	B            string `yaml:"b" json:"b"`
	SpacingHours int    `yaml:"spacing_hours" json:"spacing_hours"`
	Severity     string `yaml:"severity" json:"severity"`
	Description  string `yaml:"description" json:"description"`
}

func (i Interaction) Involves(id string) bool {
	return i.A == id || i.B == id
}

func (i Interaction) Matches(a, b string) bool {
	return (i.A == a && i.B == b) || (i.A == b && i.B == a)
}

type Synergy struct {
	A      string `yaml:"a" json:"a"`
	B      string `yaml:"b" json:"b"`
	Effect string `yaml:"effect" json:"effect"`
}

func (s Synergy) Involves(id string) bool {
	return s.A == id || s.B == id
}

// Bundle: формат файла справочника.
type Bundle struct {
	Supplements  []Reference   `yaml:"supplements" json:"supplements"`
	Interactions []Interaction `yaml:"interactions" json:"interactions"`
	Synergies    []Synergy     `yaml:"synergies" json:"synergies"`
}
