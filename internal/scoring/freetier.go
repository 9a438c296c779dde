package scoring

import (
	"math"

	"resistmap/internal/model"
)

// Free-tier previews use a short uniform battery: three Likert items per
// archetype, no custom rules or reverse coding, fixed normalization bounds,
// and a neutral validity score that never shifts percentages.
const (
	FreeTierQuestionsPerArchetype = 3
	freeTierMinRaw                = 3
	freeTierMaxRaw                = 15
	freeTierLowThreshold          = 34
	freeTierModerateThreshold     = 50
	freeTierBalancingNeutral      = 45
	freeTierTopSlots              = 3
)

// FreeTierDefinition builds the reduced Definition for an unauthenticated
// preview of a category: archetypes in the given order, each fed by the next
// three consecutive question indices. The result is scored by the same
// engine as full assessments, so the two paths cannot drift.
func FreeTierDefinition(category string, archetypes []string) *model.Definition {
	def := &model.Definition{
		Category:           category,
		QuestionCount:      len(archetypes) * FreeTierQuestionsPerArchetype,
		ScaleMax:           5,
		MinRaw:             freeTierMinRaw,
		MaxRaw:             freeTierMaxRaw,
		LowThreshold:       freeTierLowThreshold,
		ModerateThreshold:  freeTierModerateThreshold,
		OverallCalculation: model.OverallAverageTop,
	}
	for i, name := range archetypes {
		start := i * FreeTierQuestionsPerArchetype
		def.Archetypes = append(def.Archetypes, model.Archetype{
			Name:            name,
			QuestionIndices: []int{start, start + 1, start + 2},
		})
	}
	return def
}

// ScoreFreeTier scores a preview battery. On top of the general engine it
// pins the balancing score to the neutral constant and, when the category
// declares fewer than three archetypes, averages over three slots padded
// with zero instead of over the available entries.
func ScoreFreeTier(def *model.Definition, responses []model.Response) (*model.Result, error) {
	res, err := Score(def, responses)
	if err != nil {
		return nil, err
	}

	neutral := float64(freeTierBalancingNeutral)
	res.BalancingScore = &neutral

	if len(def.Archetypes) < freeTierTopSlots {
		var sum float64
		for _, e := range res.TopArchetypes {
			sum += float64(e.Percentage)
		}
		res.OverallPercentage = math.Min(100, sum/freeTierTopSlots)
		res.ResistanceLevel = model.LevelFor(res.OverallPercentage, def.LowThreshold, def.ModerateThreshold)
	}

	return res, nil
}
