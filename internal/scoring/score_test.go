package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resistmap/internal/model"
)

// singleArchetypeDef is the 6-question battery used by the end-to-end cases:
// one archetype fed by every question, raw range 3..30, thresholds 34/54.
func singleArchetypeDef() *model.Definition {
	return &model.Definition{
		Category:      "leadership",
		QuestionCount: 6,
		Archetypes: []model.Archetype{
			{Name: "controller", QuestionIndices: []int{0, 1, 2, 3, 4, 5}},
		},
		MinRaw:             3,
		MaxRaw:             30,
		LowThreshold:       34,
		ModerateThreshold:  54,
		OverallCalculation: model.OverallDominant,
	}
}

func likerts(values ...int) []model.Response {
	out := make([]model.Response, len(values))
	for i, v := range values {
		out[i] = model.Likert(v)
	}
	return out
}

func TestScoreEndToEnd(t *testing.T) {
	def := singleArchetypeDef()
	require.NoError(t, def.Validate())

	t.Run("all max responses", func(t *testing.T) {
		res, err := Score(def, likerts(5, 5, 5, 5, 5, 5))
		require.NoError(t, err)

		assert.Equal(t, 30.0, res.RawScores["controller"])
		assert.Equal(t, 100.0, res.Percentages["controller"])
		assert.Equal(t, "controller", res.Dominant)
		assert.Equal(t, 100.0, res.OverallPercentage)
		assert.Equal(t, model.LevelHigh, res.ResistanceLevel)
		assert.Nil(t, res.BalancingScore)
	})

	t.Run("all min responses", func(t *testing.T) {
		res, err := Score(def, likerts(1, 1, 1, 1, 1, 1))
		require.NoError(t, err)

		assert.Equal(t, 6.0, res.RawScores["controller"])
		assert.InDelta(t, 11.11, res.Percentages["controller"], 0.01)
		require.Len(t, res.TopArchetypes, 1)
		assert.Equal(t, 11, res.TopArchetypes[0].Percentage)
		assert.Equal(t, model.LevelLow, res.ResistanceLevel)
	})
}

func TestScoreDeterminism(t *testing.T) {
	def := singleArchetypeDef()
	responses := likerts(4, 2, 5, 1, 3, 4)

	first, err := Score(def, responses)
	require.NoError(t, err)
	second, err := Score(def, responses)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestReverseScoreRoundTrip(t *testing.T) {
	plain := &model.Definition{
		Category:           "synthetic",
		QuestionCount:      1,
		Archetypes:         []model.Archetype{{Name: "a", QuestionIndices: []int{0}}},
		MinRaw:             1,
		MaxRaw:             5,
		LowThreshold:       34,
		ModerateThreshold:  54,
		OverallCalculation: model.OverallDominant,
	}
	reversed := *plain
	reversed.ReverseScored = []int{0}

	for _, pair := range [][2]int{{1, 5}, {2, 4}, {3, 3}, {4, 2}, {5, 1}} {
		revRes, err := Score(&reversed, likerts(pair[0]))
		require.NoError(t, err)
		plainRes, err := Score(plain, likerts(pair[1]))
		require.NoError(t, err)
		assert.Equal(t, plainRes.RawScores["a"], revRes.RawScores["a"],
			"reversed %d should accumulate like plain %d", pair[0], pair[1])
	}
}

func TestReverseScoreWiderScale(t *testing.T) {
	def := &model.Definition{
		Category:           "synthetic",
		QuestionCount:      1,
		ScaleMax:           7,
		Archetypes:         []model.Archetype{{Name: "a", QuestionIndices: []int{0}}},
		ReverseScored:      []int{0},
		MinRaw:             1,
		MaxRaw:             7,
		LowThreshold:       34,
		ModerateThreshold:  54,
		OverallCalculation: model.OverallDominant,
	}

	res, err := Score(def, likerts(2))
	require.NoError(t, err)
	assert.Equal(t, 6.0, res.RawScores["a"])
}

func TestSharedQuestionFeedsMultipleArchetypes(t *testing.T) {
	def := &model.Definition{
		Category:      "synthetic",
		QuestionCount: 2,
		Archetypes: []model.Archetype{
			{Name: "a", QuestionIndices: []int{0, 1}},
			{Name: "b", QuestionIndices: []int{0}},
		},
		MinRaw:             0,
		MaxRaw:             10,
		LowThreshold:       34,
		ModerateThreshold:  54,
		OverallCalculation: model.OverallDominant,
	}

	res, err := Score(def, likerts(4, 3))
	require.NoError(t, err)
	assert.Equal(t, 7.0, res.RawScores["a"])
	assert.Equal(t, 4.0, res.RawScores["b"])
}

func ipsativeDef() *model.Definition {
	return &model.Definition{
		Category:      "synthetic",
		QuestionCount: 1,
		Archetypes: []model.Archetype{
			{Name: "a"}, {Name: "b"}, {Name: "c"},
		},
		CustomRules: []model.QuestionRule{
			{
				Index: 0,
				Kind:  model.RuleIpsative,
				Options: []model.IpsativeMapping{
					{Code: 0, Archetype: "a"},
					{Code: 1, Archetype: "b"},
					{Code: 2, Archetype: "c"},
				},
			},
		},
		MinRaw:             -1,
		MaxRaw:             2,
		LowThreshold:       34,
		ModerateThreshold:  54,
		OverallCalculation: model.OverallDominant,
	}
}

func TestIpsativeScoring(t *testing.T) {
	def := ipsativeDef()
	require.NoError(t, def.Validate())

	res, err := Score(def, []model.Response{model.ForcedChoice(0, 1)})
	require.NoError(t, err)

	assert.Equal(t, 2.0, res.RawScores["a"])
	assert.Equal(t, -1.0, res.RawScores["b"])
	assert.Equal(t, 0.0, res.RawScores["c"])
}

func TestIpsativeSameArchetypeMostAndLeast(t *testing.T) {
	def := ipsativeDef()
	def.CustomRules[0].Options[1].Archetype = "a" // codes 0 and 1 both point at a

	res, err := Score(def, []model.Response{model.ForcedChoice(0, 1)})
	require.NoError(t, err)

	// least resolving to the same archetype as most must not subtract
	assert.Equal(t, 2.0, res.RawScores["a"])
}

func TestIpsativeUnmappedCodesContributeNothing(t *testing.T) {
	def := ipsativeDef()

	res, err := Score(def, []model.Response{model.ForcedChoice(7, 8)})
	require.NoError(t, err)

	for _, name := range []string{"a", "b", "c"} {
		assert.Equal(t, 0.0, res.RawScores[name])
	}
}

func TestIpsativeMostEqualsLeastFails(t *testing.T) {
	def := ipsativeDef()

	_, err := Score(def, []model.Response{model.ForcedChoice(1, 1)})
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func multipleChoiceDef() *model.Definition {
	return &model.Definition{
		Category:      "synthetic",
		QuestionCount: 2,
		Archetypes: []model.Archetype{
			{Name: "a", QuestionIndices: []int{1}},
		},
		CustomRules: []model.QuestionRule{
			{
				Index: 0,
				Kind:  model.RuleMultipleChoice,
				Choices: []model.ChoiceMapping{
					{Code: 1, Archetype: "a", Score: 4},
					{Code: 2, Archetype: model.NoArchetype, Score: 3},
					{Code: 3, Archetype: "a", Score: 0},
				},
			},
		},
		MinRaw:             0,
		MaxRaw:             10,
		LowThreshold:       34,
		ModerateThreshold:  54,
		OverallCalculation: model.OverallTotalSum,
		OverallMax:         10,
	}
}

func TestMultipleChoiceScoring(t *testing.T) {
	def := multipleChoiceDef()
	require.NoError(t, def.Validate())

	res, err := Score(def, []model.Response{model.Choice(1), model.Likert(2)})
	require.NoError(t, err)

	assert.Equal(t, 6.0, res.RawScores["a"])
	// total-sum sees the choice's processed value plus the likert value
	assert.Equal(t, 60.0, res.OverallPercentage)
}

func TestMultipleChoiceNoneCreditsNobodyButCountsTowardTotal(t *testing.T) {
	def := multipleChoiceDef()

	res, err := Score(def, []model.Response{model.Choice(2), model.Likert(2)})
	require.NoError(t, err)

	assert.Equal(t, 2.0, res.RawScores["a"])
	assert.Equal(t, 50.0, res.OverallPercentage) // 3 + 2 over overallMax 10
}

func TestMultipleChoiceUnknownCodeFails(t *testing.T) {
	def := multipleChoiceDef()

	_, err := Score(def, []model.Response{model.Choice(9), model.Likert(2)})
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestResponseKindMismatchFails(t *testing.T) {
	def := multipleChoiceDef()

	cases := map[string][]model.Response{
		"likert on a choice slot":        {model.Likert(3), model.Likert(2)},
		"forced choice on a choice slot": {model.ForcedChoice(0, 1), model.Likert(2)},
		"choice on a likert slot":        {model.Choice(1), model.Choice(2)},
	}
	for name, responses := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Score(def, responses)
			require.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestLikertOutOfScaleFails(t *testing.T) {
	def := singleArchetypeDef()

	for _, v := range []int{0, 6, -2} {
		_, err := Score(def, likerts(v, 3, 3, 3, 3, 3))
		require.ErrorIs(t, err, ErrMalformedResponse, "value %d", v)
	}
}

func TestResponseCountMismatchFails(t *testing.T) {
	def := singleArchetypeDef()

	_, err := Score(def, likerts(3, 3))
	require.ErrorIs(t, err, ErrIncompleteResponses)

	_, err = Score(def, likerts(3, 3, 3, 3, 3, 3, 3))
	require.ErrorIs(t, err, ErrIncompleteResponses)
}

// balancingDef has one archetype on questions 0-1 and a validity pair on
// questions 2-3 that feeds no archetype.
func balancingDef() *model.Definition {
	return &model.Definition{
		Category:      "synthetic",
		QuestionCount: 4,
		Archetypes: []model.Archetype{
			{Name: "a", QuestionIndices: []int{0, 1}},
		},
		MinRaw:            2,
		MaxRaw:            10,
		LowThreshold:      34,
		ModerateThreshold: 54,
		Balancing: &model.BalancingConfig{
			Indices:        []int{2, 3},
			Min:            1,
			Max:            5,
			AdjustmentHigh: -3,
			AdjustmentLow:  2,
		},
		OverallCalculation: model.OverallDominant,
	}
}

func TestBalancingAdjustsDownWhenHigh(t *testing.T) {
	def := balancingDef()

	res, err := Score(def, likerts(4, 4, 5, 5))
	require.NoError(t, err)

	require.NotNil(t, res.BalancingScore)
	assert.Equal(t, 100.0, *res.BalancingScore)
	// raw 8 → 75%, shifted by -3
	assert.Equal(t, 72.0, res.Percentages["a"])
}

func TestBalancingAdjustsUpWhenLow(t *testing.T) {
	def := balancingDef()

	res, err := Score(def, likerts(4, 4, 1, 1))
	require.NoError(t, err)

	require.NotNil(t, res.BalancingScore)
	assert.Equal(t, 0.0, *res.BalancingScore)
	assert.Equal(t, 77.0, res.Percentages["a"])
}

func TestBalancingNeutralLeavesPercentagesAlone(t *testing.T) {
	def := balancingDef()

	// balancing sum 6 → score 50, between the thresholds
	res, err := Score(def, likerts(4, 4, 3, 3))
	require.NoError(t, err)

	require.NotNil(t, res.BalancingScore)
	assert.Equal(t, 50.0, *res.BalancingScore)
	assert.Equal(t, 75.0, res.Percentages["a"])
}

func TestBalancingAdjustmentClamps(t *testing.T) {
	def := balancingDef()

	t.Run("shift down clamps at zero", func(t *testing.T) {
		res, err := Score(def, likerts(1, 1, 5, 5))
		require.NoError(t, err)
		assert.Equal(t, 0.0, res.Percentages["a"])
	})

	t.Run("shift up clamps at hundred", func(t *testing.T) {
		res, err := Score(def, likerts(5, 5, 1, 1))
		require.NoError(t, err)
		assert.Equal(t, 100.0, res.Percentages["a"])
	})
}

func twoArchetypeDef(calc model.OverallCalculation) *model.Definition {
	return &model.Definition{
		Category:      "synthetic",
		QuestionCount: 2,
		Archetypes: []model.Archetype{
			{Name: "a", QuestionIndices: []int{0}},
			{Name: "b", QuestionIndices: []int{1}},
		},
		MinRaw:             0,
		MaxRaw:             5,
		LowThreshold:       34,
		ModerateThreshold:  54,
		OverallCalculation: calc,
		OverallMax:         10,
	}
}

func TestAggregationModes(t *testing.T) {
	// responses give a=80%, b=40%
	responses := likerts(4, 2)

	t.Run("dominant", func(t *testing.T) {
		res, err := Score(twoArchetypeDef(model.OverallDominant), responses)
		require.NoError(t, err)
		assert.Equal(t, 80.0, res.OverallPercentage)
	})

	t.Run("average-top3 over two entries", func(t *testing.T) {
		res, err := Score(twoArchetypeDef(model.OverallAverageTop), responses)
		require.NoError(t, err)
		assert.Equal(t, 60.0, res.OverallPercentage)
	})

	t.Run("total-sum", func(t *testing.T) {
		res, err := Score(twoArchetypeDef(model.OverallTotalSum), responses)
		require.NoError(t, err)
		// processed sum 6 over overallMax 10
		assert.Equal(t, 60.0, res.OverallPercentage)
	})
}

func TestRankingOrderAndTieBreak(t *testing.T) {
	def := &model.Definition{
		Category:      "synthetic",
		QuestionCount: 4,
		Archetypes: []model.Archetype{
			{Name: "first", QuestionIndices: []int{0}},
			{Name: "second", QuestionIndices: []int{1}},
			{Name: "third", QuestionIndices: []int{2}},
			{Name: "fourth", QuestionIndices: []int{3}},
		},
		MinRaw:             0,
		MaxRaw:             5,
		LowThreshold:       34,
		ModerateThreshold:  54,
		OverallCalculation: model.OverallAverageTop,
	}

	// second outranks all; first and third tie, declaration order keeps
	// first ahead; fourth is cut by the top-3 limit
	res, err := Score(def, likerts(3, 5, 3, 1))
	require.NoError(t, err)

	require.Len(t, res.TopArchetypes, 3)
	assert.Equal(t, "second", res.TopArchetypes[0].Name)
	assert.Equal(t, "first", res.TopArchetypes[1].Name)
	assert.Equal(t, "third", res.TopArchetypes[2].Name)
	assert.Equal(t, "second", res.Dominant)

	for i := 1; i < len(res.TopArchetypes); i++ {
		assert.GreaterOrEqual(t, res.TopArchetypes[i-1].Percentage, res.TopArchetypes[i].Percentage)
	}
}

func TestPercentagesStayInRange(t *testing.T) {
	// minRaw above anything reachable forces negative pre-clamp values
	def := singleArchetypeDef()
	def.MinRaw = 20
	def.MaxRaw = 25

	res, err := Score(def, likerts(1, 1, 1, 1, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Percentages["controller"])

	// maxRaw below anything reachable forces >100 pre-clamp values
	def.MinRaw = 0
	def.MaxRaw = 10
	res, err = Score(def, likerts(5, 5, 5, 5, 5, 5))
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.Percentages["controller"])
}

func TestBandingBoundariesAreInclusive(t *testing.T) {
	assert.Equal(t, model.LevelLow, model.LevelFor(34, 34, 54))
	assert.Equal(t, model.LevelModerate, model.LevelFor(34.01, 34, 54))
	assert.Equal(t, model.LevelModerate, model.LevelFor(54, 34, 54))
	assert.Equal(t, model.LevelHigh, model.LevelFor(54.01, 34, 54))
}

func TestNoArchetypesScoresEmptyDominant(t *testing.T) {
	def := &model.Definition{
		Category:           "synthetic",
		QuestionCount:      1,
		MinRaw:             0,
		MaxRaw:             5,
		LowThreshold:       34,
		ModerateThreshold:  54,
		OverallCalculation: model.OverallDominant,
	}

	res, err := Score(def, likerts(3))
	require.NoError(t, err)
	assert.Empty(t, res.Dominant)
	assert.Equal(t, 0.0, res.OverallPercentage)
	assert.Equal(t, model.LevelLow, res.ResistanceLevel)
}
