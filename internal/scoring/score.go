// Package scoring converts a battery of raw question responses into
// per-archetype scores, percentages, a ranked top list, and an overall
// resistance level. Score is pure: no I/O, no shared state, safe to call
// from any number of goroutines.
package scoring

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"resistmap/internal/model"
)

var (
	// ErrMalformedResponse reports a response the Definition cannot score:
	// an out-of-scale Likert value, a choice code absent from its rule's
	// mapping, an ipsative pair with most == least, or a response kind that
	// does not match the question's rule.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrIncompleteResponses reports a response slice whose length does not
	// match the Definition's question count.
	ErrIncompleteResponses = errors.New("incomplete response set")
)

// ipsative contribution weights: +2 to the "most like me" archetype,
// -1 to a distinct "least like me" archetype
const (
	ipsativeMostCredit  = 2
	ipsativeLeastCredit = -1
)

// Score runs the full scoring pipeline for one respondent. The Definition is
// assumed to have passed Validate at load time; responses are the only
// untrusted input checked here.
func Score(def *model.Definition, responses []model.Response) (*model.Result, error) {
	if len(responses) != def.QuestionCount {
		return nil, fmt.Errorf("%w: got %d responses, want %d", ErrIncompleteResponses, len(responses), def.QuestionCount)
	}

	scaleMax := def.Scale()

	rules := make(map[int]*model.QuestionRule, len(def.CustomRules))
	for i := range def.CustomRules {
		rules[def.CustomRules[i].Index] = &def.CustomRules[i]
	}
	reverse := make(map[int]bool, len(def.ReverseScored))
	for _, idx := range def.ReverseScored {
		reverse[idx] = true
	}
	// index → archetypes it feeds under the default Likert rule
	members := make(map[int][]string)
	raw := make(map[string]float64, len(def.Archetypes))
	for _, a := range def.Archetypes {
		raw[a.Name] = 0
		for _, idx := range a.QuestionIndices {
			members[idx] = append(members[idx], a.Name)
		}
	}

	processed := make([]float64, def.QuestionCount)
	var totalProcessed float64

	for i, resp := range responses {
		rule, custom := rules[i]
		switch {
		case custom && rule.Kind == model.RuleMultipleChoice:
			if resp.Kind != model.ResponseChoice {
				return nil, malformed(i, "expected a choice response, got %q", resp.Kind)
			}
			outcome, ok := rule.Outcome(resp.Code)
			if !ok {
				return nil, malformed(i, "choice code %d is not mapped", resp.Code)
			}
			processed[i] = outcome.Score
			if outcome.Archetype != model.NoArchetype {
				raw[outcome.Archetype] += outcome.Score
			}

		case custom && rule.Kind == model.RuleIpsative:
			if resp.Kind != model.ResponseForcedChoice {
				return nil, malformed(i, "expected a forced-choice response, got %q", resp.Kind)
			}
			if resp.Most == resp.Least {
				return nil, malformed(i, "most and least both select option %d", resp.Most)
			}
			mostName, mostOK := rule.Target(resp.Most)
			if mostOK {
				raw[mostName] += ipsativeMostCredit
			}
			if leastName, ok := rule.Target(resp.Least); ok && (!mostOK || leastName != mostName) {
				raw[leastName] += ipsativeLeastCredit
			}
			// ipsative items carry no Likert value; processed stays 0

		default:
			if resp.Kind != model.ResponseLikert {
				return nil, malformed(i, "expected a likert response, got %q", resp.Kind)
			}
			v := resp.Value
			if v < 1 || v > scaleMax {
				return nil, malformed(i, "likert value %d outside 1..%d", v, scaleMax)
			}
			if reverse[i] {
				v = scaleMax + 1 - v
			}
			processed[i] = float64(v)
			for _, name := range members[i] {
				raw[name] += float64(v)
			}
		}
		totalProcessed += processed[i]
	}

	// normalize once, pre-balancing, with the Definition's own bounds
	span := def.MaxRaw - def.MinRaw
	pct := make(map[string]float64, len(def.Archetypes))
	for name, r := range raw {
		pct[name] = clampPct(100 * (r - def.MinRaw) / span)
	}

	balancing := applyBalancing(def, processed, pct)

	ranked := rank(def, raw, pct)
	top := ranked
	if len(top) > 3 {
		top = top[:3]
	}

	dominant := ""
	if len(top) > 0 {
		dominant = top[0].Name
	}

	overall := overallPercentage(def, top, totalProcessed)

	return &model.Result{
		RawScores:         raw,
		Percentages:       pct,
		TopArchetypes:     top,
		Dominant:          dominant,
		OverallPercentage: overall,
		ResistanceLevel:   model.LevelFor(overall, def.LowThreshold, def.ModerateThreshold),
		BalancingScore:    balancing,
	}, nil
}

// applyBalancing computes the 0-100 validity composite and, when it falls
// outside the thresholds, shifts every archetype percentage in place.
// Returns nil when the Definition has no balancing indices.
func applyBalancing(def *model.Definition, processed []float64, pct map[string]float64) *float64 {
	b := def.Balancing
	if b == nil || len(b.Indices) == 0 {
		return nil
	}

	var sum float64
	for _, idx := range b.Indices {
		sum += processed[idx]
	}
	n := float64(len(b.Indices))
	score := 100 * (sum - n*b.Min) / (n * (b.Max - b.Min))

	var shift float64
	switch {
	case score > def.ModerateThreshold:
		shift = b.AdjustmentHigh
	case score < def.LowThreshold:
		shift = b.AdjustmentLow
	}
	if shift != 0 {
		for name := range pct {
			pct[name] = clampPct(pct[name] + shift)
		}
	}
	return &score
}

// rank orders archetypes by adjusted (unrounded) percentage descending.
// Ties keep declaration order: the slice is built in Definition order and
// the sort is stable.
func rank(def *model.Definition, raw, pct map[string]float64) []model.ArchetypeScore {
	type candidate struct {
		entry model.ArchetypeScore
		adj   float64
	}
	ranked := make([]candidate, 0, len(def.Archetypes))
	for _, a := range def.Archetypes {
		p := pct[a.Name]
		ranked = append(ranked, candidate{
			entry: model.ArchetypeScore{
				Name:       a.Name,
				RawScore:   raw[a.Name],
				Percentage: int(math.Round(p)),
				Level:      model.LevelFor(p, def.LowThreshold, def.ModerateThreshold),
			},
			adj: p,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].adj > ranked[j].adj
	})
	out := make([]model.ArchetypeScore, len(ranked))
	for i, c := range ranked {
		out[i] = c.entry
	}
	return out
}

// overallPercentage applies the Definition's aggregation policy
func overallPercentage(def *model.Definition, top []model.ArchetypeScore, totalProcessed float64) float64 {
	switch def.OverallCalculation {
	case model.OverallDominant:
		if len(top) == 0 {
			return 0
		}
		return float64(top[0].Percentage)
	case model.OverallAverageTop:
		if len(top) == 0 {
			return 0
		}
		var sum float64
		for _, e := range top {
			sum += float64(e.Percentage)
		}
		return math.Min(100, sum/float64(len(top)))
	case model.OverallTotalSum:
		return clampPct(100 * totalProcessed / def.OverallMax)
	}
	return 0
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func malformed(index int, format string, args ...interface{}) error {
	return fmt.Errorf("%w: question %d: %s", ErrMalformedResponse, index, fmt.Sprintf(format, args...))
}
