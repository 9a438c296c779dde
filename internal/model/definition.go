package model

import (
	"errors"
	"fmt"
	"time"
)

// ResistanceLevel is the qualitative band derived from a percentage
type ResistanceLevel string

const (
	LevelLow      ResistanceLevel = "low"
	LevelModerate ResistanceLevel = "moderate"
	LevelHigh     ResistanceLevel = "high"
)

// LevelFor bands a percentage against the given cut points. Boundary values
// fall into the lower band: pct == low is "low", pct == moderate is "moderate".
func LevelFor(pct, low, moderate float64) ResistanceLevel {
	switch {
	case pct <= low:
		return LevelLow
	case pct <= moderate:
		return LevelModerate
	default:
		return LevelHigh
	}
}

// OverallCalculation selects how the overall percentage is derived
type OverallCalculation string

const (
	OverallDominant   OverallCalculation = "dominant"     // top archetype's percentage
	OverallAverageTop OverallCalculation = "average-top3" // mean of the top (≤3) percentages
	OverallTotalSum   OverallCalculation = "total-sum"    // total processed sum vs. OverallMax
)

// RuleKind discriminates custom per-question scoring rules
type RuleKind string

const (
	RuleMultipleChoice RuleKind = "multiple_choice" // scenario item, one option picked
	RuleIpsative       RuleKind = "ipsative"        // forced choice, most/least pair
)

// NoArchetype marks a multiple-choice option that scores but credits nobody
const NoArchetype = "none"

// ChoiceMapping maps one multiple-choice option code to its outcome
type ChoiceMapping struct {
	Code      int     `json:"code" bson:"code" yaml:"code"`
	Archetype string  `json:"archetype" bson:"archetype" yaml:"archetype"` // archetype name or "none"
	Score     float64 `json:"score" bson:"score" yaml:"score"`
}

// IpsativeMapping maps one forced-choice option ordinal to an archetype
type IpsativeMapping struct {
	Code      int    `json:"code" bson:"code" yaml:"code"`
	Archetype string `json:"archetype" bson:"archetype" yaml:"archetype"`
}

// QuestionRule overrides default Likert scoring for a single question index.
// Exactly one of Choices/Options is populated, matching Kind.
type QuestionRule struct {
	Index   int               `json:"index" bson:"index" yaml:"index"`
	Kind    RuleKind          `json:"kind" bson:"kind" yaml:"kind"`
	Choices []ChoiceMapping   `json:"choices,omitempty" bson:"choices,omitempty" yaml:"choices,omitempty"`
	Options []IpsativeMapping `json:"options,omitempty" bson:"options,omitempty" yaml:"options,omitempty"`
}

// Outcome looks up a multiple-choice option code
func (r *QuestionRule) Outcome(code int) (ChoiceMapping, bool) {
	for _, c := range r.Choices {
		if c.Code == code {
			return c, true
		}
	}
	return ChoiceMapping{}, false
}

// Target looks up the archetype an ipsative option ordinal points at
func (r *QuestionRule) Target(code int) (string, bool) {
	for _, o := range r.Options {
		if o.Code == code {
			return o.Archetype, true
		}
	}
	return "", false
}

// Archetype declares which Likert questions feed one archetype's raw score.
// Slice position in Definition.Archetypes is the ranking tie-break order.
type Archetype struct {
	Name            string `json:"name" bson:"name" yaml:"name"`
	QuestionIndices []int  `json:"questionIndices" bson:"questionIndices" yaml:"questionIndices"`
}

// BalancingConfig drives the social-desirability correction pass
type BalancingConfig struct {
	Indices        []int   `json:"indices" bson:"indices" yaml:"indices"`
	Min            float64 `json:"min" bson:"min" yaml:"min"`                               // default 1
	Max            float64 `json:"max" bson:"max" yaml:"max"`                               // default 5
	AdjustmentHigh float64 `json:"adjustmentHigh" bson:"adjustmentHigh" yaml:"adjustmentHigh"` // default -3
	AdjustmentLow  float64 `json:"adjustmentLow" bson:"adjustmentLow" yaml:"adjustmentLow"`    // default +2
}

// Definition is the immutable per-category assessment configuration.
// It is loaded once (mongo or seed YAML), validated, and never mutated by
// the scoring engine.
type Definition struct {
	ID                 string             `json:"id,omitempty" bson:"_id,omitempty" yaml:"-"`
	Category           string             `json:"category" bson:"category" yaml:"category"`
	Title              string             `json:"title" bson:"title" yaml:"title"`
	QuestionCount      int                `json:"questionCount" bson:"questionCount" yaml:"questionCount"`
	ScaleMax           int                `json:"scaleMax,omitempty" bson:"scaleMax,omitempty" yaml:"scaleMax,omitempty"` // Likert scale top, default 5
	Archetypes         []Archetype        `json:"archetypes" bson:"archetypes" yaml:"archetypes"`
	ReverseScored      []int              `json:"reverseScored,omitempty" bson:"reverseScored,omitempty" yaml:"reverseScored,omitempty"`
	CustomRules        []QuestionRule     `json:"customRules,omitempty" bson:"customRules,omitempty" yaml:"customRules,omitempty"`
	MinRaw             float64            `json:"minRaw" bson:"minRaw" yaml:"minRaw"`
	MaxRaw             float64            `json:"maxRaw" bson:"maxRaw" yaml:"maxRaw"`
	LowThreshold       float64            `json:"lowThreshold" bson:"lowThreshold" yaml:"lowThreshold"`
	ModerateThreshold  float64            `json:"moderateThreshold" bson:"moderateThreshold" yaml:"moderateThreshold"`
	Balancing          *BalancingConfig   `json:"balancing,omitempty" bson:"balancing,omitempty" yaml:"balancing,omitempty"`
	OverallCalculation OverallCalculation `json:"overallCalculation" bson:"overallCalculation" yaml:"overallCalculation"`
	OverallMax         float64            `json:"overallMax,omitempty" bson:"overallMax,omitempty" yaml:"overallMax,omitempty"` // total-sum only
	CreatedAt          time.Time          `json:"createdAt,omitempty" bson:"createdAt,omitempty" yaml:"-"`
	UpdatedAt          time.Time          `json:"updatedAt,omitempty" bson:"updatedAt,omitempty" yaml:"-"`
}

// Scale returns the Likert scale top, defaulting to 5
func (d *Definition) Scale() int {
	if d.ScaleMax <= 0 {
		return 5
	}
	return d.ScaleMax
}

// Normalize fills defaulted fields in place. Called once at load time.
func (d *Definition) Normalize() {
	if d.ScaleMax <= 0 {
		d.ScaleMax = 5
	}
	if d.Balancing != nil {
		b := d.Balancing
		if b.Min == 0 && b.Max == 0 {
			b.Min, b.Max = 1, 5
		}
		if b.AdjustmentHigh == 0 {
			b.AdjustmentHigh = -3
		}
		if b.AdjustmentLow == 0 {
			b.AdjustmentLow = 2
		}
	}
}

// ErrInvalidDefinition is returned by Validate for any invariant violation
var ErrInvalidDefinition = errors.New("invalid assessment definition")

// Validate checks the Definition invariants once at load time so the scoring
// hot path only needs bounds checks. Returns an error wrapping
// ErrInvalidDefinition describing the first violation found.
func (d *Definition) Validate() error {
	fail := func(format string, args ...interface{}) error {
		return fmt.Errorf("%w: %s", ErrInvalidDefinition, fmt.Sprintf(format, args...))
	}

	if d.Category == "" {
		return fail("category is required")
	}
	if d.QuestionCount <= 0 {
		return fail("questionCount must be positive, got %d", d.QuestionCount)
	}
	if d.Scale() < 2 {
		return fail("scaleMax must be at least 2, got %d", d.ScaleMax)
	}
	if len(d.Archetypes) == 0 {
		return fail("at least one archetype is required")
	}

	names := make(map[string]bool, len(d.Archetypes))
	likert := make(map[int]bool)
	for _, a := range d.Archetypes {
		if a.Name == "" || a.Name == NoArchetype {
			return fail("archetype name %q is reserved or empty", a.Name)
		}
		if names[a.Name] {
			return fail("duplicate archetype %q", a.Name)
		}
		names[a.Name] = true
		for _, idx := range a.QuestionIndices {
			if idx < 0 || idx >= d.QuestionCount {
				return fail("archetype %q references question %d outside 0..%d", a.Name, idx, d.QuestionCount-1)
			}
			likert[idx] = true
		}
	}

	for _, idx := range d.ReverseScored {
		if idx < 0 || idx >= d.QuestionCount {
			return fail("reverse-scored index %d outside 0..%d", idx, d.QuestionCount-1)
		}
	}

	ruleIdx := make(map[int]bool, len(d.CustomRules))
	for _, r := range d.CustomRules {
		if r.Index < 0 || r.Index >= d.QuestionCount {
			return fail("custom rule index %d outside 0..%d", r.Index, d.QuestionCount-1)
		}
		if ruleIdx[r.Index] {
			return fail("duplicate custom rule for question %d", r.Index)
		}
		ruleIdx[r.Index] = true
		if likert[r.Index] {
			return fail("question %d has a custom rule but also feeds an archetype's Likert set", r.Index)
		}
		switch r.Kind {
		case RuleMultipleChoice:
			if len(r.Choices) == 0 {
				return fail("multiple-choice rule for question %d has no choices", r.Index)
			}
			codes := make(map[int]bool, len(r.Choices))
			for _, c := range r.Choices {
				if codes[c.Code] {
					return fail("question %d: duplicate choice code %d", r.Index, c.Code)
				}
				codes[c.Code] = true
				if c.Archetype != NoArchetype && !names[c.Archetype] {
					return fail("question %d: choice %d targets undeclared archetype %q", r.Index, c.Code, c.Archetype)
				}
			}
		case RuleIpsative:
			if len(r.Options) == 0 {
				return fail("ipsative rule for question %d has no options", r.Index)
			}
			codes := make(map[int]bool, len(r.Options))
			for _, o := range r.Options {
				if codes[o.Code] {
					return fail("question %d: duplicate ipsative code %d", r.Index, o.Code)
				}
				codes[o.Code] = true
				if !names[o.Archetype] {
					return fail("question %d: ipsative option %d targets undeclared archetype %q", r.Index, o.Code, o.Archetype)
				}
			}
		default:
			return fail("question %d: unknown rule kind %q", r.Index, r.Kind)
		}
	}

	if d.MinRaw >= d.MaxRaw {
		return fail("minRaw (%v) must be below maxRaw (%v)", d.MinRaw, d.MaxRaw)
	}
	if d.LowThreshold >= d.ModerateThreshold {
		return fail("lowThreshold (%v) must be below moderateThreshold (%v)", d.LowThreshold, d.ModerateThreshold)
	}

	if d.Balancing != nil {
		b := d.Balancing
		for _, idx := range b.Indices {
			if idx < 0 || idx >= d.QuestionCount {
				return fail("balancing index %d outside 0..%d", idx, d.QuestionCount-1)
			}
		}
		if len(b.Indices) > 0 && b.Min >= b.Max {
			return fail("balancing min (%v) must be below max (%v)", b.Min, b.Max)
		}
	}

	switch d.OverallCalculation {
	case OverallDominant, OverallAverageTop:
	case OverallTotalSum:
		if d.OverallMax <= 0 {
			return fail("total-sum aggregation requires a positive overallMax")
		}
	default:
		return fail("unknown overall calculation %q", d.OverallCalculation)
	}

	return nil
}
