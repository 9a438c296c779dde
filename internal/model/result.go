package model

import "time"

// ArchetypeScore is one ranked entry in Result.TopArchetypes
type ArchetypeScore struct {
	Name       string          `json:"name" bson:"name"`
	RawScore   float64         `json:"rawScore" bson:"rawScore"`     // unnormalized, for display
	Percentage int             `json:"percentage" bson:"percentage"` // adjusted, rounded
	Level      ResistanceLevel `json:"level" bson:"level"`
}

// Result is the full output of one scoring call. Produced fresh per call,
// owned by the caller; persistence identity is added by AssessmentResult.
type Result struct {
	RawScores         map[string]float64 `json:"rawScores" bson:"rawScores"`
	Percentages       map[string]float64 `json:"percentages" bson:"percentages"` // post-balancing
	TopArchetypes     []ArchetypeScore   `json:"topArchetypes" bson:"topArchetypes"`
	Dominant          string             `json:"dominantArchetype" bson:"dominantArchetype"`
	OverallPercentage float64            `json:"overallPercentage" bson:"overallPercentage"`
	ResistanceLevel   ResistanceLevel    `json:"resistanceLevel" bson:"resistanceLevel"`
	BalancingScore    *float64           `json:"balancingScore,omitempty" bson:"balancingScore,omitempty"`
}

// AssessmentResult is a persisted scoring outcome keyed by respondent and
// category
type AssessmentResult struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	RespondentID string    `json:"respondentId" bson:"respondentId"`
	Category     string    `json:"category" bson:"category"`
	Result       Result    `json:"result" bson:"result"`
	FreeTier     bool      `json:"freeTier,omitempty" bson:"freeTier,omitempty"`
	TakenAt      time.Time `json:"takenAt" bson:"takenAt"`
}
