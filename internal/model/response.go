package model

// ResponseKind discriminates the answer encodings a battery can mix
type ResponseKind string

const (
	ResponseLikert       ResponseKind = "likert"
	ResponseChoice       ResponseKind = "choice"
	ResponseForcedChoice ResponseKind = "forced_choice"
)

// Response is one per-question answer, aligned by position with the
// Definition's question indices. The UI layer maps option text to the
// numeric codes here; the engine never sees question strings.
type Response struct {
	Kind  ResponseKind `json:"kind" bson:"kind"`
	Value int          `json:"value,omitempty" bson:"value,omitempty"` // likert: 1..scaleMax
	Code  int          `json:"code,omitempty" bson:"code,omitempty"`   // choice: 1-based option ordinal
	Most  int          `json:"most,omitempty" bson:"most,omitempty"`   // forced choice: 0-based ordinals
	Least int          `json:"least,omitempty" bson:"least,omitempty"`
}

// Likert builds a rating response
func Likert(value int) Response {
	return Response{Kind: ResponseLikert, Value: value}
}

// Choice builds a multiple-choice response
func Choice(code int) Response {
	return Response{Kind: ResponseChoice, Code: code}
}

// ForcedChoice builds an ipsative most/least response
func ForcedChoice(most, least int) Response {
	return Response{Kind: ResponseForcedChoice, Most: most, Least: least}
}
