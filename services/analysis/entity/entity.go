package entity

import "errors"

// ErrInvalidInput marks caller mistakes (mismatched slice lengths, empty
// sequences where a non-empty one is required). Check with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

type SpeakerRole string

const (
	SpeakerSalesperson SpeakerRole = "Salesperson"
	SpeakerCustomer    SpeakerRole = "Customer"
	SpeakerUnknown     SpeakerRole = "Unknown"
)

type Phase string

const (
	PhaseIntroduction      Phase = "introduction"
	PhaseDiscovery         Phase = "discovery"
	PhasePitch             Phase = "pitch"
	PhaseObjectionHandling Phase = "objection_handling"
	PhaseClosing           Phase = "closing"
)

// Phases returns the closed set of conversation phases in a fixed order.
func Phases() []Phase {
	return []Phase{
		PhaseIntroduction,
		PhaseDiscovery,
		PhasePitch,
		PhaseObjectionHandling,
		PhaseClosing,
	}
}

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Sentiments returns the closed set of sentiment labels in a fixed order.
func Sentiments() []Sentiment {
	return []Sentiment{
		SentimentPositive,
		SentimentNeutral,
		SentimentNegative,
	}
}

type Word struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Segment is one time-bounded span of transcribed speech. Start/End/Text
// come from the ASR collaborator and are immutable afterwards; Speaker,
// Phase and Sentiment are filled in by later pipeline stages and are
// never overwritten once set within a run.
type Segment struct {
	Start     float64     `json:"start"`
	End       float64     `json:"end"`
	Text      string      `json:"text"`
	Speaker   SpeakerRole `json:"speaker,omitempty"`
	Phase     Phase       `json:"phase,omitempty"`
	Sentiment Sentiment   `json:"sentiment,omitempty"`
	Words     []Word      `json:"words,omitempty"`
}

func (s Segment) Duration() float64 {
	return s.End - s.Start
}

type Transcript struct {
	Text     string    `json:"text"`
	Language string    `json:"language"`
	Segments []Segment `json:"segments"`
}

// Turn is a maximal run of consecutive segments attributed to the same
// speaker. Derived from segments on demand, never persisted.
type Turn struct {
	Speaker  SpeakerRole `json:"speaker"`
	Duration float64     `json:"duration"`
}

type RoleStats struct {
	TotalTurns    int     `json:"total_turns"`
	AvgDuration   float64 `json:"avg_duration"`
	TotalDuration float64 `json:"total_duration"`
}

type TurnStatistics struct {
	TotalTurns       int       `json:"total_turns"`
	SalespersonStats RoleStats `json:"salesperson_stats"`
	CustomerStats    RoleStats `json:"customer_stats"`
}

// ConversationSummary aggregates one conversation's classification.
// PhaseDistribution and SentimentSummary always carry the full closed
// key sets, zero-filled. Duration is the end of the last segment, which
// tolerates gaps and overlaps in the source transcript.
type ConversationSummary struct {
	PhaseDistribution map[Phase]float64 `json:"phase_distribution"`
	SentimentSummary  map[Sentiment]int `json:"sentiment_summary"`
	Duration          float64           `json:"duration"`
}

// Analysis is the merged per-conversation analysis record: classified
// segments, the classification summary and the turn-taking statistics.
type Analysis struct {
	Segments   []Segment           `json:"segments"`
	Summary    ConversationSummary `json:"summary"`
	TurnTaking TurnStatistics      `json:"turn_taking"`
}
