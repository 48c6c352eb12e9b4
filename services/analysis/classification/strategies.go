package classification

import (
	"strings"

	"github.com/callsight/backend/services/analysis/entity"
)

// PhaseClassifier assigns a conversation phase to a span of text. It
// must be total: every input gets a label from the closed phase set,
// with no side effects.
type PhaseClassifier interface {
	Classify(text string) entity.Phase
}

// SentimentClassifier assigns a sentiment label to a span of text under
// the same totality contract.
type SentimentClassifier interface {
	Classify(text string) entity.Sentiment
}

var phaseKeywords = map[entity.Phase][]string{
	entity.PhaseIntroduction: {
		"my name is", "calling from", "nice to meet", "how are you", "this is",
	},
	entity.PhaseDiscovery: {
		"tell me about", "how do you", "what do you", "currently", "challenge", "workflow",
	},
	entity.PhasePitch: {
		"our product", "we offer", "feature", "solution", "helps you", "plan includes",
	},
	entity.PhaseObjectionHandling: {
		"too expensive", "i understand", "concern", "however", "compared to", "that said",
	},
	entity.PhaseClosing: {
		"next steps", "contract", "sign", "follow up", "send over", "get started",
	},
}

// KeywordPhases scores each phase by keyword hits and takes the highest;
// phases are tried in their fixed order so ties are deterministic. No
// hits falls back to discovery, the most common mid-call phase.
type KeywordPhases struct{}

func (KeywordPhases) Classify(text string) entity.Phase {
	lower := strings.ToLower(text)

	best := entity.PhaseDiscovery
	bestScore := 0
	for _, phase := range entity.Phases() {
		score := 0
		for _, kw := range phaseKeywords[phase] {
			score += strings.Count(lower, kw)
		}
		if score > bestScore {
			best, bestScore = phase, score
		}
	}
	return best
}

var (
	positiveWords = []string{
		"great", "perfect", "love", "excellent", "definitely", "absolutely", "sounds good", "interested",
	}
	negativeWords = []string{
		"no", "not", "expensive", "problem", "unfortunately", "worried", "can't", "won't",
	}
)

// LexiconSentiment counts positive and negative markers; the larger
// count wins, equal counts are neutral.
type LexiconSentiment struct{}

func (LexiconSentiment) Classify(text string) entity.Sentiment {
	words := strings.Fields(strings.ToLower(text))
	joined := strings.Join(words, " ")

	pos, neg := 0, 0
	for _, w := range positiveWords {
		pos += strings.Count(joined, w)
	}
	for _, w := range negativeWords {
		for _, token := range words {
			if strings.Trim(token, ".,!?") == w {
				neg++
			}
		}
	}

	switch {
	case pos > neg:
		return entity.SentimentPositive
	case neg > pos:
		return entity.SentimentNegative
	default:
		return entity.SentimentNeutral
	}
}

// StaticPhase always returns the same phase. Test double.
type StaticPhase entity.Phase

func (p StaticPhase) Classify(string) entity.Phase { return entity.Phase(p) }

// StaticSentiment always returns the same sentiment. Test double.
type StaticSentiment entity.Sentiment

func (s StaticSentiment) Classify(string) entity.Sentiment { return entity.Sentiment(s) }
