// Package classification labels transcript segments with sales-process
// phases and sentiment, and rolls them up into a conversation summary.
package classification

import (
	"github.com/callsight/backend/services/analysis/entity"
)

type Classifier struct {
	phases     PhaseClassifier
	sentiments SentimentClassifier
}

func New(phases PhaseClassifier, sentiments SentimentClassifier) *Classifier {
	if phases == nil {
		phases = KeywordPhases{}
	}
	if sentiments == nil {
		sentiments = LexiconSentiment{}
	}
	return &Classifier{phases: phases, sentiments: sentiments}
}

// ClassifyDialogue labels every segment and builds the conversation
// summary. The input transcript is not mutated; the returned segments
// are enriched copies in the original order. Labels already present on
// a segment are kept.
func (c *Classifier) ClassifyDialogue(transcript entity.Transcript) entity.Analysis {
	segments := make([]entity.Segment, len(transcript.Segments))
	copy(segments, transcript.Segments)

	for i := range segments {
		if segments[i].Phase == "" {
			segments[i].Phase = c.phases.Classify(segments[i].Text)
		}
		if segments[i].Sentiment == "" {
			segments[i].Sentiment = c.sentiments.Classify(segments[i].Text)
		}
	}

	return entity.Analysis{
		Segments: segments,
		Summary:  summarize(segments),
	}
}

// summarize computes the phase-duration distribution, sentiment counts
// and total duration. Both maps always carry the full closed key sets,
// zero-filled. Duration is the last segment's end, not the sum of
// per-segment durations.
func summarize(segments []entity.Segment) entity.ConversationSummary {
	distribution := make(map[entity.Phase]float64, len(entity.Phases()))
	for _, p := range entity.Phases() {
		distribution[p] = 0
	}
	counts := make(map[entity.Sentiment]int, len(entity.Sentiments()))
	for _, s := range entity.Sentiments() {
		counts[s] = 0
	}

	for _, seg := range segments {
		distribution[seg.Phase] += seg.Duration()
		counts[seg.Sentiment]++
	}

	duration := 0.0
	if n := len(segments); n > 0 {
		duration = segments[n-1].End
	}

	return entity.ConversationSummary{
		PhaseDistribution: distribution,
		SentimentSummary:  counts,
		Duration:          duration,
	}
}
