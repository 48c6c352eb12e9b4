package classification

import (
	"math"
	"reflect"
	"testing"

	"github.com/callsight/backend/services/analysis/entity"
)

func testTranscript() entity.Transcript {
	return entity.Transcript{
		Text: "some call",
		Segments: []entity.Segment{
			{Start: 0, End: 4, Text: "one"},
			{Start: 4, End: 10, Text: "two"},
			{Start: 10, End: 10.5, Text: "three"},
		},
	}
}

func TestClassifyDialogueFixedKeySets(t *testing.T) {
	c := New(StaticPhase(entity.PhasePitch), StaticSentiment(entity.SentimentPositive))
	analysis := c.ClassifyDialogue(testTranscript())

	if len(analysis.Summary.PhaseDistribution) != len(entity.Phases()) {
		t.Errorf("expected %d phase keys, got %d", len(entity.Phases()), len(analysis.Summary.PhaseDistribution))
	}
	if len(analysis.Summary.SentimentSummary) != len(entity.Sentiments()) {
		t.Errorf("expected %d sentiment keys, got %d", len(entity.Sentiments()), len(analysis.Summary.SentimentSummary))
	}

	if got := analysis.Summary.PhaseDistribution[entity.PhasePitch]; math.Abs(got-10.5) > 1e-9 {
		t.Errorf("expected pitch duration 10.5, got %f", got)
	}
	for _, p := range entity.Phases() {
		if p != entity.PhasePitch && analysis.Summary.PhaseDistribution[p] != 0 {
			t.Errorf("phase %s: expected 0, got %f", p, analysis.Summary.PhaseDistribution[p])
		}
	}
	if analysis.Summary.SentimentSummary[entity.SentimentPositive] != 3 {
		t.Errorf("expected 3 positive segments, got %d", analysis.Summary.SentimentSummary[entity.SentimentPositive])
	}
}

func TestClassifyDialogueConservation(t *testing.T) {
	c := New(nil, nil)
	transcript := entity.Transcript{
		Segments: []entity.Segment{
			{Start: 0, End: 3, Text: "Hi, my name is Dana calling from Callsight."},
			{Start: 3, End: 8, Text: "Tell me about your current setup?"},
			{Start: 8, End: 15, Text: "Our product helps you automate reporting."},
			{Start: 15, End: 16, Text: "That sounds too expensive for us."},
		},
	}

	analysis := c.ClassifyDialogue(transcript)

	segTotal := 0.0
	for _, s := range transcript.Segments {
		segTotal += s.Duration()
	}
	distTotal := 0.0
	for _, d := range analysis.Summary.PhaseDistribution {
		distTotal += d
	}
	if math.Abs(distTotal-segTotal) > 1e-9 {
		t.Errorf("phase distribution sums to %f, segments to %f", distTotal, segTotal)
	}

	countTotal := 0
	for _, n := range analysis.Summary.SentimentSummary {
		countTotal += n
	}
	if countTotal != len(transcript.Segments) {
		t.Errorf("sentiment counts sum to %d, expected %d", countTotal, len(transcript.Segments))
	}
}

func TestClassifyDialogueDurationIsLastEnd(t *testing.T) {
	c := New(StaticPhase(entity.PhaseDiscovery), StaticSentiment(entity.SentimentNeutral))

	// Gap between segments: duration reflects the transcript's end, not
	// the summed speech time.
	analysis := c.ClassifyDialogue(entity.Transcript{
		Segments: []entity.Segment{
			{Start: 0, End: 5, Text: "a"},
			{Start: 7, End: 9, Text: "b"},
		},
	})
	if analysis.Summary.Duration != 9 {
		t.Errorf("expected duration 9, got %f", analysis.Summary.Duration)
	}

	empty := c.ClassifyDialogue(entity.Transcript{})
	if empty.Summary.Duration != 0 {
		t.Errorf("expected duration 0 for empty transcript, got %f", empty.Summary.Duration)
	}
	if len(empty.Summary.PhaseDistribution) != len(entity.Phases()) {
		t.Errorf("empty transcript should still carry the full phase key set")
	}
}

func TestClassifyDialogueIdempotent(t *testing.T) {
	c := New(nil, nil)
	transcript := testTranscript()

	first := c.ClassifyDialogue(transcript)
	second := c.ClassifyDialogue(transcript)

	if !reflect.DeepEqual(first.Summary, second.Summary) {
		t.Errorf("summary changed between runs: %+v vs %+v", first.Summary, second.Summary)
	}
}

func TestClassifyDialogueDoesNotMutateInput(t *testing.T) {
	c := New(StaticPhase(entity.PhasePitch), StaticSentiment(entity.SentimentNegative))
	transcript := testTranscript()

	analysis := c.ClassifyDialogue(transcript)

	for i, s := range transcript.Segments {
		if s.Phase != "" || s.Sentiment != "" {
			t.Errorf("input segment %d was mutated: %+v", i, s)
		}
	}
	for i, s := range analysis.Segments {
		if s.Phase == "" || s.Sentiment == "" {
			t.Errorf("output segment %d not enriched: %+v", i, s)
		}
	}
}

func TestClassifyDialogueKeepsExistingLabels(t *testing.T) {
	c := New(StaticPhase(entity.PhaseDiscovery), StaticSentiment(entity.SentimentNeutral))
	transcript := entity.Transcript{
		Segments: []entity.Segment{
			{Start: 0, End: 2, Text: "x", Phase: entity.PhaseClosing, Sentiment: entity.SentimentPositive},
		},
	}

	analysis := c.ClassifyDialogue(transcript)
	if analysis.Segments[0].Phase != entity.PhaseClosing {
		t.Errorf("existing phase overwritten: got %s", analysis.Segments[0].Phase)
	}
	if analysis.Segments[0].Sentiment != entity.SentimentPositive {
		t.Errorf("existing sentiment overwritten: got %s", analysis.Segments[0].Sentiment)
	}
}

func TestKeywordPhases(t *testing.T) {
	cases := []struct {
		text string
		want entity.Phase
	}{
		{"Hi, my name is Dana calling from Callsight.", entity.PhaseIntroduction},
		{"Tell me about your current reporting workflow.", entity.PhaseDiscovery},
		{"Our product helps you automate all of that.", entity.PhasePitch},
		{"I understand the concern about pricing.", entity.PhaseObjectionHandling},
		{"Let's talk next steps and get the contract signed.", entity.PhaseClosing},
		{"Mhm.", entity.PhaseDiscovery}, // fallback
	}

	var c KeywordPhases
	for _, tc := range cases {
		if got := c.Classify(tc.text); got != tc.want {
			t.Errorf("%q: expected %s, got %s", tc.text, tc.want, got)
		}
	}
}

func TestLexiconSentiment(t *testing.T) {
	cases := []struct {
		text string
		want entity.Sentiment
	}{
		{"That sounds great, absolutely perfect.", entity.SentimentPositive},
		{"No, that is a problem, too expensive.", entity.SentimentNegative},
		{"We meet on Tuesdays.", entity.SentimentNeutral},
		{"", entity.SentimentNeutral},
	}

	var c LexiconSentiment
	for _, tc := range cases {
		if got := c.Classify(tc.text); got != tc.want {
			t.Errorf("%q: expected %s, got %s", tc.text, tc.want, got)
		}
	}
}
