package diarization

import (
	"strings"
	"unicode"

	"github.com/callsight/backend/services/analysis/consts"
	"github.com/callsight/backend/services/analysis/entity"
)

// FeatureExtractor derives a fixed-size numeric vector from a transcript
// segment. Implementations must be deterministic and side-effect-free so
// that clustering the same transcript twice yields the same partition.
type FeatureExtractor interface {
	Extract(seg entity.Segment) []float64
}

var fillerWords = map[string]struct{}{
	"um":   {},
	"uh":   {},
	"like": {},
	"so":   {},
	"well": {},
	"yeah": {},
}

// TimingFeatures is the default extractor. It only sees text and timing,
// so it is a stand-in for a real acoustic front end; swap in an
// embedding-based extractor without touching the clustering.
type TimingFeatures struct{}

func (TimingFeatures) Extract(seg entity.Segment) []float64 {
	words := strings.Fields(seg.Text)

	meanWordLen := 0.0
	fillers := 0
	for _, w := range words {
		meanWordLen += float64(len(w))
		if _, ok := fillerWords[strings.ToLower(strings.Trim(w, ".,!?"))]; ok {
			fillers++
		}
	}
	if len(words) > 0 {
		meanWordLen /= float64(len(words))
	}

	digits := 0
	for _, r := range seg.Text {
		if unicode.IsDigit(r) {
			digits++
		}
	}

	vec := make([]float64, 0, consts.FeatureDim)
	vec = append(vec,
		seg.Duration(),
		float64(len(words)),
		meanWordLen,
		float64(len(seg.Text)),
		float64(strings.Count(seg.Text, "?")),
		float64(strings.Count(seg.Text, "!")),
		float64(digits),
		float64(fillers),
	)
	return vec
}

// StaticFeatures maps segment text to a fixed vector. Test double; texts
// without an entry get a zero vector.
type StaticFeatures map[string][]float64

func (f StaticFeatures) Extract(seg entity.Segment) []float64 {
	if v, ok := f[seg.Text]; ok {
		return v
	}
	return make([]float64, consts.FeatureDim)
}
