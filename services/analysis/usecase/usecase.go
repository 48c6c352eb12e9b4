package usecase

import (
	"context"
	"sync"

	"github.com/callsight/backend/services/analysis/classification"
	"github.com/callsight/backend/services/analysis/diarization"
	"github.com/callsight/backend/services/analysis/entity"
)

type Usecase interface {
	IdentifySpeakers(ctx context.Context, segments []entity.Segment) []entity.SpeakerRole
	AnalyzeTurnTaking(ctx context.Context, speakers []entity.SpeakerRole, segments []entity.Segment) (entity.TurnStatistics, error)
	ClassifyDialogue(ctx context.Context, transcript entity.Transcript) entity.Analysis
	Analyze(ctx context.Context, transcript entity.Transcript) (entity.Analysis, error)
}

type usecase struct {
	clusterer  *diarization.Clusterer
	classifier *classification.Classifier
}

func New(clusterer *diarization.Clusterer, classifier *classification.Classifier) Usecase {
	return &usecase{
		clusterer:  clusterer,
		classifier: classifier,
	}
}

func (u *usecase) IdentifySpeakers(ctx context.Context, segments []entity.Segment) []entity.SpeakerRole {
	return u.clusterer.IdentifySpeakers(segments)
}

func (u *usecase) AnalyzeTurnTaking(ctx context.Context, speakers []entity.SpeakerRole, segments []entity.Segment) (entity.TurnStatistics, error) {
	return diarization.AnalyzeTurnTaking(speakers, segments)
}

func (u *usecase) ClassifyDialogue(ctx context.Context, transcript entity.Transcript) entity.Analysis {
	return u.classifier.ClassifyDialogue(transcript)
}

// Analyze runs the full in-memory analysis for one conversation:
// speaker identification first, then turn aggregation and dialogue
// classification concurrently over the labeled segments, merged into a
// single record. An empty transcript is degenerate data, not an error:
// it produces a zero-filled summary and zero turn statistics.
func (u *usecase) Analyze(ctx context.Context, transcript entity.Transcript) (entity.Analysis, error) {
	speakers := u.clusterer.IdentifySpeakers(transcript.Segments)

	labeled := make([]entity.Segment, len(transcript.Segments))
	copy(labeled, transcript.Segments)
	for i := range labeled {
		if labeled[i].Speaker == "" {
			labeled[i].Speaker = speakers[i]
		}
	}
	transcript.Segments = labeled

	if len(labeled) == 0 {
		return u.classifier.ClassifyDialogue(transcript), nil
	}

	var (
		analysis entity.Analysis
		stats    entity.TurnStatistics
		turnErr  error
		wg       sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		analysis = u.classifier.ClassifyDialogue(transcript)
	}()
	go func() {
		defer wg.Done()
		stats, turnErr = diarization.AnalyzeTurnTaking(speakers, labeled)
	}()
	wg.Wait()

	if turnErr != nil {
		return entity.Analysis{}, turnErr
	}

	analysis.TurnTaking = stats
	return analysis, nil
}
