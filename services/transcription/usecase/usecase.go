package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/callsight/backend/services/analysis/entity"
	"github.com/callsight/backend/services/transcription/client"
)

type Usecase interface {
	Transcribe(ctx context.Context, audioPath string) (*entity.Transcript, error)
}

type usecase struct {
	client client.Client
}

func New(client client.Client) Usecase {
	return &usecase{
		client: client,
	}
}

// Transcribe calls the ASR collaborator and normalizes the result:
// segments are kept in chronological order (stable sort, collaborators
// occasionally return them slightly shuffled) so downstream stages can
// rely on start being monotonically non-decreasing.
func (u *usecase) Transcribe(ctx context.Context, audioPath string) (*entity.Transcript, error) {
	if audioPath == "" {
		return nil, fmt.Errorf("transcribe: %w: empty audio path", entity.ErrInvalidInput)
	}

	transcript, err := u.client.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("transcribe %s: %w", audioPath, err)
	}

	sort.SliceStable(transcript.Segments, func(i, j int) bool {
		return transcript.Segments[i].Start < transcript.Segments[j].Start
	})

	return transcript, nil
}
