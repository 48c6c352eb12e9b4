package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/callsight/backend/pkg/gen"
	analysis "github.com/callsight/backend/services/analysis/entity"
	"github.com/callsight/backend/services/conversation/entity"
	"github.com/callsight/backend/services/conversation/storage"
)

type Usecase interface {
	Create(ctx context.Context, ownerID, audioPath string) (*entity.Conversation, error)
	Get(ctx context.Context, id uuid.UUID) (*entity.Conversation, error)
	Search(ctx context.Context, ownerID string, f entity.Filters) ([]*entity.Conversation, error)
	Stats(ctx context.Context, ownerID string) (*entity.FleetStats, error)
	AttachTranscript(ctx context.Context, id uuid.UUID, t *analysis.Transcript) error
	AttachAnalysis(ctx context.Context, id uuid.UUID, a *analysis.Analysis) error
	SetStatus(ctx context.Context, id uuid.UUID, status entity.Status, errMsg string) error
}

type usecase struct {
	storage storage.Storage
	ids     gen.UUIDGenerator
	now     func() time.Time
}

func New(storage storage.Storage, ids gen.UUIDGenerator) Usecase {
	return &usecase{
		storage: storage,
		ids:     ids,
		now:     time.Now,
	}
}

func (u *usecase) Create(ctx context.Context, ownerID, audioPath string) (*entity.Conversation, error) {
	c := &entity.Conversation{
		ID:        u.ids.Next(),
		OwnerID:   ownerID,
		AudioPath: audioPath,
		Status:    entity.StatusProcessing,
		CreatedAt: u.now().UTC(),
	}
	if err := u.storage.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (u *usecase) Get(ctx context.Context, id uuid.UUID) (*entity.Conversation, error) {
	return u.storage.Get(ctx, id)
}

func (u *usecase) Search(ctx context.Context, ownerID string, f entity.Filters) ([]*entity.Conversation, error) {
	return u.storage.Search(ctx, ownerID, f)
}

// Stats folds every conversation the owner has into fleet-level
// analytics. Key sets are fixed and zero-filled regardless of what the
// owner's history contains.
func (u *usecase) Stats(ctx context.Context, ownerID string) (*entity.FleetStats, error) {
	conversations, err := u.storage.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	stats := entity.NewFleetStats()
	for _, c := range conversations {
		stats.Add(c)
	}
	return stats, nil
}

func (u *usecase) AttachTranscript(ctx context.Context, id uuid.UUID, t *analysis.Transcript) error {
	return u.storage.SetTranscript(ctx, id, t)
}

func (u *usecase) AttachAnalysis(ctx context.Context, id uuid.UUID, a *analysis.Analysis) error {
	return u.storage.SetAnalysis(ctx, id, a)
}

func (u *usecase) SetStatus(ctx context.Context, id uuid.UUID, status entity.Status, errMsg string) error {
	return u.storage.SetStatus(ctx, id, status, errMsg)
}
