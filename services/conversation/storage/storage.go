// Package storage persists conversation records. Three backends share
// one interface: an in-memory map for tests and development, an
// embedded bbolt database as the single-node default, and Postgres for
// deployments with a real database.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	analysis "github.com/callsight/backend/services/analysis/entity"
	"github.com/callsight/backend/services/conversation/entity"
)

var ErrNotFound = errors.New("conversation not found")

type Storage interface {
	Create(ctx context.Context, c *entity.Conversation) error
	Get(ctx context.Context, id uuid.UUID) (*entity.Conversation, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Conversation, error)
	Search(ctx context.Context, ownerID string, f entity.Filters) ([]*entity.Conversation, error)
	SetTranscript(ctx context.Context, id uuid.UUID, t *analysis.Transcript) error
	SetAnalysis(ctx context.Context, id uuid.UUID, a *analysis.Analysis) error
	SetStatus(ctx context.Context, id uuid.UUID, status entity.Status, errMsg string) error
	Close() error
}
