package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	analysis "github.com/callsight/backend/services/analysis/entity"
	"github.com/callsight/backend/services/conversation/entity"
)

type memory struct {
	mu            sync.RWMutex
	conversations map[uuid.UUID]*entity.Conversation
}

func NewMemory() Storage {
	return &memory{
		conversations: make(map[uuid.UUID]*entity.Conversation),
	}
}

func (s *memory) Create(ctx context.Context, c *entity.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *c
	s.conversations[c.ID] = &stored
	return nil
}

func (s *memory) Get(ctx context.Context, id uuid.UUID) (*entity.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.conversations[id]
	if !ok {
		return nil, ErrNotFound
	}
	snapshot := *c
	return &snapshot, nil
}

func (s *memory) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Conversation, error) {
	return s.Search(ctx, ownerID, entity.Filters{})
}

func (s *memory) Search(ctx context.Context, ownerID string, f entity.Filters) ([]*entity.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*entity.Conversation
	for _, c := range s.conversations {
		if c.OwnerID != ownerID || !f.Match(c) {
			continue
		}
		snapshot := *c
		out = append(out, &snapshot)
	}
	sortConversations(out)
	return out, nil
}

func (s *memory) SetTranscript(ctx context.Context, id uuid.UUID, t *analysis.Transcript) error {
	return s.update(id, func(c *entity.Conversation) {
		c.Transcript = t
	})
}

func (s *memory) SetAnalysis(ctx context.Context, id uuid.UUID, a *analysis.Analysis) error {
	return s.update(id, func(c *entity.Conversation) {
		c.Analysis = a
	})
}

func (s *memory) SetStatus(ctx context.Context, id uuid.UUID, status entity.Status, errMsg string) error {
	return s.update(id, func(c *entity.Conversation) {
		c.Status = status
		c.Error = errMsg
	})
}

func (s *memory) Close() error {
	return nil
}

func (s *memory) update(id uuid.UUID, apply func(*entity.Conversation)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.conversations[id]
	if !ok {
		return ErrNotFound
	}
	apply(c)
	return nil
}

// sortConversations orders results by creation time, id as tie-break,
// so identical backing data always lists identically.
func sortConversations(list []*entity.Conversation) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID.String() < list[j].ID.String()
	})
}
