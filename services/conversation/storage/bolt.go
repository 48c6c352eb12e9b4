package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	analysis "github.com/callsight/backend/services/analysis/entity"
	"github.com/callsight/backend/services/conversation/entity"
)

var bucketConversations = []byte("conversations")

type bolt struct {
	db *bbolt.DB
}

// NewBolt opens (creating if needed) an embedded bbolt database. Values
// are JSON-encoded conversation records keyed by id; bbolt's single
// writer serializes all record updates.
func NewBolt(path string) (Storage, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketConversations)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &bolt{db: db}, nil
}

func (s *bolt) Create(ctx context.Context, c *entity.Conversation) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return putConversation(tx, c)
	})
}

func (s *bolt) Get(ctx context.Context, id uuid.UUID) (*entity.Conversation, error) {
	var c entity.Conversation
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketConversations).Get([]byte(id.String()))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &c)
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *bolt) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Conversation, error) {
	return s.Search(ctx, ownerID, entity.Filters{})
}

func (s *bolt) Search(ctx context.Context, ownerID string, f entity.Filters) ([]*entity.Conversation, error) {
	var out []*entity.Conversation
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketConversations).ForEach(func(_, data []byte) error {
			var c entity.Conversation
			if err := json.Unmarshal(data, &c); err != nil {
				return fmt.Errorf("decode conversation: %w", err)
			}
			if c.OwnerID == ownerID && f.Match(&c) {
				out = append(out, &c)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sortConversations(out)
	return out, nil
}

func (s *bolt) SetTranscript(ctx context.Context, id uuid.UUID, t *analysis.Transcript) error {
	return s.update(id, func(c *entity.Conversation) {
		c.Transcript = t
	})
}

func (s *bolt) SetAnalysis(ctx context.Context, id uuid.UUID, a *analysis.Analysis) error {
	return s.update(id, func(c *entity.Conversation) {
		c.Analysis = a
	})
}

func (s *bolt) SetStatus(ctx context.Context, id uuid.UUID, status entity.Status, errMsg string) error {
	return s.update(id, func(c *entity.Conversation) {
		c.Status = status
		c.Error = errMsg
	})
}

func (s *bolt) Close() error {
	return s.db.Close()
}

func (s *bolt) update(id uuid.UUID, apply func(*entity.Conversation)) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketConversations).Get([]byte(id.String()))
		if data == nil {
			return ErrNotFound
		}
		var c entity.Conversation
		if err := json.Unmarshal(data, &c); err != nil {
			return fmt.Errorf("decode conversation: %w", err)
		}
		apply(&c)
		return putConversation(tx, &c)
	})
}

func putConversation(tx *bbolt.Tx, c *entity.Conversation) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode conversation: %w", err)
	}
	return tx.Bucket(bucketConversations).Put([]byte(c.ID.String()), data)
}
