package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	analysis "github.com/callsight/backend/services/analysis/entity"
	"github.com/callsight/backend/services/conversation/entity"
)

func newBoltStore(t *testing.T) Storage {
	t.Helper()
	s, err := NewBolt(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBoltRoundTrip(t *testing.T) {
	s := newBoltStore(t)
	ctx := context.Background()

	c := newConversation("owner-1", time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC))
	c.Transcript = &analysis.Transcript{
		Text:     "hello there",
		Language: "en",
		Segments: []analysis.Segment{{Start: 0, End: 2, Text: "hello there"}},
	}
	if err := s.Create(ctx, c); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != c.ID || got.OwnerID != c.OwnerID {
		t.Errorf("identity lost in round trip: %+v", got)
	}
	if got.Transcript == nil || got.Transcript.Language != "en" || len(got.Transcript.Segments) != 1 {
		t.Errorf("transcript lost in round trip: %+v", got.Transcript)
	}
	if !got.CreatedAt.Equal(c.CreatedAt) {
		t.Errorf("created_at changed: %v vs %v", got.CreatedAt, c.CreatedAt)
	}

	if _, err := s.Get(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBoltUpdatesAndSearch(t *testing.T) {
	s := newBoltStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	c1 := newConversation("owner-1", base)
	c2 := newConversation("owner-1", base.Add(time.Hour))
	for _, c := range []*entity.Conversation{c1, c2} {
		if err := s.Create(ctx, c); err != nil {
			t.Fatal(err)
		}
	}

	summary := analysis.ConversationSummary{
		PhaseDistribution: map[analysis.Phase]float64{analysis.PhasePitch: 12},
		SentimentSummary:  map[analysis.Sentiment]int{analysis.SentimentPositive: 1},
		Duration:          12,
	}
	if err := s.SetAnalysis(ctx, c2.ID, &analysis.Analysis{Summary: summary}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetStatus(ctx, c2.ID, entity.StatusCompleted, ""); err != nil {
		t.Fatal(err)
	}

	got, err := s.Search(ctx, "owner-1", entity.Filters{Phase: analysis.PhasePitch})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != c2.ID {
		t.Fatalf("expected only the analyzed conversation, got %d results", len(got))
	}
	if got[0].Status != entity.StatusCompleted {
		t.Errorf("expected completed status, got %s", got[0].Status)
	}

	all, err := s.ListByOwner(ctx, "owner-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].ID != c1.ID || all[1].ID != c2.ID {
		t.Errorf("unexpected listing order or count: %d", len(all))
	}
}
