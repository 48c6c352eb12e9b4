package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	analysis "github.com/callsight/backend/services/analysis/entity"
)

type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Conversation is the aggregate root for one recorded call. Created at
// upload time with status processing; the pipeline fills in Transcript
// and Analysis as stages complete. Status is the source of truth for
// pipeline completion.
type Conversation struct {
	ID         uuid.UUID            `json:"id"`
	OwnerID    string               `json:"owner_id"`
	AudioPath  string               `json:"audio_path"`
	Status     Status               `json:"status"`
	Error      string               `json:"error,omitempty"`
	Transcript *analysis.Transcript `json:"transcript,omitempty"`
	Analysis   *analysis.Analysis   `json:"analysis,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
}

// Filters narrows a conversation search. All fields are optional and
// combine with AND semantics; zero values mean "no constraint".
type Filters struct {
	Query     string
	StartDate *time.Time
	EndDate   *time.Time
	Phase     analysis.Phase
	Sentiment analysis.Sentiment
}

// Match reports whether the conversation satisfies every set filter.
// Date bounds are inclusive on both ends; phase and sentiment test
// presence in the summary (duration or count above zero).
func (f Filters) Match(c *Conversation) bool {
	if f.Query != "" && !matchesQuery(c, f.Query) {
		return false
	}
	if f.StartDate != nil && c.CreatedAt.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && c.CreatedAt.After(*f.EndDate) {
		return false
	}
	if f.Phase != "" {
		if c.Analysis == nil || c.Analysis.Summary.PhaseDistribution[f.Phase] <= 0 {
			return false
		}
	}
	if f.Sentiment != "" {
		if c.Analysis == nil || c.Analysis.Summary.SentimentSummary[f.Sentiment] <= 0 {
			return false
		}
	}
	return true
}

func matchesQuery(c *Conversation, query string) bool {
	q := strings.ToLower(query)
	if c.Transcript != nil {
		if strings.Contains(strings.ToLower(c.Transcript.Text), q) {
			return true
		}
		for _, seg := range c.Transcript.Segments {
			if strings.Contains(strings.ToLower(seg.Text), q) {
				return true
			}
		}
	}
	if c.Analysis != nil {
		for _, seg := range c.Analysis.Segments {
			if strings.Contains(strings.ToLower(seg.Text), q) {
				return true
			}
		}
	}
	return false
}

// FleetStats aggregates analytics across one owner's conversation
// history. Derived on demand, never persisted; key sets are the fixed
// closed phase/sentiment sets, zero-filled.
type FleetStats struct {
	TotalConversations    int                        `json:"total_conversations"`
	TotalDuration         float64                    `json:"total_duration"`
	PhaseDistribution     map[analysis.Phase]float64 `json:"phase_distribution"`
	SentimentDistribution map[analysis.Sentiment]int `json:"sentiment_distribution"`
}

func NewFleetStats() *FleetStats {
	stats := &FleetStats{
		PhaseDistribution:     make(map[analysis.Phase]float64, len(analysis.Phases())),
		SentimentDistribution: make(map[analysis.Sentiment]int, len(analysis.Sentiments())),
	}
	for _, p := range analysis.Phases() {
		stats.PhaseDistribution[p] = 0
	}
	for _, s := range analysis.Sentiments() {
		stats.SentimentDistribution[s] = 0
	}
	return stats
}

// Add folds one conversation into the rollup. Conversations without a
// finished analysis contribute only to the count.
func (s *FleetStats) Add(c *Conversation) {
	s.TotalConversations++
	if c.Analysis == nil {
		return
	}
	s.TotalDuration += c.Analysis.Summary.Duration
	for phase, duration := range c.Analysis.Summary.PhaseDistribution {
		s.PhaseDistribution[phase] += duration
	}
	for sentiment, count := range c.Analysis.Summary.SentimentSummary {
		s.SentimentDistribution[sentiment] += count
	}
}
