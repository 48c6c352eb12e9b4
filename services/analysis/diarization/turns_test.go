package diarization

import (
	"errors"
	"math"
	"testing"

	"github.com/callsight/backend/services/analysis/entity"
)

func TestAnalyzeTurnTakingInvalidInput(t *testing.T) {
	segments := []entity.Segment{{Start: 0, End: 1}}

	if _, err := AnalyzeTurnTaking(nil, nil); !errors.Is(err, entity.ErrInvalidInput) {
		t.Errorf("empty input: expected ErrInvalidInput, got %v", err)
	}

	labels := []entity.SpeakerRole{entity.SpeakerSalesperson, entity.SpeakerCustomer}
	if _, err := AnalyzeTurnTaking(labels, segments); !errors.Is(err, entity.ErrInvalidInput) {
		t.Errorf("length mismatch: expected ErrInvalidInput, got %v", err)
	}
}

func TestTurnsZeroDurationTrailingTurn(t *testing.T) {
	segments := []entity.Segment{
		{Start: 0, End: 5, Text: "hi"},
		{Start: 5, End: 5, Text: "hi"},
	}
	labels := []entity.SpeakerRole{entity.SpeakerSalesperson, entity.SpeakerCustomer}

	turns := Turns(labels, segments)
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Speaker != entity.SpeakerSalesperson || turns[0].Duration != 5 {
		t.Errorf("unexpected first turn: %+v", turns[0])
	}
	if turns[1].Speaker != entity.SpeakerCustomer || turns[1].Duration != 0 {
		t.Errorf("unexpected trailing turn: %+v", turns[1])
	}

	stats, err := AnalyzeTurnTaking(labels, segments)
	if err != nil {
		t.Fatal(err)
	}
	if stats.CustomerStats.AvgDuration != 0 {
		t.Errorf("expected customer avg 0, got %f", stats.CustomerStats.AvgDuration)
	}
}

func TestAnalyzeTurnTakingSingleRole(t *testing.T) {
	segments := []entity.Segment{
		{Start: 0, End: 2},
		{Start: 2, End: 4},
		{Start: 4, End: 6},
	}
	labels := []entity.SpeakerRole{
		entity.SpeakerSalesperson, entity.SpeakerSalesperson, entity.SpeakerSalesperson,
	}

	stats, err := AnalyzeTurnTaking(labels, segments)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalTurns != 1 {
		t.Errorf("expected 1 turn, got %d", stats.TotalTurns)
	}
	if stats.SalespersonStats.TotalDuration != 6 {
		t.Errorf("expected total duration 6, got %f", stats.SalespersonStats.TotalDuration)
	}
	if stats.SalespersonStats.AvgDuration != 6 {
		t.Errorf("expected avg duration 6, got %f", stats.SalespersonStats.AvgDuration)
	}
	if stats.CustomerStats.TotalTurns != 0 || stats.CustomerStats.AvgDuration != 0 {
		t.Errorf("expected empty customer stats, got %+v", stats.CustomerStats)
	}
}

func TestTurnDurationConservation(t *testing.T) {
	segments := []entity.Segment{
		{Start: 0, End: 1.5},
		{Start: 1.5, End: 4},
		{Start: 4, End: 4.25},
		{Start: 4.25, End: 9},
		{Start: 9, End: 9},
		{Start: 9, End: 12.5},
	}
	labels := []entity.SpeakerRole{
		entity.SpeakerSalesperson,
		entity.SpeakerCustomer,
		entity.SpeakerCustomer,
		entity.SpeakerSalesperson,
		entity.SpeakerCustomer,
		entity.SpeakerSalesperson,
	}

	total := 0.0
	for _, s := range segments {
		total += s.Duration()
	}

	turnTotal := 0.0
	for _, turn := range Turns(labels, segments) {
		turnTotal += turn.Duration
	}

	if math.Abs(turnTotal-total) > 1e-9 {
		t.Errorf("turn durations sum to %f, segments to %f", turnTotal, total)
	}

	stats, err := AnalyzeTurnTaking(labels, segments)
	if err != nil {
		t.Fatal(err)
	}
	byRole := stats.SalespersonStats.TotalDuration + stats.CustomerStats.TotalDuration
	if math.Abs(byRole-total) > 1e-9 {
		t.Errorf("per-role durations sum to %f, segments to %f", byRole, total)
	}
	if stats.TotalTurns != 5 {
		t.Errorf("expected 5 turns, got %d", stats.TotalTurns)
	}
}
