package diarization

import (
	"fmt"

	"github.com/callsight/backend/services/analysis/entity"
)

// AnalyzeTurnTaking collapses the speaker label sequence into turns and
// computes per-role statistics. The label and segment slices must be the
// same non-zero length; this is a caller contract, not a degenerate-data
// fallback.
func AnalyzeTurnTaking(speakers []entity.SpeakerRole, segments []entity.Segment) (entity.TurnStatistics, error) {
	if len(segments) == 0 {
		return entity.TurnStatistics{}, fmt.Errorf("analyze turn taking: %w: no segments", entity.ErrInvalidInput)
	}
	if len(speakers) != len(segments) {
		return entity.TurnStatistics{}, fmt.Errorf("analyze turn taking: %w: %d speaker labels for %d segments",
			entity.ErrInvalidInput, len(speakers), len(segments))
	}

	return turnStatistics(Turns(speakers, segments)), nil
}

// Turns merges consecutive equal speaker labels into turns. A turn's
// duration is the sum of its member segment durations; the trailing open
// turn is always emitted.
func Turns(speakers []entity.SpeakerRole, segments []entity.Segment) []entity.Turn {
	if len(segments) == 0 {
		return nil
	}

	var turns []entity.Turn
	current := entity.Turn{Speaker: speakers[0]}

	for i, seg := range segments {
		if speakers[i] != current.Speaker {
			turns = append(turns, current)
			current = entity.Turn{Speaker: speakers[i]}
		}
		current.Duration += seg.Duration()
	}

	return append(turns, current)
}

func turnStatistics(turns []entity.Turn) entity.TurnStatistics {
	return entity.TurnStatistics{
		TotalTurns:       len(turns),
		SalespersonStats: roleStats(turns, entity.SpeakerSalesperson),
		CustomerStats:    roleStats(turns, entity.SpeakerCustomer),
	}
}

func roleStats(turns []entity.Turn, role entity.SpeakerRole) entity.RoleStats {
	stats := entity.RoleStats{}
	for _, t := range turns {
		if t.Speaker != role {
			continue
		}
		stats.TotalTurns++
		stats.TotalDuration += t.Duration
	}
	if stats.TotalTurns > 0 {
		stats.AvgDuration = stats.TotalDuration / float64(stats.TotalTurns)
	}
	return stats
}
