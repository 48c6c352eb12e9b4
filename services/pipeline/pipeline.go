// Package pipeline runs the end-to-end processing for one uploaded
// call: transcription, speaker identification, turn and dialogue
// analysis, and persistence. One Runner invocation owns its data
// exclusively until the final persist, so concurrent runs for different
// conversations need no shared locking.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/callsight/backend/pkg/logger"
	analysisusecase "github.com/callsight/backend/services/analysis/usecase"
	conventity "github.com/callsight/backend/services/conversation/entity"
	convusecase "github.com/callsight/backend/services/conversation/usecase"
	"github.com/callsight/backend/services/progress"
	transcription "github.com/callsight/backend/services/transcription/usecase"
)

type Runner struct {
	transcriber   transcription.Usecase
	analyzer      analysisusecase.Usecase
	conversations convusecase.Usecase
	tracker       *progress.Tracker
}

func New(
	transcriber transcription.Usecase,
	analyzer analysisusecase.Usecase,
	conversations convusecase.Usecase,
	tracker *progress.Tracker,
) *Runner {
	return &Runner{
		transcriber:   transcriber,
		analyzer:      analyzer,
		conversations: conversations,
		tracker:       tracker,
	}
}

// Process drives one conversation through the pipeline. Upstream
// failures are not retried here; the conversation is marked error with
// the failure message and retry policy is left to the caller.
func (r *Runner) Process(ctx context.Context, conversationID uuid.UUID, taskID, audioPath string) error {
	log := logger.With(ctx, "conversation_id", conversationID, "task_id", taskID)
	ctx = logger.WithContext(ctx, log)

	log.Info("pipeline started", "audio_path", audioPath)

	r.tracker.Update(taskID, progress.StepTranscribe, progress.StatusProcessing, "")
	transcript, err := r.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return r.fail(ctx, conversationID, taskID, progress.StepTranscribe, fmt.Errorf("transcription: %w", err))
	}
	if err := r.conversations.AttachTranscript(ctx, conversationID, transcript); err != nil {
		return r.fail(ctx, conversationID, taskID, progress.StepTranscribe, fmt.Errorf("store transcript: %w", err))
	}
	log.Debug("transcription complete", "segments", len(transcript.Segments), "language", transcript.Language)

	r.tracker.Update(taskID, progress.StepAnalyze, progress.StatusProcessing, "")
	analysis, err := r.analyzer.Analyze(ctx, *transcript)
	if err != nil {
		return r.fail(ctx, conversationID, taskID, progress.StepAnalyze, fmt.Errorf("analysis: %w", err))
	}
	if err := r.conversations.AttachAnalysis(ctx, conversationID, &analysis); err != nil {
		return r.fail(ctx, conversationID, taskID, progress.StepAnalyze, fmt.Errorf("store analysis: %w", err))
	}

	if err := r.conversations.SetStatus(ctx, conversationID, conventity.StatusCompleted, ""); err != nil {
		return r.fail(ctx, conversationID, taskID, progress.StepAnalyze, fmt.Errorf("mark completed: %w", err))
	}
	r.tracker.Update(taskID, progress.StepAnalyze, progress.StatusCompleted, "")

	log.Info("pipeline completed",
		"turns", analysis.TurnTaking.TotalTurns,
		"duration", analysis.Summary.Duration)
	return nil
}

func (r *Runner) fail(ctx context.Context, conversationID uuid.UUID, taskID string, step int, err error) error {
	logger.ErrorErr(ctx, "pipeline failed", err)

	if serr := r.conversations.SetStatus(ctx, conversationID, conventity.StatusError, err.Error()); serr != nil {
		logger.ErrorErr(ctx, "failed to record error status", serr)
	}
	r.tracker.Update(taskID, step, progress.StatusError, err.Error())
	return err
}
