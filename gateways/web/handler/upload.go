package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/callsight/backend/pkg/json"
	"github.com/callsight/backend/pkg/logger"
	"github.com/callsight/backend/services/audio/consts"
	"github.com/callsight/backend/services/progress"
)

type uploadResponse struct {
	ID     uuid.UUID `json:"id"`
	TaskID string    `json:"task_id"`
	Status string    `json:"status"`
}

// UploadHandler accepts a multipart audio upload, creates the
// conversation record and launches the pipeline in the background. The
// response carries the conversation id for the record and the task id
// for progress polling.
func (h *handler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	owner, err := h.ownerID(r)
	if err != nil {
		json.WriteError(w, http.StatusForbidden, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, consts.MaxUploadSize+1)
	file, header, err := r.FormFile("file")
	if err != nil {
		json.WriteError(w, http.StatusBadRequest, fmt.Errorf("missing file: %w", err))
		return
	}
	defer file.Close()

	path, err := h.audio.SaveUpload(header.Filename, file)
	if err != nil {
		json.WriteError(w, http.StatusBadRequest, err)
		return
	}

	conv, err := h.conversations.Create(r.Context(), owner, path)
	if err != nil {
		json.WriteError(w, http.StatusInternalServerError, err)
		return
	}

	taskID := uuid.NewString()
	h.tracker.Create(taskID)
	h.tracker.Update(taskID, progress.StepUpload, progress.StatusProcessing, "")

	// The request context dies with the response; the pipeline run
	// outlives it.
	bg := logger.WithContext(context.WithoutCancel(r.Context()), h.log)
	go func() {
		if err := h.pipeline.Process(bg, conv.ID, taskID, path); err != nil {
			logger.ErrorErr(bg, "background processing failed", err, "conversation_id", conv.ID)
		}
	}()

	json.WriteJSON(w, http.StatusAccepted, uploadResponse{
		ID:     conv.ID,
		TaskID: taskID,
		Status: string(conv.Status),
	})
}
